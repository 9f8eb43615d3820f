package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/molvera/gastobot/internal/domain"
	"github.com/molvera/gastobot/internal/logger"
	"github.com/molvera/gastobot/internal/report"
	"github.com/molvera/gastobot/internal/store/inmemory"
)

type captureSink struct {
	messages []string
}

func (c *captureSink) Send(ctx context.Context, text string) error {
	c.messages = append(c.messages, text)
	return nil
}

func TestReportTask(t *testing.T) {
	rules := inmemory.NewCardRuleStore([]domain.CardBillingRule{
		{CardName: "BBVA Platino", CutDay: 2, PayOffsetDays: 20, Active: true},
	})
	sink := &captureSink{}

	s := New(context.Background(), report.NewBuilder(rules), sink, time.UTC, logger.NewWithWriter(&strings.Builder{}))
	s.now = func() time.Time {
		return time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	}

	s.RunReportNow()

	if len(sink.messages) != 1 {
		t.Fatalf("sink received %d messages, want 1", len(sink.messages))
	}
	msg := sink.messages[0]
	if !strings.Contains(msg, "Pagos de 2024-05") || !strings.Contains(msg, "BBVA Platino") {
		t.Errorf("report = %q", msg)
	}
	if !strings.Contains(msg, "2024-05-22") {
		t.Errorf("report missing pay date 2024-05-22: %q", msg)
	}
}

func TestRegister_BadCron(t *testing.T) {
	s := New(context.Background(), report.NewBuilder(inmemory.NewCardRuleStore(nil)), &captureSink{}, time.UTC, logger.NewWithWriter(&strings.Builder{}))
	if err := s.Register("not a cron spec"); err == nil {
		t.Error("Register() with bad spec: expected error")
	}
	if err := s.Register("0 9 1 * *"); err != nil {
		t.Errorf("Register() with valid spec error = %v", err)
	}
}
