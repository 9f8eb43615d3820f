package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	log := New()
	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected logger to be enabled")
	}
}

func TestNew_LevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	if got := New().GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("New() level = %v, want debug", got)
	}

	t.Setenv("LOG_LEVEL", "nonsense")
	if got := New().GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("New() level = %v, want info fallback", got)
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Msg("draft saved")

	if !strings.Contains(buf.String(), "draft saved") {
		t.Errorf("Expected output to contain message, got: %s", buf.String())
	}
}

func TestForComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	log := ForComponent(NewWithWriter(buf), "recorder")

	log.Info().Msg("insert ok")

	if !strings.Contains(buf.String(), `"component":"recorder"`) {
		t.Errorf("Expected component field, got: %s", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	testLog := NewWithWriter(buf)
	ctx := WithContext(context.Background(), testLog)

	log := FromContext(ctx)
	log.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() == zerolog.Disabled {
		t.Error("Expected default logger to be enabled")
	}
}
