// Command bot runs the expense bot as a stdin/stdout conversation, with
// the monthly payment-due report scheduled in the background.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/molvera/gastobot/internal/bot"
	"github.com/molvera/gastobot/internal/config"
	"github.com/molvera/gastobot/internal/draft"
	"github.com/molvera/gastobot/internal/enrich"
	"github.com/molvera/gastobot/internal/fx"
	"github.com/molvera/gastobot/internal/logger"
	"github.com/molvera/gastobot/internal/parser"
	"github.com/molvera/gastobot/internal/recorder"
	"github.com/molvera/gastobot/internal/report"
	"github.com/molvera/gastobot/internal/scheduler"
	"github.com/molvera/gastobot/internal/store/inmemory"
)

// stdoutSink prints scheduled reports into the conversation.
type stdoutSink struct{}

func (stdoutSink) Send(ctx context.Context, text string) error {
	_, err := fmt.Println(text)
	return err
}

func main() {
	_ = godotenv.Load()

	log := logger.New()

	configPath := os.Getenv("GASTOBOT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loc := cfg.Location()

	p := parser.New(parser.Options{
		Methods:  cfg.PaymentMethods,
		Keywords: cfg.Keywords,
		Location: loc,
	})
	lifecycle := draft.NewLifecycle(draft.Config{
		Methods:  cfg.PaymentMethods,
		Location: loc,
	})
	drafts := inmemory.NewDraftStore(cfg.DraftTTL())
	trips := inmemory.NewTripStore()
	rules := inmemory.NewCardRuleStore(cfg.Cards)

	var rec recorder.Recorder = recorder.Noop{}
	if cfg.BigQuery.ProjectID != "" {
		bq, err := recorder.NewBigQuery(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Dataset, cfg.BigQuery.Table, rules)
		if err != nil {
			log.Fatal().Err(err).Msg("creating bigquery recorder")
		}
		rec = bq
	} else {
		log.Warn().Msg("no BigQuery project configured, expenses will not persist")
	}
	defer rec.Close()

	var suggester enrich.Suggester
	if cfg.Enrich.APIKey != "" {
		g, err := enrich.NewGemini(ctx, cfg.Enrich.Model)
		if err != nil {
			log.Warn().Err(err).Msg("model enrichment unavailable, falling back to keywords")
		} else {
			suggester = g
		}
	}
	if suggester == nil {
		var staticRules []enrich.Rule
		for _, kw := range cfg.Keywords {
			staticRules = append(staticRules, enrich.Rule{
				Keyword: kw.Keyword, Merchant: kw.Merchant, Category: kw.Category,
			})
		}
		suggester = enrich.NewStatic(staticRules)
	}

	categories := make([]string, 0, len(cfg.Keywords))
	seen := map[string]bool{}
	for _, kw := range cfg.Keywords {
		if kw.Category != "" && !seen[kw.Category] {
			seen[kw.Category] = true
			categories = append(categories, kw.Category)
		}
	}

	reports := report.NewBuilder(rules)
	handler := bot.NewHandler(bot.Deps{
		Parser:     p,
		Lifecycle:  lifecycle,
		Drafts:     drafts,
		Trips:      trips,
		Recorder:   rec,
		Rates:      fx.NewFixed(draft.HomeCurrency, cfg.FX.FallbackRate, cfg.FX.FallbackProvider),
		Suggester:  suggester,
		Reports:    reports,
		Categories: categories,
		Location:   loc,
		Log:        logger.ForComponent(log, "bot"),
	})

	sched := scheduler.New(ctx, reports, stdoutSink{}, loc, logger.ForComponent(log, "scheduler"))
	if err := sched.Register(cfg.Schedule.ReportCron); err != nil {
		log.Fatal().Err(err).Msg("registering report schedule")
	}
	sched.Start()
	defer sched.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	log.Info().Msg("gastobot ready, type an expense")

	const conversationID = "local"
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		turnCtx, turnCancel := context.WithTimeout(ctx, 30*time.Second)
		reply, err := handler.HandleMessage(turnCtx, conversationID, scanner.Text())
		turnCancel()
		if err != nil {
			log.Error().Err(err).Msg("handling message")
			fmt.Println("Algo salió mal, intenta de nuevo.")
			continue
		}
		fmt.Println(reply)
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("reading input")
	}
}
