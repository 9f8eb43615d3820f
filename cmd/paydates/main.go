// Command paydates prints the payment calendar for a month across the
// configured cards.
//
// Usage:
//
//	paydates [-config config.yaml] [-month 2024-06]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/molvera/gastobot/internal/billing"
	"github.com/molvera/gastobot/internal/config"
	"github.com/molvera/gastobot/internal/logger"
	"github.com/molvera/gastobot/internal/report"
	"github.com/molvera/gastobot/internal/store/inmemory"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	configPath := flag.String("config", "config.yaml", "path to config file")
	monthFlag := flag.String("month", "", "target month as YYYY-MM (default: current month)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	month, err := targetMonth(*monthFlag, cfg.Location())
	if err != nil {
		log.Fatal().Err(err).Msg("parsing month")
	}

	rules := inmemory.NewCardRuleStore(cfg.Cards)
	dues, err := report.NewBuilder(rules).PaymentsDue(context.Background(), month)
	if err != nil {
		log.Fatal().Err(err).Msg("building report")
	}
	if len(dues) == 0 {
		fmt.Fprintln(os.Stderr, "no active cards configured")
		os.Exit(1)
	}

	fmt.Print(report.Format(month, dues))
}

func targetMonth(s string, loc *time.Location) (billing.Month, error) {
	if s == "" {
		now := time.Now().In(loc)
		return billing.Month{Year: now.Year(), Month: now.Month()}, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return billing.Month{}, fmt.Errorf("month %q: want YYYY-MM: %w", s, err)
	}
	return billing.Month{Year: t.Year(), Month: t.Month()}, nil
}
