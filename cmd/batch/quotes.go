package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"stock_portfolio/internal/app/di"
	"stock_portfolio/internal/platform/externalapi/twelvedata"
)

// quotesCmd は保有銘柄の株価を Twelve Data から取得して保存します。
type quotesCmd struct {
	missing bool
}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "update market data for held stocks" }
func (*quotesCmd) Usage() string {
	return `quotes [-missing]

Fetches the latest quote for every held stock and upserts market_data.
With -missing, only stocks without a market_data row are fetched.
`
}

func (c *quotesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.missing, "missing", false, "only fetch stocks without market data")
}

func (c *quotesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := slog.Default().With("run_id", uuid.NewString(), "command", "quotes")
	// ドライバーやリポジトリのログにも run_id を載せる
	slog.SetDefault(logger)

	cfg := twelvedata.LoadConfig()
	if cfg.TwelveDataAPIKey == "" {
		logger.Error("TWELVE_DATA_API_KEY is not set")
		return subcommands.ExitFailure
	}

	db, err := di.OpenDB()
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return subcommands.ExitFailure
	}

	uc := di.NewQuoteUsecase(db, cfg)
	update := uc.UpdateAll
	if c.missing {
		update = uc.UpdateMissing
	}

	report, err := update(ctx)
	if err != nil {
		logger.Error("quote update failed", "error", err)
		return subcommands.ExitFailure
	}
	logger.Info("quote update finished", "updated", report.Updated, "failed", report.Failed)
	return subcommands.ExitSuccess
}
