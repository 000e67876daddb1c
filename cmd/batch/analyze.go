package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_portfolio/internal/app/di"
	infraredis "stock_portfolio/internal/platform/redis"
)

// analyzeCmd は PENDING の開示がなくなるまで分析を続けます。
type analyzeCmd struct{}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "analyze pending disclosures until the queue stays idle" }
func (*analyzeCmd) Usage() string {
	return `analyze

Processes PENDING disclosures one at a time, oldest first.
Exits after ANALYZE_MAX_IDLE_POLLS consecutive empty polls.
`
}

func (*analyzeCmd) SetFlags(*flag.FlagSet) {}

func (*analyzeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := slog.Default().With("run_id", uuid.NewString(), "command", "analyze")
	// ドライバーやリポジトリのログにも run_id を載せる
	slog.SetDefault(logger)

	db, err := di.OpenDB()
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return subcommands.ExitFailure
	}

	// 書き込み時にダッシュボードのキャッシュを無効化する
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err == nil {
		rdb = tmp
		defer rdb.Close()
	} else if !errors.Is(err, infraredis.ErrNotConfigured) {
		logger.Warn("Redis unavailable. Cache will not be invalidated.", "error", err)
	}

	driver, err := di.NewBatchDriver(ctx, rdb, db)
	if err != nil {
		logger.Error("failed to initialize analyzer", "error", err)
		return subcommands.ExitFailure
	}

	report, err := driver.Run(ctx)
	attrs := []any{
		"processed", report.Processed,
		"failures", report.Failures,
		"idle_polls", report.IdlePolls,
	}
	for s, n := range report.ByStatus {
		attrs = append(attrs, "status_"+s.String(), n)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("analyze interrupted", attrs...)
			return subcommands.ExitSuccess
		}
		logger.Error("analyze aborted", append(attrs, "error", err)...)
		return subcommands.ExitFailure
	}
	logger.Info("analyze finished", attrs...)
	return subcommands.ExitSuccess
}
