package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/subcommands"

	jwtmw "stock_portfolio/internal/platform/jwt"
)

// tokenCmd は管理 API 用のトークンを標準出力に書き出します。
type tokenCmd struct {
	subject string
	ttl     time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue a bearer token for the admin API" }
func (*tokenCmd) Usage() string {
	return `token [-sub name] [-ttl duration]

Prints a JWT signed with JWT_SECRET for POST /v1/disclosures and the reset endpoint.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.subject, "sub", "scraper", "token subject")
	f.DurationVar(&c.ttl, "ttl", 24*time.Hour, "token lifetime")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		slog.Error("JWT_SECRET is not set")
		return subcommands.ExitFailure
	}
	token, err := jwtmw.NewGenerator(secret, c.ttl).GenerateToken(c.subject)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		return subcommands.ExitFailure
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}
