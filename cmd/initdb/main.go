package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/yigit/edutrack/internal/bootstrap"
)

func main() {
	// Real environment variables take precedence over .env
	_ = godotenv.Load()

	opts, err := bootstrap.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts)
	if err != nil {
		// Details were logged by LoadConfigAndSetupLogger
		os.Exit(1)
	}

	lgr = lgr.With().Str("run_id", uuid.NewString()).Logger()

	if err := bootstrap.NewRunner(os.Stdout, lgr).Run(context.Background(), cfg); err != nil {
		lgr.Error().Err(err).Msg("Database setup failed")
		os.Exit(1)
	}
}
