package main

import (
	"context"
	"log"
	"os"

	"github.com/covyhq/covy/internal/buildinfo"
	"github.com/covyhq/covy/internal/client/cli"
	"github.com/covyhq/covy/internal/client/config"
	"github.com/covyhq/covy/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
