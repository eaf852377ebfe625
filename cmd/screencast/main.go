package main

import (
	"fmt"
	"os"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
	"github.com/Trucker2827/sb1-wf5mkd/internal/cli"
	"github.com/Trucker2827/sb1-wf5mkd/internal/config"
	"github.com/Trucker2827/sb1-wf5mkd/internal/logging"
	"github.com/Trucker2827/sb1-wf5mkd/internal/preview"
	"github.com/Trucker2827/sb1-wf5mkd/internal/record"
	"github.com/Trucker2827/sb1-wf5mkd/internal/session"
	"github.com/Trucker2827/sb1-wf5mkd/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.LogPath(), cfg.LogLevel)

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		// History is a convenience; the recorder works without it.
		log.WithError(err).Warn("session history unavailable")
		st = nil
	}

	runner := &record.FFmpegRunner{Path: cfg.FFmpegPath, Log: log}
	player := &preview.FFplayPlayer{Path: cfg.FFplayPath, Log: log}

	ctrl := session.New(log, cfg, capture.PlatformProber{}, runner, player, st)

	deps := &cli.Dependencies{
		Ctrl:   ctrl,
		Config: cfg,
		Log:    log,
	}

	return cli.NewRootCmd(deps).Execute()
}
