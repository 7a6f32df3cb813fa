package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/teleclone/internal/client"
	"github.com/matheus3301/teleclone/internal/config"
	"github.com/matheus3301/teleclone/internal/lock"
	"github.com/matheus3301/teleclone/internal/logging"
	"github.com/matheus3301/teleclone/internal/profile"
	"github.com/matheus3301/teleclone/internal/tui"
	"go.uber.org/zap"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	configFlag := flag.String("config", config.Path(), "path to config.toml")
	debugFlag := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	name := profile.Resolve(*profileFlag, cfg)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to the file only.
	logger, err := logging.New(profile.LogPath(name, "teleclone"), logging.Options{
		Component: "teleclone",
		Profile:   name,
		Debug:     *debugFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: init logger: %v\n", err)
		os.Exit(1)
	}

	c, err := client.Open(context.Background(), client.Params{
		Profile: name,
		Config:  cfg,
		Program: "teleclone",
		Logger:  logger,
	})
	if err != nil {
		var held *lock.LockHeldError
		if errors.As(err, &held) {
			fmt.Fprintf(os.Stderr, "error: %v\n", held)
		} else {
			fmt.Fprintf(os.Stderr, "error: open profile %q: %v\n", name, err)
		}
		os.Exit(1)
	}

	logger.Info("tui starting", zap.String("proxy", cfg.Client.ProxyURL), zap.String("backend", cfg.Client.Backend))
	app := tui.NewApp(c, cfg.Client.Backend, logger)
	runErr := app.Run()
	if err := c.Close(); err != nil {
		logger.Warn("close client", zap.Error(err))
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
