package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/teleclone/internal/config"
	"github.com/matheus3301/teleclone/internal/server"
	"go.uber.org/fx"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to config.toml")
	addrFlag := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}

	app := fx.New(
		server.Module(server.ParamsFromConfig(cfg)),
	)

	app.Run()
}
