package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreasstove999/cafeteria-go/internal/cli"
	"github.com/andreasstove999/cafeteria-go/internal/config"
	"github.com/andreasstove999/cafeteria-go/internal/logging"
)

func main() {
	config.LoadDotEnv()
	cfg := config.LoadClient()
	logger := logging.New("cafeteria", cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cfg, logger).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
