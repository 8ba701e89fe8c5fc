package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gunvolt24/tenderstore/config"
	"github.com/Gunvolt24/tenderstore/internal/cli"
	"github.com/Gunvolt24/tenderstore/pkg/logger"
)

// CLI-приложение для обслуживания снимков цен.
func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshotctl: load config: %v\n", err)
		return cli.ExitUsageError
	}

	logg, cleanup, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshotctl: logger: %v\n", err)
		return cli.ExitRuntimeError
	}
	defer func() { _ = cleanup() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.Run(ctx, cli.Env{Config: &cfg, Log: logg}, os.Args[1:], os.Stderr)
}
