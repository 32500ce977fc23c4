package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vision-inspect/config"
	"vision-inspect/internal/container"
	"vision-inspect/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.ProgramName == "" {
		log.Fatal("PROGRAM_NAME is required")
	}

	lg := logger.NewConsole(logger.ParseLevel(cfg.LogLevel))

	// Собираем конвейер инспекции
	c, err := container.New(cfg, lg)
	if err != nil {
		log.Fatalf("Failed to load inspection program: %v", err)
	}
	defer c.Engine.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Engine.RunContinuous(ctx, nil); err != nil {
		log.Fatalf("Inspection error: %v", err)
	}
}
