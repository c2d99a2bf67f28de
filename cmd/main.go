package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/applytrack-backend/internal/app"
	"github.com/yungbote/applytrack-backend/internal/platform/envutil"
	"github.com/yungbote/applytrack-backend/internal/platform/logger"
)

func main() {
	app.LoadDotEnv(nil)

	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("Failed to init app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()
	if err := a.Run(ctx); err != nil {
		log.Error("Server exited", "error", err)
		a.Close()
		os.Exit(1)
	}
	log.Info("Server stopped")
}
