package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"adspend/internal/config"
	"adspend/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer.StartWatcher(ctx)
	appContainer.Warm(ctx)

	appContainer.Logger.Info("Starting ad spend dashboard on port %s (workbook %q)", appConfig.Server.Port, appConfig.Data.WorkbookPath)
	serveErr := appContainer.Server.Start(ctx, ":"+appConfig.Server.Port)

	if err := appContainer.Shutdown(context.Background()); err != nil {
		appContainer.Logger.Error("Shutdown failed: %v", err)
	}
	if serveErr != nil {
		log.Fatalf("Server failed: %v", serveErr)
	}
}
