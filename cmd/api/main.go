package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"coursequiz/internal/app"
	"coursequiz/internal/config"
)

const configLoadTimeout = 10 * time.Second

func main() {
	// outside production the binary is usually run from the repo root,
	// where a .env sits next to go.mod
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), configLoadTimeout)
	cfg, err := config.Load(loadCtx)
	cancel()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	instance, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}
	if err := instance.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}
