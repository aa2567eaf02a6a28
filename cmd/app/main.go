package main

import (
	"flag"
	"log"
	"os"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/di"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s cache=%s symbols=%v", cfg.Environment, cfg.Cache.Backend, cfg.Provider.Symbols)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
