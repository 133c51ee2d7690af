package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/bbox_compass/internal/app"
	"github.com/relabs-tech/bbox_compass/internal/config"
)

func main() {
	configPath := flag.String("config", "bbcompass.conf", "KEY=VALUE configuration file")
	flag.Parse()

	log.Println("starting bbcompass console (MQTT subscriber)")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
