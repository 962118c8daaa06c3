package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/YuthikaAnvitha/cyber-quest/internal/config"
	"github.com/YuthikaAnvitha/cyber-quest/internal/server"
)

func main() {
	c, err := loadConfig()
	if err != nil {
		log.Fatalf("Load config failed: %v", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, os.Interrupt)

	s, err := server.Init(c)
	if err != nil {
		log.Fatalf("Init server failed: %v", err)
	}

	go s.Start()

	<-shutdown
	s.Shutdown()
}

func loadConfig() (server.Config, error) {
	// Optional .env for local development; env vars win either way.
	_ = godotenv.Load()

	var c server.Config
	c.HTTP.Port = 5000
	c.Store.Backend = "postgres"
	c.Quiz.PoolPath = "questions.json"
	c.Quiz.DurationMin = 25
	c.Web.Templates = "templates/*"
	c.Web.Static = "static"

	if err := config.Load(os.Getenv("CONFIG_PATH"), &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}
