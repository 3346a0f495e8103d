package main

import (
	"flag"
	"log"

	"github.com/cse-motors/motors/internal/config"
	"github.com/cse-motors/motors/internal/database"
	"github.com/cse-motors/motors/internal/server"
)

const version = "0.0.1"

func initializeServer(configPath string) (*server.Server, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	return server.New(cfg, db)
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting CSE Motors v%s with config: %s", version, *configPath)

	srv, err := initializeServer(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	log.Fatal(srv.Serve())
}
