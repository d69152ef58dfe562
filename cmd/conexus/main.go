package main

import (
	"context"
	"fmt"
	"log"

	"github.com/MrSnakeDoc/conexus/internal/app"
	"github.com/MrSnakeDoc/conexus/internal/config"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("❌ conexus failed to start: %v", err)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ conexus failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ conexus stopped with error: %v", err)
	}
}

// loadConfig turns the panic config.Load raises on a missing variable into
// an error, so startup ends with one diagnostic line and exit status 1.
func loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return config.Load(), nil
}
