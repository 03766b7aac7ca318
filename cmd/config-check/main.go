package main

import (
	"encoding/json"
	"fmt"
	"log"

	"softwire/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	out, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode config: %v", err)
	}
	fmt.Println(string(out))
}
