package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dangvu008/wattendo/internal/cli"
)

func main() {
	// Optional .env for secrets referenced by ${VAR} in config.yaml.
	_ = godotenv.Load()

	root := cli.NewRootCommand()
	if path := os.Getenv("WATTENDO_CONFIG_PATH"); path != "" {
		_ = root.PersistentFlags().Set("config", path)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
