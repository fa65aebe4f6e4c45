package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/health-export/internal/config"
	"github.com/fdg312/health-export/internal/dbmigrate"
)

// Goose commands that need no extra arguments.
var commands = []string{"up", "up-by-one", "down", "redo", "reset", "status", "version"}

func usage() string {
	return fmt.Sprintf("usage: go run ./cmd/migrate <%s>", strings.Join(commands, "|"))
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage())
	}

	command := os.Args[1]
	known := false
	for _, c := range commands {
		known = known || c == command
	}
	if !known {
		log.Fatalf("unsupported command %q\n%s", command, usage())
	}

	cfg := config.Load()
	target, err := dbmigrate.SelectTarget(cfg, false)
	if err != nil {
		log.Fatal(err)
	}
	if target.Warning != "" {
		log.Printf("WARN migrate: %s", target.Warning)
	}

	dir := cfg.MigrationsDir
	if dir == "" {
		dir = "(embedded)"
	}
	log.Printf("migrate: command=%s using=%s dir=%s", command, target.Source, dir)

	if err := dbmigrate.Run(context.Background(), command, target.URL, cfg.MigrationsDir); err != nil {
		log.Fatal(err)
	}

	log.Printf("migrate: %s completed successfully", command)
}
