// Runs goose migrations against the configured database.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate status
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/caseflow/caseflow/internal/logger"
	"github.com/caseflow/caseflow/internal/storage/postgres"
)

func main() {
	logger.Initialize()

	dir := flag.String("dir", "migrations", "directory with migration files")
	flag.Parse()

	command := "up"
	var extra []string
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
		extra = args[1:]
	}

	ctx := context.Background()
	cfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		logger.Fatalf("failed to load db config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatalf("set goose dialect: %v", err)
	}

	if err := goose.RunContext(ctx, command, db, *dir, extra...); err != nil {
		logger.Errorf("goose %s: %v", command, err)
		os.Exit(1)
	}
}
