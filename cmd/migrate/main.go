package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"agri_trade/internal/lib/logger/sl"
	"agri_trade/internal/storage/postgresql"

	"github.com/joho/godotenv"
)

// migrate [--dsn=...] up|down|status|version|redo|reset
func main() {
	var dsn string

	flag.StringVar(&dsn, "dsn", "", "postgres connection string (DATABASE_URL by default)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	_ = godotenv.Load()

	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}

	command, args, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	if dsn == "" {
		log.Error("dsn is required")
		os.Exit(2)
	}

	if err := postgresql.Migrate(context.Background(), dsn, command, args...); err != nil {
		log.Error("migration failed", slog.String("command", command), sl.Err(err))
		os.Exit(1)
	}

	log.Info("migration finished", slog.String("command", command))
}

func parseArgs(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, errors.New("migration command is required")
	}

	switch args[0] {
	case "up", "up-by-one", "up-to", "down", "down-to", "redo", "reset", "status", "version":
		return args[0], args[1:], nil
	default:
		return "", nil, fmt.Errorf("unknown migration command %q", args[0])
	}
}
