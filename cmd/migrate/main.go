package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"candidate-registry/internal/config"
	"candidate-registry/internal/database"
	"candidate-registry/internal/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, version, force")
		steps   = flag.Int("steps", 0, "Number of migration steps (for up/down)")
		version = flag.Uint("version", 0, "Target version (for force command)")
	)
	flag.Parse()

	cfg, err := config.LoadStore()
	if err != nil {
		fatal("config error", err)
	}
	slog.SetDefault(logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat))

	if cfg.DBAdapter == config.AdapterSQLite {
		if *command != "up" {
			fatal("unsupported command", fmt.Errorf("sqlite adapter only supports up, got %q", *command))
		}
		if err := migrateSQLite(cfg.SQLiteFile); err != nil {
			fatal("migration up failed", err)
		}
		fmt.Println("Migrations applied successfully")
		return
	}

	mg, err := database.NewPostgresMigrator(cfg.DatabaseURL)
	if err != nil {
		fatal("failed to open migrator", err)
	}
	defer mg.Close()

	switch *command {
	case "up":
		if *steps > 0 {
			err = mg.Steps(*steps)
		} else {
			err = mg.Up()
		}
		if err != nil {
			mg.Close()
			fatal("migration up failed", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if *steps > 0 {
			err = mg.Steps(-*steps)
		} else {
			err = mg.Down()
		}
		if err != nil {
			mg.Close()
			fatal("migration down failed", err)
		}
		fmt.Println("Migrations rolled back successfully")
	case "version":
		v, dirty, err := mg.Version()
		if err != nil {
			mg.Close()
			fatal("failed to get version", err)
		}
		if dirty {
			fmt.Printf("Database is in a dirty state (version %d)\n", v)
			mg.Close()
			os.Exit(1)
		}
		fmt.Printf("Current migration version: %d\n", v)
	case "force":
		if *version == 0 {
			mg.Close()
			fatal("version required", fmt.Errorf("use -version with the force command"))
		}
		if err := mg.Force(int(*version)); err != nil {
			mg.Close()
			fatal("force migration failed", err)
		}
		fmt.Printf("Forced database to version %d\n", *version)
	default:
		mg.Close()
		fatal("unknown command", fmt.Errorf("%q (supported: up, down, version, force)", *command))
	}
}

func migrateSQLite(path string) error {
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	return database.MigrateSQLite(ctx, db.DB)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
