package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"candidate-registry/internal/app"
	"candidate-registry/internal/config"
	"candidate-registry/internal/logger"
	"candidate-registry/internal/service"
)

func main() {
	var (
		name  = flag.String("name", "", "Display name of the new user")
		email = flag.String("email", "", "Login email of the new user")
	)
	flag.Parse()

	cfg, err := config.LoadStore()
	if err != nil {
		fatal("config error", err)
	}
	slog.SetDefault(logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat))

	reader := bufio.NewReader(os.Stdin)
	if *name == "" {
		if *name, err = promptText(reader, os.Stdout, "Name"); err != nil {
			fatal("failed to read name", err)
		}
	}
	if *email == "" {
		if *email, err = promptText(reader, os.Stdout, "Email"); err != nil {
			fatal("failed to read email", err)
		}
	}

	password, err := promptPassword(os.Stdout)
	if err != nil {
		fatal("failed to read password", err)
	}

	ctx := context.Background()
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		fatal("failed to open store", err)
	}
	defer stores.Close()

	auth := service.NewAuthService(stores.Users, nil, nil, false)
	user, err := auth.CreateUser(ctx, *name, *email, password)
	if err != nil {
		stores.Close()
		fatal("failed to create user", err)
	}

	fmt.Printf("Created user %d (%s)\n", user.ID, user.Email)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
