// Command create-account adds a dashboard account directly to the account
// store. It is used to bootstrap operators without going through signup.
//
// Usage:
//
//	create-account --email=user@example.com --name="Jane Doe"
//
// The password is read from the ACCOUNT_PASSWORD environment variable.
// Database settings come from the usual config file and environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/sqlstore"
	"github.com/heartmarshall/transcribe-dashboard/internal/adapter/sqlstore/account"
	"github.com/heartmarshall/transcribe-dashboard/internal/app"
	"github.com/heartmarshall/transcribe-dashboard/internal/config"
	"github.com/heartmarshall/transcribe-dashboard/internal/domain"
	authsvc "github.com/heartmarshall/transcribe-dashboard/internal/service/auth"
)

func main() {
	email := flag.String("email", "", "account email")
	name := flag.String("name", "", "display name")
	flag.Parse()

	password := os.Getenv("ACCOUNT_PASSWORD")
	if *email == "" || *name == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Usage: ACCOUNT_PASSWORD=... create-account --email=user@example.com --name=\"Jane Doe\"")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlstore.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	svc := authsvc.NewService(logger, account.New(db), nil, nil, cfg.Auth)

	created, err := svc.CreateAccount(ctx, authsvc.RegisterInput{Email: *email, Name: *name, Password: password})
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		fmt.Printf("An account with email %q already exists.\n", *email)
		os.Exit(1)
	case err != nil:
		logger.Error("create account failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Account %q created (id %s).\n", created.Email, created.ID)
}
