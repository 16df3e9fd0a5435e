package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"tourops/internal/config"
	"tourops/internal/database"
	"tourops/internal/logger"
	"tourops/internal/models"
	"tourops/internal/repository"
)

// The API has no self-registration, so operator accounts are provisioned
// from the command line.
func main() {
	var email, password, firstName, surname string
	flag.StringVar(&email, "email", "", "operator email (login)")
	flag.StringVar(&password, "password", "", "initial password")
	flag.StringVar(&firstName, "first-name", "", "first name")
	flag.StringVar(&surname, "surname", "", "surname")
	flag.Parse()

	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "usage: create-user -email <email> -password <password> [-first-name <name>] [-surname <name>]")
		os.Exit(2)
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	ctx := context.Background()

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		logger.Fatal("Failed to look up user", "email", email, "error", err)
	}
	if existing != nil {
		logger.Fatal("User already exists", "email", email)
	}

	hash := sha256.Sum256([]byte(password))
	user := &models.User{
		Email:        email,
		PasswordHash: fmt.Sprintf("%x", hash),
		FirstName:    firstName,
		Surname:      surname,
		IsActive:     true,
	}
	if err := users.Create(ctx, user); err != nil {
		logger.Fatal("Failed to create user", "email", email, "error", err)
	}

	slog.Info("User created", "user_id", user.UserID, "email", email)
}
