package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go-tailor-inventory/internal/repository"
	"go-tailor-inventory/pkg/config"
	"go-tailor-inventory/pkg/database"
	"go-tailor-inventory/pkg/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "admin", "user whose password is reset")
	password := flag.String("password", "", "new password (required, at least 6 characters)")
	flag.Parse()

	if len(*password) < 6 {
		fmt.Fprintln(os.Stderr, "-password is required and must be at least 6 characters")
		flag.Usage()
		os.Exit(2)
	}

	// 1. Load Env
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	zl := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	// 2. Setup Database
	db, err := database.Connect(cfg.DB.ConnectionString(), zl)
	if err != nil {
		zl.Fatal().Err(err).Msg("connect database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3. Find user
	userRepo := repository.NewUserRepo(db)
	user, err := userRepo.FindByUsername(ctx, *username)
	if err != nil {
		zl.Fatal().Err(err).Str("username", *username).Msg("user not found")
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		zl.Fatal().Err(err).Msg("hash password")
	}

	// 5. Update and end the current session
	if err := userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		zl.Fatal().Err(err).Msg("update password")
	}
	if err := userRepo.StartSession(ctx, user.ID, uuid.NewString()); err != nil {
		zl.Fatal().Err(err).Msg("rotate session")
	}

	zl.Info().Str("username", user.Username).Msg("password reset")
}
