package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/dto"
	"fintrack/internal/logging"
	"fintrack/internal/models"
	"fintrack/internal/repositories"
	"fintrack/internal/server"
	"fintrack/internal/services"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const defaultSeedMonths = 6

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate demo data for a user",
		Long: `Generate demo transactions and budgets directly in the configured database.

The user is created when no account exists for --email.`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}
	cmd.Flags().String("email", "demo@fintrack.local", "account to seed")
	cmd.Flags().String("password", "", "password for a newly created account (random when empty)")
	cmd.Flags().Int("months", defaultSeedMonths, fmt.Sprintf("months of history to generate (1-%d)", services.MaxSeedMonths))
	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	months, _ := cmd.Flags().GetInt("months")
	if months < 1 || months > services.MaxSeedMonths {
		return services.ErrInvalidSeedMonths
	}

	cfg := config.Load()
	logger := slog.Default()

	db, err := database.Initialize(cfg, logging.WithComponent(logger, logging.ComponentDatabase))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	app := server.New(server.Dependencies{Config: cfg, DB: db.DB, Logger: logger, Version: version})

	user, created, err := findOrRegister(app, email, password)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintf(out, "created user %s\n", user.Email)
	}

	var bar *progressbar.ProgressBar
	result, err := app.Seed.Seed(cmd.Context(), user.ID, months, func(done, total int) {
		if bar == nil {
			bar = newProgressBar(cmd.ErrOrStderr(), total, "Generating demo data")
		}
		_ = bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(out, "%d transactions and %d budgets over %d months for %s\n",
		result.Transactions, result.Budgets, result.Months, user.Email)
	return nil
}

// findOrRegister returns the account for email, registering it through the
// auth service when it does not exist yet so default categories and
// settings are created.
func findOrRegister(app *server.App, email, password string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := app.Users.GetByEmail(email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	if password == "" {
		password = demoPassword()
		slog.Info("generated password for demo account", "email", email, "password", password)
	}

	user, err = app.Auth.Register(&dto.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Currency:  "USD",
	}, "127.0.0.1", "fintrack-cli")
	if err != nil {
		return nil, false, fmt.Errorf("failed to register %s: %w", email, err)
	}
	return user, true, nil
}

// demoPassword satisfies the default policy: upper, lower and digits.
func demoPassword() string {
	return gofakeit.Password(true, true, true, false, false, 16)
}
