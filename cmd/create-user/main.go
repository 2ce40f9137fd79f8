package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/chem-is-try/po-generator/internal/users"
	"github.com/chem-is-try/po-generator/pkg/config"
	"github.com/chem-is-try/po-generator/pkg/db"
	"github.com/chem-is-try/po-generator/pkg/db/models"
	"github.com/chem-is-try/po-generator/pkg/logger"
	"github.com/chem-is-try/po-generator/pkg/security"
)

// create-user seeds an account from the command line. There is no public
// signup endpoint, so operators provision users with this tool.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "create-user"})

	_ = godotenv.Load()

	email := flag.String("email", "", "account email (required)")
	password := flag.String("password", "", "account password (required)")
	firstName := flag.String("first-name", "", "first name, printed on signatures")
	lastName := flag.String("last-name", "", "last name, printed on signatures")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "both -email and -password are required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "create-user",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	hash, err := security.HashPassword(*password, cfg.Password)
	requireResource(ctx, logg, "password hash", err)

	repo := users.NewRepository(dbClient.DB())
	user, err := repo.Create(ctx, &models.User{
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(*firstName),
		LastName:     strings.TrimSpace(*lastName),
		IsActive:     true,
	})
	requireResource(ctx, logg, "user insert", err)

	fmt.Printf("created user %s (%s)\n", user.Email, user.ID)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
