// Command grantclaim attaches a claim to a registered user, e.g. the
// ExcluirFornecedor claim required to delete fornecedores.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"fornecedores/internal/config"
	"fornecedores/internal/database"
	"fornecedores/internal/repositories"
	"fornecedores/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env file: %v", err)
	}
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("grantclaim: %v", err)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("grantclaim", pflag.ContinueOnError)
	flags.String("email", "", "email of the registered user")
	flags.String("type", "ExcluirFornecedor", "claim type to grant")
	flags.String("value", "1", "claim value")
	flags.String("database-driver", "", "overrides DATABASE_DRIVER")
	flags.String("database-dsn", "", "overrides DATABASE_DSN")
	if err := flags.Parse(args); err != nil {
		return err
	}

	email, _ := flags.GetString("email")
	claimType, _ := flags.GetString("type")
	value, _ := flags.GetString("value")
	if email == "" {
		return errors.New("--email is required")
	}

	// Database flags override the environment only when given.
	v := viper.New()
	config.SetDefaults(v)
	v.AutomaticEnv()
	if err := v.BindPFlag("DATABASE_DRIVER", flags.Lookup("database-driver")); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := v.BindPFlag("DATABASE_DSN", flags.Lookup("database-dsn")); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	identity := services.NewIdentityService(repositories.NewGORMUserRepository(db), services.IdentityOptionsFromConfig(cfg))
	if err := identity.AddClaim(ctx, email, claimType, value); err != nil {
		return err
	}

	log.Printf("Granted claim %s=%s to %s", claimType, value, email)
	return nil
}
