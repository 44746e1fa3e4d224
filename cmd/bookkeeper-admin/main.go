// bookkeeper-admin bootstraps an admin user directly against the database,
// for the first login before any API-side registration exists.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bookkeeper/internal/config"
	"bookkeeper/internal/core"
	"bookkeeper/internal/log"
	"bookkeeper/internal/services"
	"bookkeeper/internal/storage"
)

func main() {
	_ = godotenv.Load()

	name := flag.String("name", "", "admin user name")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *name == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: bookkeeper-admin -name <name> -password <password>")
		os.Exit(2)
	}

	cfg := config.Load()
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	users := services.NewUserService(store, nil, cfg.BcryptCost, logger)
	user, err := users.Create(context.Background(), core.User{
		Name:     *name,
		Password: *password,
		Role:     core.RoleAdmin,
	})
	if err != nil {
		logger.Error("failed to create admin user", log.FieldError, err, log.FieldUserName, *name)
		os.Exit(1)
	}

	logger.Info("admin user created", log.FieldUserName, user.Name, log.FieldRole, user.Role)
}
