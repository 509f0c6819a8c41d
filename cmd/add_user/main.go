// Package main creates a login for the workout service.
// The password is read from GYMFLOW_NEW_USER_PASS so it never ends up in shell history.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/2beens/gymflow/internal/auth"
	"github.com/2beens/gymflow/internal/config"
	"github.com/2beens/gymflow/internal/db"
	"github.com/2beens/gymflow/pkg"

	log "github.com/sirupsen/logrus"
)

const minPasswordLen = 8

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	username := flag.String("username", "", "login name")
	displayName := flag.String("display-name", "", "name shown in the app, defaults to the username")
	admin := flag.Bool("admin", false, "grant the admin role")
	flag.Parse()

	user, err := newUser(*username, *displayName, os.Getenv("GYMFLOW_NEW_USER_PASS"), *admin)
	if err != nil {
		log.Fatalf("new user: %s", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("GYMFLOW_POSTGRES_PASS"),
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	if err := auth.NewUsersRepo(dbPool).AddUser(ctx, user); err != nil {
		log.Fatalf("add user %s: %s", user.Username, err)
	}
	log.Printf("user [%s] added, roles: %v", user.Username, user.Roles)
}

func newUser(username, displayName, password string, admin bool) (auth.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return auth.User{}, errors.New("username empty")
	}
	if len(password) < minPasswordLen {
		return auth.User{}, errors.New("password too short, set GYMFLOW_NEW_USER_PASS")
	}

	hash, err := pkg.HashPassword(password)
	if err != nil {
		return auth.User{}, err
	}

	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}
	roles := []string{auth.RoleUser}
	if admin {
		roles = append(roles, auth.RoleAdmin)
	}

	return auth.User{
		Username:     username,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		Roles:        roles,
	}, nil
}
