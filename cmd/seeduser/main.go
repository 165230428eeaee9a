// Command seeduser creates an initial user for a kiosk.
//
//	seeduser -kiosk <uuid> -username admin -password secret -name "Admin" -role admin
package main

import (
	"context"
	"flag"
	"os"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/config"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/infra"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	kiosk := flag.String("kiosk", "", "kiosk UUID")
	username := flag.String("username", "", "login username")
	password := flag.String("password", "", "plain-text password")
	name := flag.String("name", "", "display name")
	role := flag.String("role", model.RoleCashier, "cashier | supervisor | admin")
	flag.Parse()

	if *kiosk == "" || *username == "" || *password == "" || *name == "" {
		flag.Usage()
		os.Exit(1)
	}

	kioskID, err := uuid.Parse(*kiosk)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid kiosk UUID")
	}
	switch *role {
	case model.RoleCashier, model.RoleSupervisor, model.RoleAdmin:
	default:
		log.Fatal().Str("role", *role).Msg("unknown role")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("could not run migrations")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("could not hash password")
	}

	user := &model.User{
		ID:           uuid.New(),
		KioskID:      kioskID,
		Username:     *username,
		Name:         *name,
		PasswordHash: string(hash),
		Role:         *role,
		IsActive:     true,
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), user); err != nil {
		log.Fatal().Err(err).Msg("could not create user")
	}
	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user created")
}
