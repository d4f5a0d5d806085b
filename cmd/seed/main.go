// seed crea una granja con su usuario administrador y, opcionalmente, importa sus insumos
// iniciales desde un CSV.
//
// Uso: go run ./cmd/seed -farm "Granja Boa Vista" -email admin@granja.test -password secreto [-items insumos.csv -charset latin1]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Granja-api/internal/domain/entity"
	"github.com/jhoicas/Granja-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Granja-api/pkg/config"
	"github.com/jhoicas/Granja-api/pkg/logger"
)

func main() {
	farmName := flag.String("farm", "", "nombre de la granja")
	email := flag.String("email", "", "email del administrador")
	password := flag.String("password", "", "password del administrador")
	name := flag.String("name", "Administrador", "nombre del administrador")
	role := flag.String("role", entity.RoleAdmin, "rol del usuario: admin | super_admin")
	itemsPath := flag.String("items", "", "CSV opcional de insumos iniciales")
	charset := flag.String("charset", "utf8", "codificación del CSV: utf8 | latin1 | windows-1252")
	flag.Parse()

	if strings.TrimSpace(*farmName) == "" || strings.TrimSpace(*email) == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "uso: seed -farm NOMBRE -email EMAIL -password PASSWORD [-items CSV]")
		os.Exit(2)
	}
	if *role != entity.RoleAdmin && *role != entity.RoleSuperAdmin {
		fmt.Fprintf(os.Stderr, "rol inválido: %s\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	now := time.Now()
	farm := &entity.Farm{ID: uuid.New().String(), Name: strings.TrimSpace(*farmName), CreatedAt: now, UpdatedAt: now}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		FarmID:       farm.ID,
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(*name),
		Role:         *role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var items []*entity.InventoryItem
	if *itemsPath != "" {
		f, err := os.Open(*itemsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *itemsPath).Msg("abrir CSV")
		}
		r, err := charsetReader(*charset, f)
		if err != nil {
			log.Fatal().Err(err).Msg("charset")
		}
		items, err = parseItems(r, farm.ID, now)
		_ = f.Close()
		if err != nil {
			log.Fatal().Err(err).Str("path", *itemsPath).Msg("leer insumos")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conectar a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.NewTxRunner(pool).Bootstrap(ctx, farm, admin, items); err != nil {
		log.Fatal().Err(err).Msg("bootstrap")
	}
	log.Info().
		Str("farm_id", farm.ID).
		Str("admin_email", admin.Email).
		Int("items", len(items)).
		Msg("granja creada")
}
