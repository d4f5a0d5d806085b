// migrate aplica las migraciones SQL embebidas con goose.
//
// Uso: go run ./cmd/migrate -cmd up|down|status|version|redo [-version N]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Granja-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Granja-api/pkg/config"
	"github.com/jhoicas/Granja-api/pkg/logger"
)

func main() {
	cmd := flag.String("cmd", "up", "comando: up | down | status | version | redo | to")
	version := flag.String("version", "", "versión destino para -cmd to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	db, err := postgres.OpenSQL(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir BD")
	}
	defer db.Close()

	ctx := context.Background()
	switch *cmd {
	case "up", "down", "status", "version", "redo":
		err = postgres.Migrate(ctx, db, *cmd)
	case "to":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "falta -version para -cmd to")
			os.Exit(2)
		}
		err = postgres.MigrateTo(ctx, db, *version)
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido: %s\n", *cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", *cmd).Msg("migración fallida")
		os.Exit(1)
	}
	log.Info().Str("cmd", *cmd).Msg("migración completada")
}
