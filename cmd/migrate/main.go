package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/traslados-api/internal/infrastructure/postgres"
	"github.com/jhoicas/traslados-api/pkg/config"
	"github.com/jhoicas/traslados-api/pkg/logger"
	"github.com/jhoicas/traslados-api/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "comando: up|down|status|version|redo|up-to|down-to|validate")
	target := flag.String("version", "", "versión destino (YYYYMMDDHHMMSS) para up-to y down-to")
	flag.Parse()

	if *cmd == "validate" {
		if err := migrate.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "migraciones inválidas: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migraciones válidas")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	var args []string
	switch *cmd {
	case "up-to", "down-to":
		if *target == "" {
			log.Fatal().Str("cmd", *cmd).Msg("falta -version")
		}
		args = append(args, *target)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, "traslados-migrate")
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := migrate.Run(ctx, db, *cmd, args...); err != nil {
		log.Error().Err(err).Str("cmd", *cmd).Msg("migración fallida")
		os.Exit(1)
	}
	log.Info().Str("cmd", *cmd).Msg("migración terminada")
}
