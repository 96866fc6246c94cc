// migrate aplica as migrações goose embutidas no banco configurado.
//
// Uso: go run ./cmd/migrate [up|down|status|version|redo|reset] [args...]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/confinamento-api/internal/infrastructure/postgres"
	"github.com/jhoicas/confinamento-api/pkg/config"
	"github.com/jhoicas/confinamento-api/pkg/logger"
	"github.com/jhoicas/confinamento-api/pkg/migrate"
)

func main() {
	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "carregar configuração: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	if err := migrate.Validate(); err != nil {
		log.Fatal().Err(err).Msg("migrações embutidas inválidas")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão a PostgreSQL")
	}
	defer pool.Close()

	db := postgres.OpenSQL(pool)
	defer db.Close()

	if err := migrate.Run(ctx, db, command, args...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migração falhou")
	}
	log.Info().Str("command", command).Msg("migração concluída")
}
