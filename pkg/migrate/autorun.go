package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/confinamento-api/pkg/config"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// MaybeRunDev aplica as migrações pendentes no boot quando em desenvolvimento com MIGRATE_AUTORUN=true.
func MaybeRunDev(ctx context.Context, cfg *config.Config, log *logger.Logger, db *sql.DB) error {
	if !cfg.App.IsDev() || !cfg.Migrate.AutoRun {
		return nil
	}
	log.Info().Str("env", cfg.App.Env).Msg("aplicando migrações (auto-run em desenvolvimento)")
	if err := Run(ctx, db, "up"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	log.Info().Msg("migrações aplicadas")
	return nil
}
