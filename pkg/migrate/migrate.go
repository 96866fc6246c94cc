// Package migrate aplica as migrações SQL (goose) embutidas no binário.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Dir é o diretório das migrações dentro do FS embutido.
const Dir = "migrations"

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// Run executa um comando goose (up, down, status, version, redo, reset) sobre db.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db é obrigatório")
	}
	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, Dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Files lista os nomes das migrações embutidas, em ordem.
func Files() ([]string, error) {
	entries, err := fs.ReadDir(embedded, Dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// Read devolve o conteúdo de uma migração embutida.
func Read(name string) (string, error) {
	b, err := fs.ReadFile(embedded, Dir+"/"+name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Validate confere nomes (YYYYMMDDHHMMSS_nome.sql), versões únicas e os marcadores Up/Down.
func Validate() error {
	files, err := Files()
	if err != nil {
		return err
	}
	seen := map[string]string{}
	for _, name := range files {
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("nome de migração inválido %q", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("versão %s duplicada em %q e %q", m[1], prev, name)
		}
		seen[m[1]] = name

		txt, err := Read(name)
		if err != nil {
			return err
		}
		if !strings.Contains(txt, "-- +goose Up") || !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migração %q sem marcadores goose Up/Down", name)
		}
	}
	return nil
}
