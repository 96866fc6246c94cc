// seed_insumos cadastra insumos a partir de um catálogo CSV exportado em ISO-8859-1
// (planilhas antigas de fornecedores e sistemas de balança).
//
// Formato, separador ';' com cabeçalho opcional:
//
//	nome;sigla_unidade;estoque_minimo
//	Milho moído;SC;1.500,00
//
// Uso: go run ./cmd/seed_insumos -cliente <id> -empresa <id> [-utf8] catalogo.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/usecase"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/postgres"
	"github.com/jhoicas/confinamento-api/pkg/config"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

type linhaCatalogo struct {
	Nome          string
	Sigla         string
	EstoqueMinimo decimal.Decimal
}

func main() {
	clienteID := flag.String("cliente", "", "cliente_id do tenant")
	empresaID := flag.String("empresa", "", "empresa_id do tenant")
	utf8 := flag.Bool("utf8", false, "arquivo já está em UTF-8")
	flag.Parse()

	t := entity.Tenant{ClienteID: *clienteID, EmpresaID: *empresaID}
	if !t.Valid() || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_insumos -cliente <id> -empresa <id> [-utf8] catalogo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var r io.Reader = f
	if !*utf8 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	linhas, err := lerCatalogo(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ler catálogo: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "carregar configuração: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_insumos"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão a PostgreSQL")
	}
	defer pool.Close()

	unidadesRepo := postgres.NewUnidadeMedidaRepository(pool)
	insumoUC := usecase.NewInsumoUseCase(
		postgres.NewInsumoRepository(pool), unidadesRepo, postgres.NewSaldoRepository(pool), nil,
	)

	unidades, err := unidadesRepo.List(ctx, t)
	if err != nil {
		log.Fatal().Err(err).Msg("listar unidades de medida")
	}
	porSigla := make(map[string]string, len(unidades))
	for _, u := range unidades {
		porSigla[strings.ToUpper(u.Sigla)] = u.ID
	}

	var criados, ignorados int
	for _, l := range linhas {
		in := dto.CreateInsumoRequest{Nome: l.Nome, EstoqueMinimo: &l.EstoqueMinimo}
		if l.Sigla != "" {
			id, ok := porSigla[strings.ToUpper(l.Sigla)]
			if !ok {
				log.Warn().Str("insumo", l.Nome).Str("sigla", l.Sigla).Msg("unidade não cadastrada, insumo criado sem unidade")
			} else {
				in.UnidadeMedidaID = &id
			}
		}
		if _, err := insumoUC.Create(ctx, t, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				ignorados++
				continue
			}
			log.Fatal().Err(err).Str("insumo", l.Nome).Msg("criar insumo")
		}
		criados++
	}
	log.Info().Int("criados", criados).Int("ignorados", ignorados).Msg("catálogo importado")
}

// lerCatalogo interpreta o CSV já decodificado para UTF-8.
// Linhas em branco são ignoradas; a primeira linha é tratada como cabeçalho quando começa com "nome".
func lerCatalogo(r io.Reader) ([]linhaCatalogo, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []linhaCatalogo
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("linha %d: %w", n, err)
		}
		if n == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "nome") {
			continue
		}
		nome := strings.TrimSpace(rec[0])
		if nome == "" {
			continue
		}
		l := linhaCatalogo{Nome: nome}
		if len(rec) > 1 {
			l.Sigla = strings.TrimSpace(rec[1])
		}
		if len(rec) > 2 && strings.TrimSpace(rec[2]) != "" {
			v, err := parseDecimalBR(rec[2])
			if err != nil {
				return nil, fmt.Errorf("linha %d: estoque mínimo %q: %w", n, rec[2], err)
			}
			l.EstoqueMinimo = v
		}
		out = append(out, l)
	}
	return out, nil
}

// parseDecimalBR aceita "1.500,25" e "1500.25".
func parseDecimalBR(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
