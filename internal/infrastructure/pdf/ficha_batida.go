// Package pdf gera a ficha de produção de uma batida (PDF A4).
//
// Layout da página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Código da batida + status   │  Data/hora + QR      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DIETA / VAGÃO / QUANTIDADE                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Ingrediente | % Mistura | Quantidade (kg)          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SAÍDAS LANÇADAS (quando concluída)                         │
//	│  ASSINATURAS: Operador | Responsável                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/ports"
)

var _ ports.FichaBatidaGenerator = (*FichaBatidaGenerator)(nil)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 94, Blue: 52}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// FichaBatidaGenerator implementa ports.FichaBatidaGenerator com Maroto v2.
type FichaBatidaGenerator struct {
	empresa string
}

// NewFichaBatidaGenerator constrói o gerador; empresa aparece como autor do documento.
func NewFichaBatidaGenerator(empresa string) *FichaBatidaGenerator {
	return &FichaBatidaGenerator{empresa: empresa}
}

// GerarFicha gera o PDF e devolve seus bytes.
func (g *FichaBatidaGenerator) GerarFicha(_ context.Context, b *dto.BatidaResponse) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("pdf: batida nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ficha de produção "+b.Codigo, true).
		WithAuthor(nonEmpty(g.empresa, "confinamento-api"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(b))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(resumoRow(b))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow("Ingrediente", "% Mistura", "Quantidade (kg)"))
	m.AddRows(ingredienteRows(b.Ingredientes)...)
	m.AddRows(totalRow(b.Ingredientes))

	if len(b.Saidas) > 0 {
		m.AddRows(line.NewRow(4))
		m.AddRows(secaoRow("SAÍDAS LANÇADAS"))
		m.AddRows(tableHeaderRow("Insumo", "Valor estimado", "Saldo após (kg)"))
		m.AddRows(saidaRows(b)...)
	}

	m.AddRows(line.NewRow(20))
	m.AddRows(assinaturasRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ────────────────────────────────────────────────────────────────────

func headerRow(b *dto.BatidaResponse) core.Row {
	return row.New(28).Add(
		col.New(8).Add(
			text.New("FICHA DE PRODUÇÃO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(b.Codigo, props.Text{
				Style: fontstyle.Bold, Size: 14, Top: 6,
			}),
			text.New("Status: "+b.Status, props.Text{
				Size: 9, Top: 15, Color: colorGray,
			}),
			text.New("Programada para "+b.DataHora.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Top: 21, Color: colorGray,
			}),
		),
		col.New(4).Add(code.NewQr(b.Codigo, props.Rect{Percent: 90, Center: true})),
	)
}

func resumoRow(b *dto.BatidaResponse) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("Dieta: "+nonEmpty(b.DietaNome, b.DietaID), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 1,
			}),
			text.New(fmt.Sprintf("Vagão: %s   |   Quantidade: %s kg",
				nonEmpty(b.VagaoNome, "—"),
				formatKg(b.Quantidade),
			), props.Text{Size: 9, Top: 7, Color: colorGray}),
		),
	)
}

func secaoRow(titulo string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(titulo, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

// tableHeaderRow: cabeçalho de 3 colunas (6/3/3).
func tableHeaderRow(c1, c2, c3 string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h(c1, 6, align.Left),
		h(c2, 3, align.Right),
		h(c3, 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func linha(c1, c2, c3 string) core.Row {
	return row.New(7).Add(
		col.New(6).Add(text.New(c1, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(3).Add(text.New(c2, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(c3, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func ingredienteRows(ings []dto.BatidaIngredienteDTO) []core.Row {
	out := make([]core.Row, 0, len(ings))
	for _, ing := range ings {
		out = append(out, linha(
			nonEmpty(ing.Nome, "—"),
			ing.PercentualMistura.StringFixed(2)+"%",
			formatKg(ing.QuantidadeKg),
		))
	}
	return out
}

func totalRow(ings []dto.BatidaIngredienteDTO) core.Row {
	total := decimal.Zero
	for _, ing := range ings {
		total = total.Add(ing.QuantidadeKg)
	}
	return row.New(8).Add(
		col.New(9).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 2, Color: colorPrimary,
		})),
		col.New(3).Add(text.New(formatKg(total), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1, Color: colorPrimary,
		})),
	)
}

func saidaRows(b *dto.BatidaResponse) []core.Row {
	nomes := map[string]string{}
	for _, ing := range b.Ingredientes {
		if ing.InsumoID != nil {
			nomes[*ing.InsumoID] = ing.Nome
		}
	}
	out := make([]core.Row, 0, len(b.Saidas))
	for _, s := range b.Saidas {
		out = append(out, linha(
			fmt.Sprintf("%s (%s kg)", nonEmpty(nomes[s.InsumoID], s.InsumoID), formatKg(s.Quantidade)),
			"R$ "+formatMoney(s.ValorEstimado),
			formatKg(s.SaldoApos),
		))
	}
	return out
}

func assinaturasRow() core.Row {
	assinatura := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Size: 9, Align: align.Center}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 5, Color: colorGray}),
		)
	}
	return row.New(14).Add(assinatura("Operador do vagão"), assinatura("Responsável técnico"))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatKg formata com 2 casas e separador decimal vírgula. Ex: 1234.5 → "1.234,50".
func formatKg(v decimal.Decimal) string {
	return formatDecimal(v.StringFixed(2))
}

func formatMoney(v decimal.Decimal) string {
	return formatDecimal(v.StringFixed(2))
}

// formatDecimal insere pontos de milhar e troca o separador decimal.
func formatDecimal(s string) string {
	sinal := ""
	if strings.HasPrefix(s, "-") {
		sinal, s = "-", s[1:]
	}
	inteiro, frac, _ := strings.Cut(s, ".")
	n := len(inteiro)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(inteiro) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac == "" {
		return sinal + string(buf)
	}
	return sinal + string(buf) + "," + frac
}
