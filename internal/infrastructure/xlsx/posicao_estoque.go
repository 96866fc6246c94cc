// Package xlsx exporta a posição de estoque dos insumos em planilha Excel.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/ports"
)

var _ ports.PosicaoEstoqueExporter = (*PosicaoEstoqueExporter)(nil)

const sheet = "Posição de estoque"

var cabecalho = []string{
	"Insumo", "Saldo (kg)", "Estoque mínimo (kg)", "Custo médio (R$/kg)",
	"Valor imobilizado (R$)", "Status", "Ativo",
}

// PosicaoEstoqueExporter implementa ports.PosicaoEstoqueExporter com excelize.
type PosicaoEstoqueExporter struct{}

func NewPosicaoEstoqueExporter() *PosicaoEstoqueExporter {
	return &PosicaoEstoqueExporter{}
}

// ExportarPosicao gera o .xlsx com uma linha por insumo e uma linha de total imobilizado.
func (e *PosicaoEstoqueExporter) ExportarPosicao(_ context.Context, insumos []dto.InsumoResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx: renomear planilha: %w", err)
	}

	head, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"225E34"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	numero, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, h := range cabecalho {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", head); err != nil {
		return nil, err
	}

	for i, in := range insumos {
		r := i + 2
		ativo := "Não"
		if in.Ativo {
			ativo = "Sim"
		}
		valores := []any{
			in.Nome,
			in.Saldo.InexactFloat64(),
			in.EstoqueMinimo.InexactFloat64(),
			in.CustoMedio.Round(4).InexactFloat64(),
			in.ValorImobilizado.Round(2).InexactFloat64(),
			in.Status,
			ativo,
		}
		for c, v := range valores {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("B%d", r), fmt.Sprintf("E%d", r), numero); err != nil {
			return nil, err
		}
	}

	total := len(insumos) + 2
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", total), "Total")
	if len(insumos) > 0 {
		_ = f.SetCellFormula(sheet, fmt.Sprintf("E%d", total), fmt.Sprintf("SUM(E2:E%d)", total-1))
	} else {
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", total), 0)
	}
	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "G", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: gerar arquivo: %w", err)
	}
	return buf.Bytes(), nil
}
