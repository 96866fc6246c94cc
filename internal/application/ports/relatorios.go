package ports

import (
	"context"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
)

// FichaBatidaGenerator gera a ficha de produção (PDF) de uma batida.
type FichaBatidaGenerator interface {
	GerarFicha(ctx context.Context, batida *dto.BatidaResponse) ([]byte, error)
}

// PosicaoEstoqueExporter exporta a posição de estoque dos insumos (planilha).
type PosicaoEstoqueExporter interface {
	ExportarPosicao(ctx context.Context, insumos []dto.InsumoResponse) ([]byte, error)
}
