package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

// UnidadeMedidaUseCase cadastro de unidades de medida.
type UnidadeMedidaUseCase struct {
	repo repository.UnidadeMedidaRepository
}

// NewUnidadeMedidaUseCase constrói o caso de uso.
func NewUnidadeMedidaUseCase(repo repository.UnidadeMedidaRepository) *UnidadeMedidaUseCase {
	return &UnidadeMedidaUseCase{repo: repo}
}

func (uc *UnidadeMedidaUseCase) List(ctx context.Context, t entity.Tenant) ([]dto.UnidadeMedidaResponse, error) {
	list, err := uc.repo.List(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnidadeMedidaResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUnidadeResponse(u))
	}
	return out, nil
}

// Create cadastra uma unidade; fator_conversao deve ser positivo.
func (uc *UnidadeMedidaUseCase) Create(ctx context.Context, t entity.Tenant, in dto.CreateUnidadeMedidaRequest) (*dto.UnidadeMedidaResponse, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return nil, domain.NewValidationError("Nome da unidade é obrigatório")
	}
	if in.FatorConversao == nil || !in.FatorConversao.IsPositive() {
		return nil, domain.NewValidationError("Fator de conversão deve ser maior que zero")
	}
	u := &entity.UnidadeMedida{
		ID:             uuid.New().String(),
		ClienteID:      t.ClienteID,
		EmpresaID:      t.EmpresaID,
		Nome:           nome,
		Sigla:          strings.TrimSpace(in.Sigla),
		FatorConversao: *in.FatorConversao,
		CriadoEm:       time.Now(),
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, nomeDuplicado(err, "uma unidade de medida", nome)
	}
	out := toUnidadeResponse(u)
	return &out, nil
}

// Delete exclui a unidade se nenhum insumo ou entrada a referenciar.
func (uc *UnidadeMedidaUseCase) Delete(ctx context.Context, t entity.Tenant, id string) error {
	u, err := uc.repo.GetByID(ctx, t, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	usado, err := uc.repo.EmUso(ctx, t, id)
	if err != nil {
		return err
	}
	if usado {
		return domain.NewConflictError("Unidade de medida %s está em uso e não pode ser excluída", u.Nome)
	}
	return uc.repo.Delete(ctx, t, id)
}

func toUnidadeResponse(u *entity.UnidadeMedida) dto.UnidadeMedidaResponse {
	return dto.UnidadeMedidaResponse{
		ID:             u.ID,
		Nome:           u.Nome,
		Sigla:          u.Sigla,
		FatorConversao: u.FatorConversao,
		CriadoEm:       u.CriadoEm,
	}
}
