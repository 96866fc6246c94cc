// Package nutricao contém os casos de uso de dietas e pré-misturas. A substituição das linhas
// de ingredientes roda numa única transação.
package nutricao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	composicao "github.com/jhoicas/confinamento-api/internal/domain/nutricao"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

// DietaUseCase CRUD de dietas.
type DietaUseCase struct {
	tx     repository.TxRunner
	dietas repository.DietaRepository
}

// NewDietaUseCase constrói o caso de uso.
func NewDietaUseCase(tx repository.TxRunner, dietas repository.DietaRepository) *DietaUseCase {
	return &DietaUseCase{tx: tx, dietas: dietas}
}

func (uc *DietaUseCase) List(ctx context.Context, t entity.Tenant) ([]dto.DietaResponse, error) {
	list, err := uc.dietas.List(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DietaResponse, 0, len(list))
	for _, d := range list {
		out = append(out, ToDietaResponse(d))
	}
	return out, nil
}

func (uc *DietaUseCase) GetByID(ctx context.Context, t entity.Tenant, id string) (*dto.DietaResponse, error) {
	d, err := uc.dietas.GetByID(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	out := ToDietaResponse(d)
	return &out, nil
}

// Create valida a composição (soma 100%) e grava a dieta com ms_media, custo_mn e custo_ms.
func (uc *DietaUseCase) Create(ctx context.Context, t entity.Tenant, in dto.DietaRequest) (*dto.DietaResponse, error) {
	ings, nome, err := prepararDieta(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	d := &entity.Dieta{
		ID:           uuid.New().String(),
		ClienteID:    t.ClienteID,
		EmpresaID:    t.EmpresaID,
		Nome:         nome,
		Fase:         strings.TrimSpace(in.Fase),
		Ativo:        ativo(in.Ativo, true),
		Ingredientes: ings,
		CriadoEm:     now,
		AtualizadoEm: now,
	}
	calcularDieta(d)

	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := checarReferencias(ctx, repos, t, ings); err != nil {
			return err
		}
		return repos.Dietas.Create(ctx, d)
	})
	if err != nil {
		return nil, nomeDuplicado(err, "uma dieta", nome)
	}
	return uc.GetByID(ctx, t, d.ID)
}

// Update substitui cabeçalho e todas as linhas de ingredientes.
func (uc *DietaUseCase) Update(ctx context.Context, t entity.Tenant, id string, in dto.DietaRequest) (*dto.DietaResponse, error) {
	ings, nome, err := prepararDieta(in)
	if err != nil {
		return nil, err
	}
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		d, err := repos.Dietas.GetByID(ctx, t, id)
		if err != nil {
			return err
		}
		if d == nil {
			return domain.ErrNotFound
		}
		if err := checarReferencias(ctx, repos, t, ings); err != nil {
			return err
		}
		d.Nome = nome
		d.Fase = strings.TrimSpace(in.Fase)
		d.Ativo = ativo(in.Ativo, d.Ativo)
		d.Ingredientes = ings
		d.AtualizadoEm = time.Now()
		calcularDieta(d)
		return repos.Dietas.Update(ctx, d)
	})
	if err != nil {
		return nil, nomeDuplicado(err, "uma dieta", nome)
	}
	return uc.GetByID(ctx, t, id)
}

// Delete exclui a dieta se nenhuma batida a referenciar.
func (uc *DietaUseCase) Delete(ctx context.Context, t entity.Tenant, id string) error {
	d, err := uc.dietas.GetByID(ctx, t, id)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.ErrNotFound
	}
	usada, err := uc.dietas.EmUsoPorBatidas(ctx, t, id)
	if err != nil {
		return err
	}
	if usada {
		return domain.NewConflictError("Dieta %s possui batidas e não pode ser excluída; desative-a", d.Nome)
	}
	return uc.dietas.Delete(ctx, t, id)
}

func prepararDieta(in dto.DietaRequest) ([]entity.IngredienteComposicao, string, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return nil, "", domain.NewValidationError("Nome da dieta é obrigatório")
	}
	ings := composicao.Normalizar(toIngredientes(in.Ingredientes))
	if err := composicao.ValidarDieta(ings); err != nil {
		return nil, "", err
	}
	return ings, nome, nil
}

func calcularDieta(d *entity.Dieta) {
	r := composicao.Calcular(d.Ingredientes)
	d.MSMedia, d.CustoMN, d.CustoMS = r.MSMedia, r.CustoMN, r.CustoMS
}

// checarReferencias garante que cada insumo ou pré-mistura citado existe no tenant.
func checarReferencias(ctx context.Context, repos repository.TxRepos, t entity.Tenant, ings []entity.IngredienteComposicao) error {
	for i, ing := range ings {
		switch ing.Tipo {
		case entity.IngredienteInsumo:
			ins, err := repos.Insumos.GetByID(ctx, t, *ing.InsumoID)
			if err != nil {
				return err
			}
			if ins == nil {
				return domain.NewValidationError("Ingrediente %d: insumo não encontrado", i+1)
			}
		case entity.IngredientePreMistura:
			pm, err := repos.PreMisturas.GetByID(ctx, t, *ing.PreMisturaID)
			if err != nil {
				return err
			}
			if pm == nil {
				return domain.NewValidationError("Ingrediente %d: pré-mistura não encontrada", i+1)
			}
		}
	}
	return nil
}

// toIngredientes converte as linhas recebidas; tipo vazio vale INSUMO e o id do outro tipo é descartado.
func toIngredientes(in []dto.IngredienteRequest) []entity.IngredienteComposicao {
	out := make([]entity.IngredienteComposicao, 0, len(in))
	for _, r := range in {
		ing := entity.IngredienteComposicao{
			Tipo:              strings.ToUpper(strings.TrimSpace(r.Tipo)),
			PercentualMistura: r.PercentualMistura,
			PercentualMS:      r.PercentualMS,
			ValorUnitarioKg:   r.ValorUnitarioKg,
		}
		if ing.Tipo == "" {
			ing.Tipo = entity.IngredienteInsumo
		}
		switch ing.Tipo {
		case entity.IngredienteInsumo:
			ing.InsumoID = r.InsumoID
		case entity.IngredientePreMistura:
			ing.PreMisturaID = r.PreMisturaID
		}
		out = append(out, ing)
	}
	return out
}

func ativo(v *bool, padrao bool) bool {
	if v == nil {
		return padrao
	}
	return *v
}

func nomeDuplicado(err error, oQue, nome string) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return &domain.DuplicateError{Msg: "Já existe " + oQue + " com o nome \"" + nome + "\""}
	}
	return err
}

func toIngredientesResponse(ings []entity.IngredienteComposicao) []dto.IngredienteResponse {
	out := make([]dto.IngredienteResponse, 0, len(ings))
	for _, ing := range ings {
		out = append(out, dto.IngredienteResponse{
			ID:                ing.ID,
			Tipo:              ing.Tipo,
			InsumoID:          ing.InsumoID,
			PreMisturaID:      ing.PreMisturaID,
			Nome:              ing.Nome,
			Ordem:             ing.Ordem,
			PercentualMistura: ing.PercentualMistura,
			PercentualMS:      ing.PercentualMS,
			ValorUnitarioKg:   ing.ValorUnitarioKg,
		})
	}
	return out
}

// ToDietaResponse converte a entidade para o DTO de saída.
func ToDietaResponse(d *entity.Dieta) dto.DietaResponse {
	return dto.DietaResponse{
		ID:           d.ID,
		Nome:         d.Nome,
		Fase:         d.Fase,
		Ativo:        d.Ativo,
		MSMedia:      d.MSMedia,
		CustoMN:      d.CustoMN,
		CustoMS:      d.CustoMS,
		Ingredientes: toIngredientesResponse(d.Ingredientes),
		CriadoEm:     d.CriadoEm,
		AtualizadoEm: d.AtualizadoEm,
	}
}
