package nutricao

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	composicao "github.com/jhoicas/confinamento-api/internal/domain/nutricao"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

// PreMisturaUseCase CRUD de pré-misturas (2 a 4 insumos).
type PreMisturaUseCase struct {
	tx          repository.TxRunner
	preMisturas repository.PreMisturaRepository
}

// NewPreMisturaUseCase constrói o caso de uso.
func NewPreMisturaUseCase(tx repository.TxRunner, preMisturas repository.PreMisturaRepository) *PreMisturaUseCase {
	return &PreMisturaUseCase{tx: tx, preMisturas: preMisturas}
}

func (uc *PreMisturaUseCase) List(ctx context.Context, t entity.Tenant) ([]dto.PreMisturaResponse, error) {
	list, err := uc.preMisturas.List(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PreMisturaResponse, 0, len(list))
	for _, p := range list {
		out = append(out, ToPreMisturaResponse(p))
	}
	return out, nil
}

func (uc *PreMisturaUseCase) GetByID(ctx context.Context, t entity.Tenant, id string) (*dto.PreMisturaResponse, error) {
	p, err := uc.preMisturas.GetByID(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := ToPreMisturaResponse(p)
	return &out, nil
}

func (uc *PreMisturaUseCase) Create(ctx context.Context, t entity.Tenant, in dto.PreMisturaRequest) (*dto.PreMisturaResponse, error) {
	ings, nome, err := prepararPreMistura(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.PreMistura{
		ID:           uuid.New().String(),
		ClienteID:    t.ClienteID,
		EmpresaID:    t.EmpresaID,
		Nome:         nome,
		Ativo:        ativo(in.Ativo, true),
		Ingredientes: ings,
		CriadoEm:     now,
		AtualizadoEm: now,
	}
	calcularPreMistura(p)

	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := checarReferencias(ctx, repos, t, ings); err != nil {
			return err
		}
		return repos.PreMisturas.Create(ctx, p)
	})
	if err != nil {
		return nil, nomeDuplicado(err, "uma pré-mistura", nome)
	}
	return uc.GetByID(ctx, t, p.ID)
}

// Update substitui cabeçalho e linhas. Dietas que usam a pré-mistura passam a expandir a nova composição.
func (uc *PreMisturaUseCase) Update(ctx context.Context, t entity.Tenant, id string, in dto.PreMisturaRequest) (*dto.PreMisturaResponse, error) {
	ings, nome, err := prepararPreMistura(in)
	if err != nil {
		return nil, err
	}
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		p, err := repos.PreMisturas.GetByID(ctx, t, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := checarReferencias(ctx, repos, t, ings); err != nil {
			return err
		}
		p.Nome = nome
		p.Ativo = ativo(in.Ativo, p.Ativo)
		p.Ingredientes = ings
		p.AtualizadoEm = time.Now()
		calcularPreMistura(p)
		return repos.PreMisturas.Update(ctx, p)
	})
	if err != nil {
		return nil, nomeDuplicado(err, "uma pré-mistura", nome)
	}
	return uc.GetByID(ctx, t, id)
}

// Delete exclui a pré-mistura se nenhuma dieta a usar.
func (uc *PreMisturaUseCase) Delete(ctx context.Context, t entity.Tenant, id string) error {
	p, err := uc.preMisturas.GetByID(ctx, t, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	usada, err := uc.preMisturas.EmUsoPorDietas(ctx, t, id)
	if err != nil {
		return err
	}
	if usada {
		return domain.NewConflictError("Pré-mistura %s está em uso em dietas e não pode ser excluída", p.Nome)
	}
	return uc.preMisturas.Delete(ctx, t, id)
}

func prepararPreMistura(in dto.PreMisturaRequest) ([]entity.IngredienteComposicao, string, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return nil, "", domain.NewValidationError("Nome da pré-mistura é obrigatório")
	}
	ings := composicao.Normalizar(toIngredientes(in.Ingredientes))
	if err := composicao.ValidarPreMistura(ings); err != nil {
		return nil, "", err
	}
	return ings, nome, nil
}

func calcularPreMistura(p *entity.PreMistura) {
	r := composicao.Calcular(p.Ingredientes)
	p.MSMedia, p.CustoMN, p.CustoMS = r.MSMedia, r.CustoMN, r.CustoMS
}

// ToPreMisturaResponse converte a entidade para o DTO de saída.
func ToPreMisturaResponse(p *entity.PreMistura) dto.PreMisturaResponse {
	return dto.PreMisturaResponse{
		ID:           p.ID,
		Nome:         p.Nome,
		Ativo:        p.Ativo,
		MSMedia:      p.MSMedia,
		CustoMN:      p.CustoMN,
		CustoMS:      p.CustoMS,
		Ingredientes: toIngredientesResponse(p.Ingredientes),
		CriadoEm:     p.CriadoEm,
		AtualizadoEm: p.AtualizadoEm,
	}
}
