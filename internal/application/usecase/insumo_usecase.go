package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/ports"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/internal/domain/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
)

// InsumoUseCase CRUD de insumos; as leituras trazem saldo, custo médio e status.
type InsumoUseCase struct {
	insumos  repository.InsumoRepository
	unidades repository.UnidadeMedidaRepository
	saldos   repository.SaldoRepository
	exporter ports.PosicaoEstoqueExporter
}

// NewInsumoUseCase constrói o caso de uso. exporter pode ser nil (exportação desabilitada).
func NewInsumoUseCase(
	insumos repository.InsumoRepository,
	unidades repository.UnidadeMedidaRepository,
	saldos repository.SaldoRepository,
	exporter ports.PosicaoEstoqueExporter,
) *InsumoUseCase {
	return &InsumoUseCase{insumos: insumos, unidades: unidades, saldos: saldos, exporter: exporter}
}

// List devolve os insumos do tenant com os campos derivados do saldo.
func (uc *InsumoUseCase) List(ctx context.Context, t entity.Tenant, somenteAtivos bool) ([]dto.InsumoResponse, error) {
	list, err := uc.insumos.List(ctx, t, somenteAtivos)
	if err != nil {
		return nil, err
	}
	saldos, err := uc.saldos.ListByTenant(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InsumoResponse, 0, len(list))
	for _, i := range list {
		out = append(out, toInsumoResponse(i, estoque.PosicaoDoSaldo(saldos[i.ID])))
	}
	return out, nil
}

// GetByID devolve um insumo com seus campos derivados.
func (uc *InsumoUseCase) GetByID(ctx context.Context, t entity.Tenant, id string) (*dto.InsumoResponse, error) {
	i, err := uc.insumos.GetByID(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, domain.ErrNotFound
	}
	saldo, err := uc.saldos.Get(ctx, t, id)
	if err != nil {
		return nil, err
	}
	out := toInsumoResponse(i, estoque.PosicaoDoSaldo(saldo))
	return &out, nil
}

// Create cadastra um insumo ativo (salvo indicação contrária).
func (uc *InsumoUseCase) Create(ctx context.Context, t entity.Tenant, in dto.CreateInsumoRequest) (*dto.InsumoResponse, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return nil, domain.NewValidationError("Nome do insumo é obrigatório")
	}
	minimo := decimal.Zero
	if in.EstoqueMinimo != nil {
		minimo = *in.EstoqueMinimo
	}
	if minimo.IsNegative() {
		return nil, domain.NewValidationError("Estoque mínimo não pode ser negativo")
	}
	if err := uc.checarUnidade(ctx, t, in.UnidadeMedidaID); err != nil {
		return nil, err
	}
	ativo := true
	if in.Ativo != nil {
		ativo = *in.Ativo
	}
	now := time.Now()
	i := &entity.Insumo{
		ID:              uuid.New().String(),
		ClienteID:       t.ClienteID,
		EmpresaID:       t.EmpresaID,
		Nome:            nome,
		UnidadeMedidaID: in.UnidadeMedidaID,
		EstoqueMinimo:   minimo,
		Ativo:           ativo,
		CriadoEm:        now,
		AtualizadoEm:    now,
	}
	if err := uc.insumos.Create(ctx, i); err != nil {
		return nil, nomeDuplicado(err, "um insumo", nome)
	}
	out := toInsumoResponse(i, estoque.Posicao{})
	return &out, nil
}

// Update altera os campos informados.
func (uc *InsumoUseCase) Update(ctx context.Context, t entity.Tenant, id string, in dto.UpdateInsumoRequest) (*dto.InsumoResponse, error) {
	i, err := uc.insumos.GetByID(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nome != nil {
		nome := strings.TrimSpace(*in.Nome)
		if nome == "" {
			return nil, domain.NewValidationError("Nome do insumo é obrigatório")
		}
		i.Nome = nome
	}
	if in.UnidadeMedidaID != nil {
		if err := uc.checarUnidade(ctx, t, in.UnidadeMedidaID); err != nil {
			return nil, err
		}
		i.UnidadeMedidaID = in.UnidadeMedidaID
	}
	if in.EstoqueMinimo != nil {
		if in.EstoqueMinimo.IsNegative() {
			return nil, domain.NewValidationError("Estoque mínimo não pode ser negativo")
		}
		i.EstoqueMinimo = *in.EstoqueMinimo
	}
	if in.Ativo != nil {
		i.Ativo = *in.Ativo
	}
	i.AtualizadoEm = time.Now()
	if err := uc.insumos.Update(ctx, i); err != nil {
		return nil, nomeDuplicado(err, "um insumo", i.Nome)
	}
	return uc.GetByID(ctx, t, id)
}

// Delete exclui um insumo sem lançamentos e fora de composições.
// Com lançamentos, o caminho é desativar (ativo=false).
func (uc *InsumoUseCase) Delete(ctx context.Context, t entity.Tenant, id string) error {
	i, err := uc.insumos.GetByID(ctx, t, id)
	if err != nil {
		return err
	}
	if i == nil {
		return domain.ErrNotFound
	}
	tem, err := uc.insumos.TemLancamentos(ctx, t, id)
	if err != nil {
		return err
	}
	if tem {
		return domain.NewConflictError("Insumo %s possui lançamentos de estoque e não pode ser excluído; desative-o", i.Nome)
	}
	usado, err := uc.insumos.EmComposicao(ctx, t, id)
	if err != nil {
		return err
	}
	if usado {
		return domain.NewConflictError("Insumo %s está em uso em dietas ou pré-misturas", i.Nome)
	}
	return uc.insumos.Delete(ctx, t, id)
}

// Exportar gera a planilha de posição de estoque de todos os insumos.
func (uc *InsumoUseCase) Exportar(ctx context.Context, t entity.Tenant) ([]byte, error) {
	if uc.exporter == nil {
		return nil, errors.New("exportação de planilha não configurada")
	}
	list, err := uc.List(ctx, t, false)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportarPosicao(ctx, list)
}

func (uc *InsumoUseCase) checarUnidade(ctx context.Context, t entity.Tenant, id *string) error {
	if id == nil {
		return nil
	}
	u, err := uc.unidades.GetByID(ctx, t, *id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NewValidationError("Unidade de medida não encontrada")
	}
	return nil
}

// nomeDuplicado troca ErrDuplicate por uma mensagem amigável.
func nomeDuplicado(err error, oQue, nome string) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return &domain.DuplicateError{Msg: "Já existe " + oQue + " com o nome \"" + nome + "\""}
	}
	return err
}

func toInsumoResponse(i *entity.Insumo, p estoque.Posicao) dto.InsumoResponse {
	return dto.InsumoResponse{
		ID:               i.ID,
		Nome:             i.Nome,
		UnidadeMedidaID:  i.UnidadeMedidaID,
		EstoqueMinimo:    i.EstoqueMinimo,
		Ativo:            i.Ativo,
		Saldo:            p.Saldo(),
		CustoMedio:       p.CustoMedio().Round(4),
		ValorImobilizado: p.ValorImobilizado().Round(2),
		Status:           p.Status(i.EstoqueMinimo),
		CriadoEm:         i.CriadoEm,
		AtualizadoEm:     i.AtualizadoEm,
	}
}
