// Package producao contém o ciclo de vida das batidas: programação, aprovação com baixa de
// estoque, cancelamento e ficha de produção.
package producao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/application/estoque"
	"github.com/jhoicas/confinamento-api/internal/application/ports"
	"github.com/jhoicas/confinamento-api/internal/domain"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	avaliacao "github.com/jhoicas/confinamento-api/internal/domain/estoque"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// tentativas de gerar um código de batida livre.
const maxTentativasCodigo = 3

// BatidaUseCase orquestra as batidas.
type BatidaUseCase struct {
	tx          repository.TxRunner
	batidas     repository.BatidaRepository
	dietas      repository.DietaRepository
	preMisturas repository.PreMisturaRepository
	insumos     repository.InsumoRepository
	saidas      repository.SaidaEstoqueRepository
	ficha       ports.FichaBatidaGenerator
	metricas    ports.Metricas
	log         *logger.Logger
}

// Deps agrupa as dependências do BatidaUseCase. Ficha, Metricas e Log são opcionais.
type Deps struct {
	Tx          repository.TxRunner
	Batidas     repository.BatidaRepository
	Dietas      repository.DietaRepository
	PreMisturas repository.PreMisturaRepository
	Insumos     repository.InsumoRepository
	Saidas      repository.SaidaEstoqueRepository
	Ficha       ports.FichaBatidaGenerator
	Metricas    ports.Metricas
	Log         *logger.Logger
}

// NewBatidaUseCase constrói o caso de uso.
func NewBatidaUseCase(d Deps) *BatidaUseCase {
	m := d.Metricas
	if m == nil {
		m = ports.NopMetricas{}
	}
	return &BatidaUseCase{
		tx:          d.Tx,
		batidas:     d.Batidas,
		dietas:      d.Dietas,
		preMisturas: d.PreMisturas,
		insumos:     d.Insumos,
		saidas:      d.Saidas,
		ficha:       d.Ficha,
		metricas:    m,
		log:         d.Log.Component("batidas"),
	}
}

// List devolve as batidas (filtradas por status quando informado) com os ingredientes planejados.
func (uc *BatidaUseCase) List(ctx context.Context, t entity.Tenant, status string) ([]dto.BatidaResponse, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !entity.StatusValido(status) {
		return nil, domain.NewValidationError("Status inválido: %s", status)
	}
	list, err := uc.batidas.List(ctx, t, status)
	if err != nil {
		return nil, err
	}
	res := novoResolvedor(uc.dietas, uc.preMisturas)
	out := make([]dto.BatidaResponse, 0, len(list))
	for _, b := range list {
		ings, err := res.resolver(ctx, t, b)
		if err != nil && !errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		out = append(out, toBatidaResponse(b, ings))
	}
	return out, nil
}

// GetByID devolve a batida com ingredientes e as saídas lançadas na aprovação.
func (uc *BatidaUseCase) GetByID(ctx context.Context, t entity.Tenant, id string) (*dto.BatidaResponse, error) {
	b, err := uc.batidas.GetByID(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	ings, err := novoResolvedor(uc.dietas, uc.preMisturas).resolver(ctx, t, b)
	if err != nil && !errors.Is(err, domain.ErrInvalidInput) {
		return nil, err
	}
	out := toBatidaResponse(b, ings)
	saidas, err := uc.saidas.ListByBatida(ctx, t, id)
	if err != nil {
		return nil, err
	}
	for _, s := range saidas {
		out.Saidas = append(out.Saidas, estoque.ToSaidaResponse(s))
	}
	return &out, nil
}

// Create programa uma batida em PREPARANDO com código BAT-AAAAMMDD-XXXXXX.
func (uc *BatidaUseCase) Create(ctx context.Context, t entity.Tenant, in dto.CreateBatidaRequest) (*dto.BatidaResponse, error) {
	if strings.TrimSpace(in.DietaID) == "" || in.Quantidade == nil || in.DataHora == nil {
		return nil, domain.NewValidationError("Campos obrigatórios: dieta_id, quantidade, data_hora")
	}
	quantidade := avaliacao.ArredondarKg(*in.Quantidade)
	if !quantidade.IsPositive() {
		return nil, domain.NewValidationError("Quantidade deve ser maior que zero")
	}
	d, err := uc.dietas.GetByID(ctx, t, in.DietaID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NewValidationError("Dieta não encontrada")
	}
	personalizados, err := uc.personalizados(ctx, t, in.IngredientesPersonalizados)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	b := &entity.Batida{
		ID:                         uuid.New().String(),
		ClienteID:                  t.ClienteID,
		EmpresaID:                  t.EmpresaID,
		VagaoID:                    in.VagaoID,
		DietaID:                    d.ID,
		Quantidade:                 quantidade,
		DataHora:                   *in.DataHora,
		Status:                     entity.BatidaPreparando,
		Observacoes:                strings.TrimSpace(in.Observacoes),
		IngredientesPersonalizados: personalizados,
		CriadoEm:                   now,
	}
	for i := 0; ; i++ {
		b.Codigo = gerarCodigo(now)
		err = uc.batidas.Create(ctx, b)
		if !errors.Is(err, domain.ErrDuplicate) || i+1 >= maxTentativasCodigo {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("batida_id", b.ID).Str("codigo", b.Codigo).Str("quantidade_kg", b.Quantidade.String()).Msg("batida programada")
	return uc.GetByID(ctx, t, b.ID)
}

func (uc *BatidaUseCase) personalizados(ctx context.Context, t entity.Tenant, in []dto.IngredientePersonalizadoDTO) ([]entity.IngredientePersonalizado, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]entity.IngredientePersonalizado, 0, len(in))
	for i, p := range in {
		if p.QuantidadeKg.IsNegative() {
			return nil, domain.NewValidationError("Ingrediente personalizado %d: quantidade não pode ser negativa", i+1)
		}
		nome := strings.TrimSpace(p.Nome)
		if p.InsumoID != nil && *p.InsumoID != "" {
			ins, err := uc.insumos.GetByID(ctx, t, *p.InsumoID)
			if err != nil {
				return nil, err
			}
			if ins == nil {
				return nil, domain.NewValidationError("Ingrediente personalizado %d: insumo não encontrado", i+1)
			}
			if nome == "" {
				nome = ins.Nome
			}
		}
		out = append(out, entity.IngredientePersonalizado{InsumoID: p.InsumoID, Nome: nome, QuantidadeKg: avaliacao.ArredondarKg(p.QuantidadeKg)})
	}
	return out, nil
}

// UpdateStatus aplica a transição pedida: CONCLUIDA aprova (baixa o estoque), CANCELADA cancela.
func (uc *BatidaUseCase) UpdateStatus(ctx context.Context, t entity.Tenant, id, userID string, in dto.UpdateBatidaRequest) (*dto.BatidaResponse, error) {
	var err error
	switch strings.ToUpper(strings.TrimSpace(in.Status)) {
	case entity.BatidaConcluida:
		err = uc.Aprovar(ctx, t, id, userID)
	case entity.BatidaCancelada:
		err = uc.Cancelar(ctx, t, id)
	default:
		return nil, domain.NewValidationError("Status inválido: %s", in.Status)
	}
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, t, id)
}

// Aprovar conclui a batida e lança as saídas de todos os insumos numa única transação.
// Sem saldo suficiente para qualquer insumo, nada é lançado e a batida continua em PREPARANDO.
func (uc *BatidaUseCase) Aprovar(ctx context.Context, t entity.Tenant, id, userID string) error {
	var (
		motivo string
		codigo string
		saidas []*entity.SaidaEstoque
	)
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		b, err := repos.Batidas.GetForUpdate(ctx, t, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		codigo = b.Codigo
		if !b.PodeTransicionar(entity.BatidaConcluida) {
			motivo = ports.MotivoStatus
			return transicaoInvalida(b, entity.BatidaConcluida)
		}

		ings, err := novoResolvedor(repos.Dietas, repos.PreMisturas).resolver(ctx, t, b)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				motivo = ports.MotivoSemIngredientes
			}
			return err
		}
		itens := make([]estoque.ItemBaixa, 0, len(ings))
		for _, ing := range ings {
			if ing.InsumoID == nil || *ing.InsumoID == "" || !ing.Quantidade.IsPositive() {
				continue
			}
			itens = append(itens, estoque.ItemBaixa{InsumoID: *ing.InsumoID, Nome: ing.Nome, Quantidade: ing.Quantidade})
		}
		if len(itens) == 0 {
			motivo = ports.MotivoSemIngredientes
			return domain.NewValidationError("Não foi possível resolver os ingredientes da batida %s", b.Codigo)
		}

		now := time.Now()
		saidas, err = estoque.LancarBaixa(ctx, repos, estoque.Baixa{
			Tenant:      t,
			Itens:       itens,
			BatidaID:    &b.ID,
			DataHora:    now,
			Observacoes: "Baixa automática da batida " + b.Codigo,
			CriadoPor:   userID,
		})
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				motivo = ports.MotivoEstoqueInsuficiente
			}
			return err
		}

		ok, err := repos.Batidas.UpdateStatus(ctx, t, id, entity.BatidaPreparando, entity.BatidaConcluida, &now)
		if err != nil {
			return err
		}
		if !ok {
			motivo = ports.MotivoStatus
			return fmt.Errorf("%w: batida %s não está mais em PREPARANDO", domain.ErrInvalidTransition, b.Codigo)
		}
		return nil
	})
	if err != nil {
		if motivo != "" {
			uc.metricas.BatidaRejeitada(motivo)
		}
		uc.log.Warn().Err(err).Str("batida_id", id).Str("codigo", codigo).Str("motivo", motivo).Msg("aprovação de batida rejeitada")
		return err
	}

	uc.metricas.BatidaAprovada()
	for _, s := range saidas {
		uc.metricas.SaidaLancada(ports.OrigemBatida)
		uc.log.Info().
			Str("batida_id", id).
			Str("insumo_id", s.InsumoID).
			Str("quantidade_kg", s.Quantidade.String()).
			Str("valor_estimado", s.ValorEstimado.String()).
			Str("saldo_apos", s.SaldoApos.String()).
			Msg("saída de estoque lançada")
	}
	uc.log.Info().Str("batida_id", id).Str("codigo", codigo).Int("saidas", len(saidas)).Msg("batida aprovada")
	return nil
}

// Cancelar move a batida para CANCELADA sem efeito no estoque.
func (uc *BatidaUseCase) Cancelar(ctx context.Context, t entity.Tenant, id string) error {
	return uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		b, err := repos.Batidas.GetForUpdate(ctx, t, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if !b.PodeTransicionar(entity.BatidaCancelada) {
			return transicaoInvalida(b, entity.BatidaCancelada)
		}
		ok, err := repos.Batidas.UpdateStatus(ctx, t, id, entity.BatidaPreparando, entity.BatidaCancelada, nil)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: batida %s não está mais em PREPARANDO", domain.ErrInvalidTransition, b.Codigo)
		}
		return nil
	})
}

// Delete exclui uma batida ainda em PREPARANDO, com a linha bloqueada contra uma aprovação
// concorrente.
func (uc *BatidaUseCase) Delete(ctx context.Context, t entity.Tenant, id string) error {
	return uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		b, err := repos.Batidas.GetForUpdate(ctx, t, id)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if !b.PodeExcluir() {
			return domain.NewConflictError("Batida %s está %s e não pode ser excluída", b.Codigo, b.Status)
		}
		ok, err := repos.Batidas.Delete(ctx, t, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewConflictError("Batida %s não está mais em PREPARANDO e não pode ser excluída", b.Codigo)
		}
		return nil
	})
}

// Ficha gera o PDF de produção da batida.
func (uc *BatidaUseCase) Ficha(ctx context.Context, t entity.Tenant, id string) ([]byte, string, error) {
	if uc.ficha == nil {
		return nil, "", errors.New("geração de ficha não configurada")
	}
	b, err := uc.GetByID(ctx, t, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.ficha.GerarFicha(ctx, b)
	if err != nil {
		return nil, "", fmt.Errorf("gerar ficha da batida %s: %w", b.Codigo, err)
	}
	return pdf, b.Codigo + ".pdf", nil
}

func transicaoInvalida(b *entity.Batida, destino string) error {
	return fmt.Errorf("%w: batida %s está %s e não pode ir para %s", domain.ErrInvalidTransition, b.Codigo, b.Status, destino)
}

func gerarCodigo(quando time.Time) string {
	sufixo := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return "BAT-" + quando.Format("20060102") + "-" + sufixo
}

func toBatidaResponse(b *entity.Batida, ings []ingrediente) dto.BatidaResponse {
	out := dto.BatidaResponse{
		ID:           b.ID,
		Codigo:       b.Codigo,
		VagaoID:      b.VagaoID,
		VagaoNome:    b.VagaoNome,
		DietaID:      b.DietaID,
		DietaNome:    b.DietaNome,
		Quantidade:   b.Quantidade,
		DataHora:     b.DataHora,
		Status:       b.Status,
		Observacoes:  b.Observacoes,
		Ingredientes: make([]dto.BatidaIngredienteDTO, 0, len(ings)),
		CriadoEm:     b.CriadoEm,
		ConcluidaEm:  b.ConcluidaEm,
	}
	for _, p := range b.IngredientesPersonalizados {
		out.IngredientesPersonalizados = append(out.IngredientesPersonalizados, dto.IngredientePersonalizadoDTO{
			InsumoID: p.InsumoID, Nome: p.Nome, QuantidadeKg: p.QuantidadeKg,
		})
	}
	for _, ing := range ings {
		out.Ingredientes = append(out.Ingredientes, dto.BatidaIngredienteDTO{
			InsumoID:          ing.InsumoID,
			Nome:              ing.Nome,
			PercentualMistura: ing.Percentual,
			QuantidadeKg:      ing.Quantidade.Round(3),
		})
	}
	return out
}
