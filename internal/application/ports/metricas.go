package ports

// Motivos de rejeição de uma aprovação de batida.
const (
	MotivoEstoqueInsuficiente = "estoque_insuficiente"
	MotivoSemIngredientes     = "sem_ingredientes"
	MotivoStatus              = "status_invalido"
)

// Origens de uma saída de estoque.
const (
	OrigemBatida = "batida"
	OrigemManual = "manual"
)

// Metricas é a porta de saída para contadores operacionais (Prometheus em produção).
type Metricas interface {
	BatidaAprovada()
	BatidaRejeitada(motivo string)
	SaidaLancada(origem string)
	Divergencias(n int)
}

// NopMetricas descarta tudo (testes e execução sem /metrics).
type NopMetricas struct{}

func (NopMetricas) BatidaAprovada()        {}
func (NopMetricas) BatidaRejeitada(string) {}
func (NopMetricas) SaidaLancada(string)    {}
func (NopMetricas) Divergencias(int)       {}
