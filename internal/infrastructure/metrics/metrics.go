// Package metrics expõe contadores Prometheus das operações de estoque e dos jobs agendados.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/confinamento-api/internal/application/ports"
)

var _ ports.Metricas = (*Estoque)(nil)

// Estoque implementa ports.Metricas. Um *Estoque nil (ou sem registerer) descarta tudo.
type Estoque struct {
	aprovadas    prometheus.Counter
	rejeitadas   *prometheus.CounterVec
	saidas       *prometheus.CounterVec
	divergencias prometheus.Gauge
}

// NewEstoque registra as métricas no registerer informado.
func NewEstoque(reg prometheus.Registerer) *Estoque {
	if reg == nil {
		return &Estoque{}
	}
	aprovadas := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batidas_aprovadas_total",
		Help: "Batidas aprovadas com baixa de estoque.",
	})
	rejeitadas := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batidas_rejeitadas_total",
		Help: "Aprovações de batida rejeitadas, por motivo.",
	}, []string{"motivo"})
	saidas := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saidas_estoque_total",
		Help: "Saídas de estoque lançadas, por origem.",
	}, []string{"origem"})
	divergencias := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "conciliacao_divergencias",
		Help: "Saldos divergentes do razão na última conciliação.",
	})
	reg.MustRegister(aprovadas, rejeitadas, saidas, divergencias)
	return &Estoque{aprovadas: aprovadas, rejeitadas: rejeitadas, saidas: saidas, divergencias: divergencias}
}

func (e *Estoque) BatidaAprovada() {
	if e == nil || e.aprovadas == nil {
		return
	}
	e.aprovadas.Inc()
}

func (e *Estoque) BatidaRejeitada(motivo string) {
	if e == nil || e.rejeitadas == nil {
		return
	}
	e.rejeitadas.WithLabelValues(normalizeLabel(motivo)).Inc()
}

func (e *Estoque) SaidaLancada(origem string) {
	if e == nil || e.saidas == nil {
		return
	}
	e.saidas.WithLabelValues(normalizeLabel(origem)).Inc()
}

func (e *Estoque) Divergencias(n int) {
	if e == nil || e.divergencias == nil {
		return
	}
	e.divergencias.Set(float64(n))
}

// Jobs registra duração e resultado dos jobs do scheduler.
type Jobs struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewJobs registra as métricas de jobs no registerer informado.
func NewJobs(reg prometheus.Registerer) *Jobs {
	if reg == nil {
		return &Jobs{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duração dos jobs agendados em segundos.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_success",
		Help: "Execuções bem-sucedidas de jobs agendados.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_failure",
		Help: "Execuções com falha de jobs agendados.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure)
	return &Jobs{duration: duration, success: success, failure: failure}
}

// Observe registra a duração e o resultado de uma execução.
func (j *Jobs) Observe(job string, d time.Duration, err error) {
	if j == nil || j.duration == nil {
		return
	}
	job = normalizeLabel(job)
	j.duration.WithLabelValues(job).Observe(d.Seconds())
	if err != nil {
		j.failure.WithLabelValues(job).Inc()
		return
	}
	j.success.WithLabelValues(job).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
