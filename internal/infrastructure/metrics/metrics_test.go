package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confinamento-api/internal/application/ports"
)

func TestEstoque_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEstoque(reg)

	m.BatidaAprovada()
	m.BatidaAprovada()
	m.BatidaRejeitada(ports.MotivoEstoqueInsuficiente)
	m.SaidaLancada(ports.OrigemBatida)
	m.SaidaLancada(ports.OrigemBatida)
	m.SaidaLancada(ports.OrigemManual)
	m.Divergencias(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.aprovadas))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejeitadas.WithLabelValues("estoque_insuficiente")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.saidas.WithLabelValues("batida")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saidas.WithLabelValues("manual")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.divergencias))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	nomes := map[string]bool{}
	for _, mf := range mfs {
		nomes[mf.GetName()] = true
	}
	for _, n := range []string{"batidas_aprovadas_total", "batidas_rejeitadas_total", "saidas_estoque_total", "conciliacao_divergencias"} {
		assert.True(t, nomes[n], "métrica %s não registrada", n)
	}
}

func TestEstoque_SemRegisterer(t *testing.T) {
	var nilMetrics *Estoque
	assert.NotPanics(t, func() {
		nilMetrics.BatidaAprovada()
		NewEstoque(nil).BatidaRejeitada("x")
		NewEstoque(nil).Divergencias(1)
		NewJobs(nil).Observe("x", time.Second, nil)
	})
}

func TestJobs_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	j := NewJobs(reg)

	j.Observe("conciliacao", 250*time.Millisecond, nil)
	j.Observe("conciliacao", 10*time.Millisecond, errors.New("falhou"))

	assert.Equal(t, 1.0, testutil.ToFloat64(j.success.WithLabelValues("conciliacao")))
	assert.Equal(t, 1.0, testutil.ToFloat64(j.failure.WithLabelValues("conciliacao")))
	assert.Equal(t, 1, testutil.CollectAndCount(j.duration))
}
