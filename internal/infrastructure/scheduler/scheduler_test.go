package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/metrics"
)

type conciliadorFake struct {
	chamadas int
	corrigir bool
	err      error
}

func (c *conciliadorFake) Executar(_ context.Context, corrigir bool) (*dto.ConciliacaoResponse, error) {
	c.chamadas++
	c.corrigir = corrigir
	if c.err != nil {
		return nil, c.err
	}
	return &dto.ConciliacaoResponse{InsumosVerificados: 2, ExecutadaEm: time.Now()}, nil
}

func TestAgendarConciliacao_ExpressaoInvalida(t *testing.T) {
	s := New(&conciliadorFake{}, false, nil, nil)
	assert.Error(t, s.AgendarConciliacao("não é cron"))
	require.NoError(t, s.AgendarConciliacao("0 3 * * *"))
	assert.Len(t, s.cron.Entries(), 1)
}

func TestConciliar_ExecutaERegistraMetricas(t *testing.T) {
	fake := &conciliadorFake{}
	jobs := metrics.NewJobs(prometheus.NewRegistry())
	s := New(fake, true, jobs, nil)

	s.conciliar()
	assert.Equal(t, 1, fake.chamadas)
	assert.True(t, fake.corrigir)

	fake.err = errors.New("banco fora")
	assert.NotPanics(t, s.conciliar)
	assert.Equal(t, 2, fake.chamadas)
}

func TestStartStop(t *testing.T) {
	s := New(&conciliadorFake{}, false, nil, nil)
	require.NoError(t, s.AgendarConciliacao("@every 1h"))
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
