// Package scheduler agenda os jobs periódicos da API (conciliação de saldos).
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/confinamento-api/internal/application/dto"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/metrics"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

const (
	jobConciliacao     = "conciliacao_saldos"
	timeoutConciliacao = 10 * time.Minute
)

// Conciliador é o caso de uso executado pelo job de conciliação.
type Conciliador interface {
	Executar(ctx context.Context, corrigir bool) (*dto.ConciliacaoResponse, error)
}

// Scheduler gerencia os jobs agendados.
type Scheduler struct {
	cron        *cron.Cron
	conciliador Conciliador
	corrigir    bool
	jobs        *metrics.Jobs
	log         *logger.Logger
}

// New cria o scheduler. jobs e log podem ser nil.
func New(conciliador Conciliador, corrigir bool, jobs *metrics.Jobs, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		conciliador: conciliador,
		corrigir:    corrigir,
		jobs:        jobs,
		log:         log.Component("scheduler"),
	}
}

// AgendarConciliacao registra a conciliação na expressão cron de 5 campos informada.
func (s *Scheduler) AgendarConciliacao(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.conciliar); err != nil {
		return fmt.Errorf("agendar conciliação %q: %w", schedule, err)
	}
	s.log.Info().Str("schedule", schedule).Bool("corrigir", s.corrigir).Msg("conciliação agendada")
	return nil
}

// Start inicia o cron em background.
func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("iniciando scheduler")
	s.cron.Start()
}

// Stop para o cron e espera os jobs em execução terminarem (ou ctx expirar).
func (s *Scheduler) Stop(ctx context.Context) {
	s.log.Info().Msg("parando scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler parado sem aguardar jobs em execução")
	}
}

func (s *Scheduler) conciliar() {
	ctx, cancel := context.WithTimeout(context.Background(), timeoutConciliacao)
	defer cancel()

	inicio := time.Now()
	out, err := s.conciliador.Executar(ctx, s.corrigir)
	s.jobs.Observe(jobConciliacao, time.Since(inicio), err)
	if err != nil {
		s.log.Error().Err(err).Str("job", jobConciliacao).Msg("conciliação falhou")
		return
	}
	s.log.Info().
		Str("job", jobConciliacao).
		Int("insumos", out.InsumosVerificados).
		Int("divergencias", len(out.Divergencias)).
		Dur("duracao", time.Since(inicio)).
		Msg("conciliação concluída")
}
