package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/confinamento-api/internal/application/auth"
	"github.com/jhoicas/confinamento-api/internal/application/estoque"
	"github.com/jhoicas/confinamento-api/internal/application/nutricao"
	"github.com/jhoicas/confinamento-api/internal/application/producao"
	"github.com/jhoicas/confinamento-api/internal/application/usecase"
	"github.com/jhoicas/confinamento-api/internal/domain/repository"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/memstore"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/confinamento-api/internal/infrastructure/pdf"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/postgres"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/confinamento-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/confinamento-api/internal/interfaces/http"
	"github.com/jhoicas/confinamento-api/pkg/config"
	"github.com/jhoicas/confinamento-api/pkg/logger"
	"github.com/jhoicas/confinamento-api/pkg/migrate"
)

// repos agrupa as portas de persistência, qualquer que seja o backend.
type repos struct {
	tx          repository.TxRunner
	usuarios    repository.UsuarioRepository
	unidades    repository.UnidadeMedidaRepository
	insumos     repository.InsumoRepository
	saldos      repository.SaldoRepository
	razao       repository.RazaoRepository
	entradas    repository.EntradaEstoqueRepository
	saidas      repository.SaidaEstoqueRepository
	dietas      repository.DietaRepository
	preMisturas repository.PreMisturaRepository
	batidas     repository.BatidaRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicação")

	ctx := context.Background()

	var r repos
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		log.Warn().Msg("armazenamento em memória: os dados se perdem ao reiniciar")
		store := memstore.New()
		r = repos{
			tx:          store,
			usuarios:    store.Usuarios(),
			unidades:    store.Unidades(),
			insumos:     store.Insumos(),
			saldos:      store.Saldos(),
			razao:       store.Razao(),
			entradas:    store.Entradas(),
			saidas:      store.Saidas(),
			dietas:      store.Dietas(),
			preMisturas: store.PreMisturas(),
			batidas:     store.Batidas(),
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexão a PostgreSQL")
		}
		defer pool.Close()

		db := postgres.OpenSQL(pool)
		defer db.Close()
		if err := migrate.MaybeRunDev(ctx, cfg, log, db); err != nil {
			log.Fatal().Err(err).Msg("migrações")
		}

		r = repos{
			tx:          postgres.NewTxRunner(pool),
			usuarios:    postgres.NewUsuarioRepository(pool),
			unidades:    postgres.NewUnidadeMedidaRepository(pool),
			insumos:     postgres.NewInsumoRepository(pool),
			saldos:      postgres.NewSaldoRepository(pool),
			razao:       postgres.NewRazaoRepository(pool),
			entradas:    postgres.NewEntradaEstoqueRepository(pool),
			saidas:      postgres.NewSaidaEstoqueRepository(pool),
			dietas:      postgres.NewDietaRepository(pool),
			preMisturas: postgres.NewPreMisturaRepository(pool),
			batidas:     postgres.NewBatidaRepository(pool),
		}
	}

	// Prometheus: registry próprio (sem o default global)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	estoqueMetrics := metrics.NewEstoque(reg)
	jobMetrics := metrics.NewJobs(reg)

	authUC := auth.NewAuthUseCase(r.usuarios, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	insumoUC := usecase.NewInsumoUseCase(r.insumos, r.unidades, r.saldos, xlsx.NewPosicaoEstoqueExporter())
	unidadeUC := usecase.NewUnidadeMedidaUseCase(r.unidades)
	lancamentoUC := estoque.NewLancamentoUseCase(r.tx, r.insumos, r.unidades, r.entradas, r.saidas, estoqueMetrics, log)
	conciliacaoUC := estoque.NewConciliacaoUseCase(r.tx, r.saldos, r.razao, estoqueMetrics, log)
	reposicaoUC := estoque.NewReposicaoUseCase(r.insumos, r.saldos, r.saidas)
	dietaUC := nutricao.NewDietaUseCase(r.tx, r.dietas)
	preMisturaUC := nutricao.NewPreMisturaUseCase(r.tx, r.preMisturas)
	batidaUC := producao.NewBatidaUseCase(producao.Deps{
		Tx:          r.tx,
		Batidas:     r.batidas,
		Dietas:      r.dietas,
		PreMisturas: r.preMisturas,
		Insumos:     r.insumos,
		Saidas:      r.saidas,
		Ficha:       infrapdf.NewFichaBatidaGenerator(cfg.App.Name),
		Metricas:    estoqueMetrics,
		Log:         log,
	})

	// Conciliação agendada dos saldos materializados
	var sched *scheduler.Scheduler
	if cfg.Reconcile.Enabled {
		sched = scheduler.New(conciliacaoUC, cfg.Reconcile.Fix, jobMetrics, log)
		if err := sched.AgendarConciliacao(cfg.Reconcile.Schedule); err != nil {
			log.Fatal().Err(err).Msg("agendar conciliação")
		}
		sched.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI em local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Confinamento API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		InsumoUC:      insumoUC,
		UnidadeUC:     unidadeUC,
		LancamentoUC:  lancamentoUC,
		ConciliacaoUC: conciliacaoUC,
		ReposicaoUC:   reposicaoUC,
		DietaUC:       dietaUC,
		PreMisturaUC:  preMisturaUC,
		BatidaUC:      batidaUC,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}
	if sched != nil {
		sched.Stop(shutdownCtx)
	}

	log.Info().Msg("aplicação encerrada")
}
