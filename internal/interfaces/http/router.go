package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/confinamento-api/internal/application/auth"
	"github.com/jhoicas/confinamento-api/internal/application/estoque"
	"github.com/jhoicas/confinamento-api/internal/application/nutricao"
	"github.com/jhoicas/confinamento-api/internal/application/producao"
	"github.com/jhoicas/confinamento-api/internal/application/usecase"
	"github.com/jhoicas/confinamento-api/internal/domain/entity"
	"github.com/jhoicas/confinamento-api/pkg/logger"
)

// RouterDeps dependências do router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	InsumoUC      *usecase.InsumoUseCase
	UnidadeUC     *usecase.UnidadeMedidaUseCase
	LancamentoUC  *estoque.LancamentoUseCase
	ConciliacaoUC *estoque.ConciliacaoUseCase
	ReposicaoUC   *estoque.ReposicaoUseCase
	DietaUC       *nutricao.DietaUseCase
	PreMisturaUC  *nutricao.PreMisturaUseCase
	BatidaUC      *producao.BatidaUseCase
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra as rotas da API sob /api.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log.Component("http")
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Demais rotas exigem Bearer Token com tenant
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	batidas := protected.Group("/batidas")
	batidaHandler := NewBatidaHandler(deps.BatidaUC, log)
	batidas.Get("/", batidaHandler.List)
	batidas.Post("/", batidaHandler.Create)
	batidas.Get("/:id", batidaHandler.GetByID)
	batidas.Put("/:id", batidaHandler.Update)
	batidas.Delete("/:id", batidaHandler.Delete)
	batidas.Get("/:id/ficha", batidaHandler.Ficha)

	dietas := protected.Group("/dietas")
	dietaHandler := NewDietaHandler(deps.DietaUC, log)
	dietas.Get("/", dietaHandler.List)
	dietas.Post("/", dietaHandler.Create)
	dietas.Get("/:id", dietaHandler.GetByID)
	dietas.Put("/:id", dietaHandler.Update)
	dietas.Delete("/:id", dietaHandler.Delete)

	preMisturas := protected.Group("/pre-misturas")
	preMisturaHandler := NewPreMisturaHandler(deps.PreMisturaUC, log)
	preMisturas.Get("/", preMisturaHandler.List)
	preMisturas.Post("/", preMisturaHandler.Create)
	preMisturas.Get("/:id", preMisturaHandler.GetByID)
	preMisturas.Put("/:id", preMisturaHandler.Update)
	preMisturas.Delete("/:id", preMisturaHandler.Delete)

	insumos := protected.Group("/insumos")
	insumoHandler := NewInsumoHandler(deps.InsumoUC, log)
	insumos.Get("/", insumoHandler.List)
	insumos.Post("/", insumoHandler.Create)
	insumos.Get("/exportar", insumoHandler.Exportar) // antes de /:id
	insumos.Get("/reposicao", NewReposicaoHandler(deps.ReposicaoUC, log).Sugerir)
	insumos.Get("/:id", insumoHandler.GetByID)
	insumos.Put("/:id", insumoHandler.Update)
	insumos.Delete("/:id", insumoHandler.Delete)

	estoqueHandler := NewEstoqueHandler(deps.LancamentoUC, log)
	entradas := protected.Group("/entradas-estoque")
	entradas.Get("/", estoqueHandler.ListEntradas)
	entradas.Post("/", estoqueHandler.CreateEntrada)
	entradas.Delete("/:id", estoqueHandler.DeleteEntrada)
	saidas := protected.Group("/saidas-estoque")
	saidas.Get("/", estoqueHandler.ListSaidas)
	saidas.Post("/", estoqueHandler.CreateSaida)

	unidades := protected.Group("/unidades-medida")
	unidadeHandler := NewUnidadeMedidaHandler(deps.UnidadeUC, log)
	unidades.Get("/", unidadeHandler.List)
	unidades.Post("/", unidadeHandler.Create)
	unidades.Delete("/:id", unidadeHandler.Delete)

	conciliacaoHandler := NewConciliacaoHandler(deps.ConciliacaoUC, log)
	protected.Post("/estoque/conciliar",
		RequireRole(entity.RoleAdmin, entity.RoleGerente),
		conciliacaoHandler.Conciliar,
	)
}
