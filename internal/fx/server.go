package fx

import (
	"context"

	"Finledger/config"
	"Finledger/internal/logger"
	"Finledger/internal/middleware"
	"Finledger/internal/routes"

	"github.com/gin-gonic/gin"

	"go.uber.org/fx"
)

// ServerModule fornece a configuração do servidor HTTP
var ServerModule = fx.Module("server",
	fx.Provide(
		newRouter,
	),
	fx.Invoke(
		setupRoutes,
	),
)

func newRouter(cfg *config.Config) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return gin.Default()
}

func setupRoutes(
	lc fx.Lifecycle,
	cfg *config.Config,
	router *gin.Engine,
	handler *routes.Handler,
	rateLimiter *middleware.RateLimiter,
) {
	router.Use(middleware.CORSMiddleware())

	public := router.Group("/api")
	public.Use(middleware.RateLimit(rateLimiter))
	{
		public.POST("/users", handler.RegisterUser)
	}

	private := router.Group("/api")
	private.Use(middleware.IdentityMiddleware())
	private.Use(middleware.RateLimit(rateLimiter))
	{
		private.GET("/users/me", handler.GetCurrentUser)

		accounts := private.Group("/accounts")
		{
			accounts.POST("", handler.CreateAccount)
			accounts.GET("", handler.ListAccounts)
			accounts.GET("/:id", handler.GetAccount)
			accounts.PATCH("/:id", handler.UpdateAccount)
			accounts.DELETE("/:id", handler.DeleteAccount)
			accounts.POST("/:id/restore", handler.RestoreAccount)
		}

		categories := private.Group("/categories")
		{
			categories.POST("", handler.CreateCategory)
			categories.GET("", handler.ListCategories)
			categories.GET("/:id", handler.GetCategory)
			categories.DELETE("/:id", handler.DeleteCategory)
		}

		transactions := private.Group("/transactions")
		{
			transactions.POST("/deposit", handler.CreateDeposit)
			transactions.POST("/withdraw", handler.CreateWithdrawal)
			transactions.POST("/transfer", handler.CreateTransfer)
			transactions.POST("/recurring", handler.CreateRecurring)
			transactions.POST("/recurring/process", handler.ProcessRecurring)
			transactions.GET("", handler.GetTransactions)
			transactions.GET("/:id", handler.GetTransaction)
			transactions.GET("/category/:category_id", handler.GetTransactionsByCategory)
			transactions.DELETE("/:id", handler.DeleteTransaction)
		}

		budgets := private.Group("/budgets")
		{
			budgets.POST("", handler.CreateBudget)
			budgets.GET("", handler.ListBudgets)
			budgets.GET("/report", handler.GetBudgetReport)
			budgets.GET("/:id", handler.GetBudget)
			budgets.GET("/:id/status", handler.GetBudgetStatus)
			budgets.PATCH("/:id", handler.UpdateBudget)
			budgets.DELETE("/:id", handler.DeleteBudget)
		}

		investments := private.Group("/investments")
		{
			investments.POST("", handler.CreateInvestment)
			investments.GET("", handler.ListInvestments)
			investments.POST("/simulate", handler.SimulateInvestments)
			investments.GET("/:id", handler.GetInvestment)
			investments.PATCH("/:id", handler.UpdateInvestment)
			investments.DELETE("/:id", handler.DeleteInvestment)
			investments.POST("/:id/restore", handler.RestoreInvestment)
			investments.POST("/:id/history", handler.RecordInvestmentHistory)
			investments.GET("/:id/history", handler.GetInvestmentHistory)
		}

		loans := private.Group("/loans")
		{
			loans.POST("", handler.CreateLoan)
			loans.GET("", handler.ListLoans)
			loans.GET("/:id", handler.GetLoan)
			loans.POST("/:id/payments", handler.MakeLoanPayment)
			loans.GET("/:id/payments", handler.GetLoanPayments)
			loans.DELETE("/:id", handler.DeleteLoan)
		}
	}

	serverAddr := ":" + cfg.Server.Port
	logger.Info().
		Str("address", serverAddr).
		Str("environment", cfg.App.Environment).
		Msg("Servidor iniciando")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := router.Run(serverAddr); err != nil {
					logger.Fatal().Err(err).Msg("Falha ao iniciar servidor")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Servidor parando...")
			return nil
		},
	})
}
