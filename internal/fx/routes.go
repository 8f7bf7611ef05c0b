package fx

import (
	"time"

	"Finledger/internal/domain/account"
	"Finledger/internal/domain/budget"
	"Finledger/internal/domain/category"
	"Finledger/internal/domain/investment"
	"Finledger/internal/domain/ledger"
	"Finledger/internal/domain/loan"
	"Finledger/internal/domain/user"
	"Finledger/internal/middleware"
	"Finledger/internal/routes"

	"go.uber.org/fx"
)

// RoutesModule fornece o handler HTTP e o rate limiter
var RoutesModule = fx.Module("routes",
	fx.Provide(
		newHandler,
		newRateLimiter,
	),
)

func newHandler(
	userSvc *user.Service,
	categorySvc *category.Service,
	accountSvc *account.Service,
	transactionSvc *ledger.Service,
	budgetSvc *budget.Service,
	investmentSvc *investment.Service,
	loanSvc *loan.Service,
) *routes.Handler {
	return &routes.Handler{
		UserService:        userSvc,
		CategoryService:    categorySvc,
		AccountService:     accountSvc,
		TransactionService: transactionSvc,
		BudgetService:      budgetSvc,
		InvestmentService:  investmentSvc,
		LoanService:        loanSvc,
	}
}

func newRateLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(100, time.Minute)
}
