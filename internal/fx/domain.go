package fx

import (
	"Finledger/internal/domain/account"
	"Finledger/internal/domain/budget"
	"Finledger/internal/domain/category"
	"Finledger/internal/domain/investment"
	"Finledger/internal/domain/ledger"
	"Finledger/internal/domain/loan"
	"Finledger/internal/domain/shared"
	"Finledger/internal/domain/user"
	"Finledger/internal/infrastructure"

	"go.uber.org/fx"
)

// DomainModule fornece todos os services do domínio
var DomainModule = fx.Module("domain",
	fx.Provide(
		newUserService,
		newUserCheckerService,
		newCategoryService,
		newAccountService,
		newBudgetService,
		newLedgerService,
		newRateSource,
		newInvestmentService,
		newLoanService,
	),
)

func newUserService(repo *infrastructure.UserRepository) *user.Service {
	return user.NewService(repo)
}

func newUserCheckerService(userSvc *user.Service) *shared.UserCheckerService {
	return shared.NewUserCheckerService(userSvc)
}

func newCategoryService(
	repo *infrastructure.CategoryRepository,
	userChecker *shared.UserCheckerService,
) *category.Service {
	return category.NewService(repo, userChecker)
}

func newAccountService(
	repo *infrastructure.AccountRepository,
	userChecker *shared.UserCheckerService,
) *account.Service {
	return account.NewService(repo, userChecker)
}

func newBudgetService(
	repo *infrastructure.BudgetRepository,
	categorySvc *category.Service,
	transactionRepo *infrastructure.TransactionRepository,
	userChecker *shared.UserCheckerService,
) *budget.Service {
	return budget.NewService(repo, categorySvc, transactionRepo, userChecker)
}

func newLedgerService(
	repo *infrastructure.TransactionRepository,
	accountSvc *account.Service,
	budgetSvc *budget.Service,
	userSvc *user.Service,
	notifier shared.Notifier,
	userChecker *shared.UserCheckerService,
) *ledger.Service {
	return ledger.NewService(repo, accountSvc, budgetSvc, userSvc, notifier, userChecker)
}

func newRateSource() investment.RateSource {
	return investment.NewRandomRateSource()
}

func newInvestmentService(
	repo *infrastructure.InvestmentRepository,
	rates investment.RateSource,
	userChecker *shared.UserCheckerService,
) *investment.Service {
	return investment.NewService(repo, rates, userChecker)
}

func newLoanService(
	repo *infrastructure.LoanRepository,
	userSvc *user.Service,
	notifier shared.Notifier,
	userChecker *shared.UserCheckerService,
) *loan.Service {
	return loan.NewService(repo, userSvc, notifier, userChecker)
}
