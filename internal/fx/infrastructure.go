package fx

import (
	"Finledger/config"
	"Finledger/internal/domain/shared"
	"Finledger/internal/infrastructure"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		newDatabase,
		newUserRepository,
		newCategoryRepository,
		newAccountRepository,
		newTransactionRepository,
		newBudgetRepository,
		newInvestmentRepository,
		newLoanRepository,
		newNotifier,
	),
)

func newDatabase(cfg *config.Config) (*gorm.DB, error) {
	return infrastructure.NewDb(cfg)
}

func newUserRepository(db *gorm.DB) *infrastructure.UserRepository {
	return &infrastructure.UserRepository{DB: db}
}

func newCategoryRepository(db *gorm.DB) *infrastructure.CategoryRepository {
	return &infrastructure.CategoryRepository{DB: db}
}

func newAccountRepository(db *gorm.DB) *infrastructure.AccountRepository {
	return &infrastructure.AccountRepository{DB: db}
}

func newTransactionRepository(db *gorm.DB) *infrastructure.TransactionRepository {
	return &infrastructure.TransactionRepository{DB: db}
}

func newBudgetRepository(db *gorm.DB) *infrastructure.BudgetRepository {
	return &infrastructure.BudgetRepository{DB: db}
}

func newInvestmentRepository(db *gorm.DB) *infrastructure.InvestmentRepository {
	return &infrastructure.InvestmentRepository{DB: db}
}

func newLoanRepository(db *gorm.DB) *infrastructure.LoanRepository {
	return &infrastructure.LoanRepository{DB: db}
}

func newNotifier(cfg *config.Config) shared.Notifier {
	return infrastructure.NewMailer(cfg)
}
