package ledger

import (
	"context"
	"time"

	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// BalanceEntry é uma mutação de saldo aplicada junto com o registro da transação.
type BalanceEntry struct {
	AccountId ulid.ULID
	Delta     decimal.Decimal
}

type Repository interface {
	// Post grava a transação e aplica as mutações de saldo em uma única unidade
	// atômica: ou tudo é persistido, ou nada é.
	Post(ctx context.Context, transaction *Transaction, entries ...BalanceEntry) error
	Update(ctx context.Context, transaction *Transaction) error
	SetDeleted(ctx context.Context, transactionID, userID ulid.ULID, deleted bool) error
	GetByIdAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*Transaction, error)
	GetAll(ctx context.Context, userID ulid.ULID, accountID *ulid.ULID, pagination *pkg.PaginationParams) ([]*Transaction, int64, error)
	GetByType(ctx context.Context, userID ulid.ULID, transactionType Types, pagination *pkg.PaginationParams) ([]*Transaction, int64, error)
	GetByCategory(ctx context.Context, categoryID, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Transaction, int64, error)
	// SumCompletedWithdrawals agrega saques COMPLETED da categoria na janela.
	SumCompletedWithdrawals(ctx context.Context, userID, categoryID ulid.ULID, start, end time.Time) (decimal.Decimal, error)
	// GetDueRecurring lista modelos recorrentes com next_due_date <= now.
	GetDueRecurring(ctx context.Context, now time.Time) ([]*Transaction, error)
	// AdvanceNextDue avança next_due_date por compare-and-swap: só tem efeito se o
	// valor atual ainda for expectedDue. Retorna false quando outro processamento
	// já avançou a ocorrência.
	AdvanceNextDue(ctx context.Context, transactionID ulid.ULID, expectedDue, nextDue time.Time) (bool, error)
}
