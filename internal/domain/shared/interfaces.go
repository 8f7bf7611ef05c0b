package shared

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type UserChecker interface {
	Exists(ctx context.Context, userID ulid.ULID) error
}

// BudgetAdmitter é a visão que o motor de lançamentos tem do avaliador de orçamentos.
type BudgetAdmitter interface {
	IsWithinBudget(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal, date time.Time) (bool, error)
	CheckBudgetUsage(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal) (bool, error)
}

// SpendingSummer expõe a consulta agregada de gastos usada pelo avaliador de orçamentos.
type SpendingSummer interface {
	SumCompletedWithdrawals(ctx context.Context, userID, categoryID ulid.ULID, start, end time.Time) (decimal.Decimal, error)
}

// Notifier envia notificações fire-and-forget; a entrega não é aguardada nem confirmada.
type Notifier interface {
	SendEmail(to, subject, body string)
}
