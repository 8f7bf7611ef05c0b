package loan

import (
	"context"
	"time"

	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, loan *Loan) error
	Update(ctx context.Context, loan *Loan) error
	SetDeleted(ctx context.Context, loanID, userID ulid.ULID, deleted bool) error
	GetById(ctx context.Context, loanID, userID ulid.ULID) (*Loan, error)
	GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Loan, int64, error)
	// RecordPayment grava o pagamento e atualiza o empréstimo na mesma unidade atômica.
	RecordPayment(ctx context.Context, loan *Loan, payment *Payment) error
	GetPayments(ctx context.Context, loanID ulid.ULID) ([]*Payment, error)
	// GetDueSoon lista empréstimos ativos com vencimento até a data limite.
	GetDueSoon(ctx context.Context, until time.Time) ([]*Loan, error)
}
