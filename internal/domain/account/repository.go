package account

import (
	"context"

	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	GetById(ctx context.Context, accountID, userID ulid.ULID) (*Account, error)
	// GetByIdIncludingDeleted resolve contas soft-deletadas (restauração e auditoria).
	GetByIdIncludingDeleted(ctx context.Context, accountID, userID ulid.ULID) (*Account, error)
	GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Account, int64, error)
	GetAllByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Account, int64, error)
	SetDeleted(ctx context.Context, accountID, userID ulid.ULID, deleted bool) error
}
