package budget

import (
	"context"
	"time"

	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, budget *Budget) error
	Update(ctx context.Context, budget *Budget) error
	SetDeleted(ctx context.Context, budgetID, userID ulid.ULID, deleted bool) error
	GetById(ctx context.Context, budgetID, userID ulid.ULID) (*Budget, error)
	GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Budget, int64, error)
	GetByCategory(ctx context.Context, categoryID, userID ulid.ULID) ([]*Budget, error)
	// FindFirstActive devolve o primeiro orçamento ativo cuja janela contém a data.
	// Não há desempate entre janelas sobrepostas: vale o primeiro encontrado.
	FindFirstActive(ctx context.Context, userID, categoryID ulid.ULID, date time.Time) (*Budget, error)
}
