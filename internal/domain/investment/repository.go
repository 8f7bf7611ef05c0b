package investment

import (
	"context"
	"time"

	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, investment *Investment) error
	Update(ctx context.Context, investment *Investment) error
	SetDeleted(ctx context.Context, investmentID, userID ulid.ULID, deleted bool) error
	GetById(ctx context.Context, investmentID, userID ulid.ULID) (*Investment, error)
	GetByIdIncludingDeleted(ctx context.Context, investmentID, userID ulid.ULID) (*Investment, error)
	GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Investment, int64, error)
	// GetAllActive lista os investimentos não removidos de todos os usuários,
	// para a passada de avaliação do agendador.
	GetAllActive(ctx context.Context) ([]*Investment, error)
	// RecordValuation grava o novo valor no investimento e acrescenta a linha de
	// histórico na mesma unidade atômica.
	RecordValuation(ctx context.Context, investment *Investment, history *History) error
	CountHistory(ctx context.Context, investmentID ulid.ULID) (int64, error)
	// GetHistory devolve o histórico do investimento em ordem cronológica
	// ascendente, opcionalmente restrito à janela [from, to].
	GetHistory(ctx context.Context, investmentID ulid.ULID, from, to *time.Time) ([]*History, error)
}
