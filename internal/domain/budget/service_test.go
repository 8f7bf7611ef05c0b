package budget_test

import (
	"context"
	"testing"
	"time"

	"Finledger/internal/domain/budget"
	"Finledger/internal/domain/shared"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeBudgetRepository struct {
	createFn          func(ctx context.Context, b *budget.Budget) error
	getByIdFn         func(ctx context.Context, budgetID, userID ulid.ULID) (*budget.Budget, error)
	getByCategoryFn   func(ctx context.Context, categoryID, userID ulid.ULID) ([]*budget.Budget, error)
	findFirstActiveFn func(ctx context.Context, userID, categoryID ulid.ULID, date time.Time) (*budget.Budget, error)
}

func (f *fakeBudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBudgetRepository) Update(ctx context.Context, b *budget.Budget) error { return nil }

func (f *fakeBudgetRepository) SetDeleted(ctx context.Context, budgetID, userID ulid.ULID, deleted bool) error {
	return nil
}

func (f *fakeBudgetRepository) GetById(ctx context.Context, budgetID, userID ulid.ULID) (*budget.Budget, error) {
	if f.getByIdFn != nil {
		return f.getByIdFn(ctx, budgetID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBudgetRepository) GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*budget.Budget, int64, error) {
	return nil, 0, nil
}

func (f *fakeBudgetRepository) GetByCategory(ctx context.Context, categoryID, userID ulid.ULID) ([]*budget.Budget, error) {
	if f.getByCategoryFn != nil {
		return f.getByCategoryFn(ctx, categoryID, userID)
	}
	return nil, nil
}

func (f *fakeBudgetRepository) FindFirstActive(ctx context.Context, userID, categoryID ulid.ULID, date time.Time) (*budget.Budget, error) {
	if f.findFirstActiveFn != nil {
		return f.findFirstActiveFn(ctx, userID, categoryID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCategoryValidator struct {
	validateErr error
}

func (f *fakeCategoryValidator) Validate(ctx context.Context, categoryID, userID ulid.ULID) error {
	return f.validateErr
}

type fakeSpendingSummer struct {
	spent decimal.Decimal
}

func (f *fakeSpendingSummer) SumCompletedWithdrawals(ctx context.Context, userID, categoryID ulid.ULID, start, end time.Time) (decimal.Decimal, error) {
	return f.spent, nil
}

type fakeUserChecker struct{}

func (f *fakeUserChecker) Exists(ctx context.Context, userID ulid.ULID) error { return nil }

func newBudgetService(repo *fakeBudgetRepository, spent decimal.Decimal) *budget.Service {
	return budget.NewService(
		repo,
		&fakeCategoryValidator{},
		&fakeSpendingSummer{spent: spent},
		shared.NewUserCheckerService(&fakeUserChecker{}),
	)
}

func strictBudget(userID, categoryID ulid.ULID, limit int64) *budget.Budget {
	return &budget.Budget{
		Id:          ulid.Make(),
		UserId:      userID,
		CategoryId:  categoryID,
		AmountLimit: decimal.NewFromInt(limit),
		StartDate:   time.Now().AddDate(0, 0, -10),
		EndDate:     time.Now().AddDate(0, 0, 10),
		BudgetType:  budget.TypeStrict,
	}
}

func TestIsWithinBudget(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	categoryID := ulid.Make()
	ctx := context.Background()
	now := time.Now()

	t.Run("no active budget admits", func(t *testing.T) {
		svc := newBudgetService(&fakeBudgetRepository{}, decimal.Zero)

		within, err := svc.IsWithinBudget(ctx, userID, categoryID, decimal.NewFromInt(999), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !within {
			t.Fatalf("expected admission without budget")
		}
	})

	t.Run("flexible budget always admits", func(t *testing.T) {
		b := strictBudget(userID, categoryID, 100)
		b.BudgetType = budget.TypeFlexible
		repo := &fakeBudgetRepository{
			findFirstActiveFn: func(ctx context.Context, userID, categoryID ulid.ULID, date time.Time) (*budget.Budget, error) {
				return b, nil
			},
		}
		svc := newBudgetService(repo, decimal.NewFromInt(500))

		within, err := svc.IsWithinBudget(ctx, userID, categoryID, decimal.NewFromInt(999), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !within {
			t.Fatalf("FLEXIBLE must admit even over the limit")
		}
	})

	t.Run("strict admits up to the exact limit", func(t *testing.T) {
		repo := &fakeBudgetRepository{
			findFirstActiveFn: func(ctx context.Context, userID, categoryID ulid.ULID, date time.Time) (*budget.Budget, error) {
				return strictBudget(userID, categoryID, 100), nil
			},
		}
		svc := newBudgetService(repo, decimal.NewFromInt(60))

		within, err := svc.IsWithinBudget(ctx, userID, categoryID, decimal.NewFromInt(40), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !within {
			t.Fatalf("projected == limit must admit")
		}
	})

	t.Run("strict refuses over the limit", func(t *testing.T) {
		repo := &fakeBudgetRepository{
			findFirstActiveFn: func(ctx context.Context, userID, categoryID ulid.ULID, date time.Time) (*budget.Budget, error) {
				return strictBudget(userID, categoryID, 100), nil
			},
		}
		svc := newBudgetService(repo, decimal.NewFromInt(60))

		within, err := svc.IsWithinBudget(ctx, userID, categoryID, decimal.NewFromFloat(40.01), now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if within {
			t.Fatalf("projected > limit must refuse")
		}
	})
}

func TestCheckBudgetUsage(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	categoryID := ulid.Make()
	ctx := context.Background()

	repoWith := func(limit int64) *fakeBudgetRepository {
		return &fakeBudgetRepository{
			getByCategoryFn: func(ctx context.Context, categoryID, userID ulid.ULID) ([]*budget.Budget, error) {
				return []*budget.Budget{strictBudget(userID, categoryID, limit)}, nil
			},
		}
	}

	t.Run("below threshold", func(t *testing.T) {
		svc := newBudgetService(repoWith(100), decimal.NewFromInt(50))

		alert, err := svc.CheckBudgetUsage(ctx, userID, categoryID, decimal.NewFromInt(20))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if alert {
			t.Fatalf("70%% usage must not alert")
		}
	})

	t.Run("at threshold", func(t *testing.T) {
		svc := newBudgetService(repoWith(100), decimal.NewFromInt(50))

		alert, err := svc.CheckBudgetUsage(ctx, userID, categoryID, decimal.NewFromInt(30))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !alert {
			t.Fatalf("80%% usage must alert")
		}
	})
}

func TestPercentageUsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int64
		spent int64
		want  int64
	}{
		{"one third rounds half up", 300, 100, 33},
		{"two thirds rounds half up", 300, 200, 67},
		{"full usage", 200, 200, 100},
		{"over limit", 100, 150, 150},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			b := &budget.Budget{AmountLimit: decimal.NewFromInt(tt.limit)}
			got := b.PercentageUsed(decimal.NewFromInt(tt.spent))
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Fatalf("expected %d%%, got %s", tt.want, got)
			}
		})
	}

	t.Run("zero limit yields zero", func(t *testing.T) {
		b := &budget.Budget{AmountLimit: decimal.Zero}
		if !b.PercentageUsed(decimal.NewFromInt(50)).IsZero() {
			t.Fatalf("zero limit must not divide")
		}
	})
}

func TestCreateBudgetValidations(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	categoryID := ulid.Make()
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name string
		req  *budget.CreateBudgetRequest
	}{
		{
			name: "non positive limit",
			req: &budget.CreateBudgetRequest{
				UserId:      userID,
				CategoryId:  categoryID,
				AmountLimit: decimal.Zero,
				StartDate:   now,
				EndDate:     now.AddDate(0, 1, 0),
				BudgetType:  budget.TypeStrict,
			},
		},
		{
			name: "end before start",
			req: &budget.CreateBudgetRequest{
				UserId:      userID,
				CategoryId:  categoryID,
				AmountLimit: decimal.NewFromInt(100),
				StartDate:   now,
				EndDate:     now.AddDate(0, 0, -1),
				BudgetType:  budget.TypeStrict,
			},
		},
		{
			name: "invalid type",
			req: &budget.CreateBudgetRequest{
				UserId:      userID,
				CategoryId:  categoryID,
				AmountLimit: decimal.NewFromInt(100),
				StartDate:   now,
				EndDate:     now.AddDate(0, 1, 0),
				BudgetType:  budget.Type("LOOSE"),
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc := newBudgetService(&fakeBudgetRepository{}, decimal.Zero)

			_, err := svc.CreateBudget(ctx, tt.req)
			if err == nil {
				t.Fatalf("expected error")
			}
			appErr, ok := appErrors.AsAppError(err)
			if !ok || appErr.Code != "VALIDATION_ERROR" {
				t.Fatalf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}

	t.Run("valid request persists", func(t *testing.T) {
		var created *budget.Budget
		repo := &fakeBudgetRepository{
			createFn: func(ctx context.Context, b *budget.Budget) error {
				created = b
				return nil
			},
		}
		svc := newBudgetService(repo, decimal.Zero)

		b, err := svc.CreateBudget(ctx, &budget.CreateBudgetRequest{
			UserId:      userID,
			CategoryId:  categoryID,
			AmountLimit: decimal.NewFromInt(100),
			StartDate:   now,
			EndDate:     now.AddDate(0, 1, 0),
			BudgetType:  budget.TypeFlexible,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created == nil || created.Id != b.Id {
			t.Fatalf("expected budget persisted")
		}
	})
}
