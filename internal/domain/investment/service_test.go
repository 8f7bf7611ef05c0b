package investment_test

import (
	"context"
	"testing"
	"time"

	"Finledger/internal/domain/investment"
	"Finledger/internal/domain/shared"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeInvestmentRepository struct {
	investments map[ulid.ULID]*investment.Investment
	histories   []*investment.History
	historyLen  int64

	getAllActiveFn    func(ctx context.Context) ([]*investment.Investment, error)
	recordValuationFn func(ctx context.Context, inv *investment.Investment, h *investment.History) error
}

func newFakeInvestmentRepository() *fakeInvestmentRepository {
	return &fakeInvestmentRepository{investments: make(map[ulid.ULID]*investment.Investment)}
}

func (f *fakeInvestmentRepository) Create(ctx context.Context, inv *investment.Investment) error {
	f.investments[inv.Id] = inv
	return nil
}

func (f *fakeInvestmentRepository) Update(ctx context.Context, inv *investment.Investment) error {
	f.investments[inv.Id] = inv
	return nil
}

func (f *fakeInvestmentRepository) SetDeleted(ctx context.Context, investmentID, userID ulid.ULID, deleted bool) error {
	if inv, ok := f.investments[investmentID]; ok {
		inv.IsDeleted = deleted
	}
	return nil
}

func (f *fakeInvestmentRepository) GetById(ctx context.Context, investmentID, userID ulid.ULID) (*investment.Investment, error) {
	inv, ok := f.investments[investmentID]
	if !ok || inv.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (f *fakeInvestmentRepository) GetByIdIncludingDeleted(ctx context.Context, investmentID, userID ulid.ULID) (*investment.Investment, error) {
	inv, ok := f.investments[investmentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (f *fakeInvestmentRepository) GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*investment.Investment, int64, error) {
	var out []*investment.Investment
	for _, inv := range f.investments {
		if inv.UserId == userID && !inv.IsDeleted {
			out = append(out, inv)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvestmentRepository) GetAllActive(ctx context.Context) ([]*investment.Investment, error) {
	if f.getAllActiveFn != nil {
		return f.getAllActiveFn(ctx)
	}
	var out []*investment.Investment
	for _, inv := range f.investments {
		if !inv.IsDeleted {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvestmentRepository) RecordValuation(ctx context.Context, inv *investment.Investment, h *investment.History) error {
	if f.recordValuationFn != nil {
		return f.recordValuationFn(ctx, inv, h)
	}
	f.investments[inv.Id] = inv
	f.histories = append(f.histories, h)
	return nil
}

func (f *fakeInvestmentRepository) CountHistory(ctx context.Context, investmentID ulid.ULID) (int64, error) {
	return f.historyLen, nil
}

func (f *fakeInvestmentRepository) GetHistory(ctx context.Context, investmentID ulid.ULID, from, to *time.Time) ([]*investment.History, error) {
	var out []*investment.History
	for _, h := range f.histories {
		if h.InvestmentId != investmentID {
			continue
		}
		if from != nil && h.RecordedAt.Before(*from) {
			continue
		}
		if to != nil && h.RecordedAt.After(*to) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

type fixedRateSource struct {
	rate decimal.Decimal
}

func (f *fixedRateSource) MonthlyRate() decimal.Decimal { return f.rate }

type fakeUserChecker struct{}

func (f *fakeUserChecker) Exists(ctx context.Context, userID ulid.ULID) error { return nil }

func newInvestmentService(repo *fakeInvestmentRepository, rate decimal.Decimal) *investment.Service {
	return investment.NewService(
		repo,
		&fixedRateSource{rate: rate},
		shared.NewUserCheckerService(&fakeUserChecker{}),
	)
}

func seedInvestment(repo *fakeInvestmentRepository, userID ulid.ULID, invested, current int64) *investment.Investment {
	inv := &investment.Investment{
		Id:             ulid.Make(),
		UserId:         userID,
		Name:           "Tesouro Selic",
		Type:           investment.TypeFixedIncome,
		AmountInvested: decimal.NewFromInt(invested),
		CurrentValue:   decimal.NewFromInt(current),
		PurchaseDate:   time.Now().AddDate(-1, 0, 0),
	}
	repo.investments[inv.Id] = inv
	return inv
}

func TestAddInvestment(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("current value starts at amount invested", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		svc := newInvestmentService(repo, decimal.Zero)

		inv, err := svc.AddInvestment(ctx, &investment.CreateInvestmentRequest{
			UserId:         userID,
			Name:           "PETR4",
			Type:           investment.TypeStock,
			AmountInvested: decimal.NewFromInt(5000),
			PurchaseDate:   time.Now().AddDate(0, 0, -1),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !inv.CurrentValue.Equal(inv.AmountInvested) {
			t.Fatalf("expected current value %s, got %s", inv.AmountInvested, inv.CurrentValue)
		}
	})

	t.Run("future purchase date rejected", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		svc := newInvestmentService(repo, decimal.Zero)

		_, err := svc.AddInvestment(ctx, &investment.CreateInvestmentRequest{
			UserId:         userID,
			Name:           "PETR4",
			Type:           investment.TypeStock,
			AmountInvested: decimal.NewFromInt(5000),
			PurchaseDate:   time.Now().AddDate(0, 0, 1),
		})
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
	})
}

func TestPerformance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		invested int64
		current  int64
		want     string
	}{
		{"gain of ten percent", 1000, 1100, "10"},
		{"loss", 1000, 900, "-10"},
		{"ratio rounds before scaling", 300, 400, "33"},
		{"flat", 500, 500, "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			inv := &investment.Investment{
				AmountInvested: decimal.NewFromInt(tt.invested),
				CurrentValue:   decimal.NewFromInt(tt.current),
			}
			want, _ := decimal.NewFromString(tt.want)
			if got := inv.Performance(); !got.Equal(want) {
				t.Fatalf("expected %s%%, got %s", want, got)
			}
		})
	}

	t.Run("zero invested yields zero", func(t *testing.T) {
		inv := &investment.Investment{
			AmountInvested: decimal.Zero,
			CurrentValue:   decimal.NewFromInt(100),
		}
		if !inv.Performance().IsZero() {
			t.Fatalf("zero invested must not divide")
		}
	})
}

func TestSimulateGrowth(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("positive rate compounds the current value", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		inv := seedInvestment(repo, userID, 100, 200)
		svc := newInvestmentService(repo, decimal.NewFromInt(10))

		processed, err := svc.SimulateGrowth(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if processed != 1 {
			t.Fatalf("expected 1 processed, got %d", processed)
		}
		if want := decimal.NewFromInt(220); !inv.CurrentValue.Equal(want) {
			t.Fatalf("expected value %s, got %s", want, inv.CurrentValue)
		}
		if len(repo.histories) != 1 {
			t.Fatalf("expected one history row, got %d", len(repo.histories))
		}
		h := repo.histories[0]
		if h.InvestmentId != inv.Id || !h.Value.Equal(inv.CurrentValue) {
			t.Fatalf("history out of sync with investment: %+v", h)
		}
		if want := decimal.NewFromInt(120); !h.ReturnsGenerated.Equal(want) {
			t.Fatalf("expected returns %s, got %s", want, h.ReturnsGenerated)
		}
		if !h.Performance.Equal(inv.Performance()) {
			t.Fatalf("expected performance %s, got %s", inv.Performance(), h.Performance)
		}
	})

	t.Run("negative rate floors at the principal", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		inv := seedInvestment(repo, userID, 100, 102)
		svc := newInvestmentService(repo, decimal.NewFromInt(-5))

		if _, err := svc.SimulateGrowth(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := decimal.NewFromInt(100); !inv.CurrentValue.Equal(want) {
			t.Fatalf("expected floor at %s, got %s", want, inv.CurrentValue)
		}
		h := repo.histories[0]
		if !h.ReturnsGenerated.IsZero() {
			t.Fatalf("floored valuation must record zero returns, got %s", h.ReturnsGenerated)
		}
		if !h.Performance.IsZero() {
			t.Fatalf("floored valuation must record zero performance, got %s", h.Performance)
		}
	})

	t.Run("result rounds to two decimal places", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		inv := seedInvestment(repo, userID, 100, 333)
		rate, _ := decimal.NewFromString("1.5")
		svc := newInvestmentService(repo, rate)

		if _, err := svc.SimulateGrowth(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want, _ := decimal.NewFromString("338.00")
		if !inv.CurrentValue.Equal(want) {
			t.Fatalf("expected %s, got %s", want, inv.CurrentValue)
		}
	})

	t.Run("failed valuation skips without aborting the pass", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		bad := seedInvestment(repo, userID, 100, 100)
		good := seedInvestment(repo, userID, 100, 100)
		repo.recordValuationFn = func(ctx context.Context, inv *investment.Investment, h *investment.History) error {
			if inv.Id == bad.Id {
				return gorm.ErrInvalidTransaction
			}
			repo.histories = append(repo.histories, h)
			return nil
		}
		repo.getAllActiveFn = func(ctx context.Context) ([]*investment.Investment, error) {
			return []*investment.Investment{bad, good}, nil
		}
		svc := newInvestmentService(repo, decimal.NewFromInt(2))

		processed, err := svc.SimulateGrowth(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if processed != 1 {
			t.Fatalf("expected 1 processed after skip, got %d", processed)
		}
	})
}

func TestRecordHistory(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("records value, returns and performance", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		inv := seedInvestment(repo, userID, 1000, 1000)
		svc := newInvestmentService(repo, decimal.Zero)

		h, err := svc.RecordHistory(ctx, inv.Id, userID, decimal.NewFromInt(1250), time.Now())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !h.Value.Equal(decimal.NewFromInt(1250)) {
			t.Fatalf("expected value 1250, got %s", h.Value)
		}
		if !h.ReturnsGenerated.Equal(decimal.NewFromInt(250)) {
			t.Fatalf("expected returns 250, got %s", h.ReturnsGenerated)
		}
		if !h.Performance.Equal(decimal.NewFromInt(25)) {
			t.Fatalf("expected performance 25, got %s", h.Performance)
		}
		if !inv.CurrentValue.Equal(decimal.NewFromInt(1250)) {
			t.Fatalf("expected current value updated, got %s", inv.CurrentValue)
		}
	})

	t.Run("negative value rejected", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		inv := seedInvestment(repo, userID, 1000, 1000)
		svc := newInvestmentService(repo, decimal.Zero)

		_, err := svc.RecordHistory(ctx, inv.Id, userID, decimal.NewFromInt(-1), time.Now())
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
	})
}

func TestGetHistory(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("no recorded history is not found", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		inv := seedInvestment(repo, userID, 100, 100)
		svc := newInvestmentService(repo, decimal.Zero)

		_, err := svc.GetHistory(ctx, inv.Id, userID, nil, nil)
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "NOT_FOUND" {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	})

	t.Run("window without rows yields empty list", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		inv := seedInvestment(repo, userID, 100, 100)
		repo.historyLen = 1
		repo.histories = append(repo.histories, &investment.History{
			Id:           ulid.Make(),
			InvestmentId: inv.Id,
			Value:        decimal.NewFromInt(100),
			RecordedAt:   time.Now().AddDate(0, -6, 0),
		})
		svc := newInvestmentService(repo, decimal.Zero)

		from := time.Now().AddDate(0, -1, 0)
		history, err := svc.GetHistory(ctx, inv.Id, userID, &from, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(history) != 0 {
			t.Fatalf("expected empty window, got %d rows", len(history))
		}
	})

	t.Run("unknown investment is not found", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		svc := newInvestmentService(repo, decimal.Zero)

		_, err := svc.GetHistory(ctx, ulid.Make(), userID, nil, nil)
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "INVESTMENT_NOT_FOUND" {
			t.Fatalf("expected INVESTMENT_NOT_FOUND, got %v", err)
		}
	})
}

func TestRestoreInvestment(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("restores a deleted investment", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		inv := seedInvestment(repo, userID, 100, 100)
		inv.IsDeleted = true
		svc := newInvestmentService(repo, decimal.Zero)

		if err := svc.RestoreInvestment(ctx, inv.Id, userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if inv.IsDeleted {
			t.Fatalf("expected investment restored")
		}
	})

	t.Run("active investment cannot be restored", func(t *testing.T) {
		repo := newFakeInvestmentRepository()
		inv := seedInvestment(repo, userID, 100, 100)
		svc := newInvestmentService(repo, decimal.Zero)

		err := svc.RestoreInvestment(ctx, inv.Id, userID)
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
	})
}
