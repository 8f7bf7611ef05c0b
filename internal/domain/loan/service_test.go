package loan_test

import (
	"context"
	"testing"
	"time"

	"Finledger/internal/domain/loan"
	"Finledger/internal/domain/shared"
	"Finledger/internal/domain/user"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeLoanRepository struct {
	loans    map[ulid.ULID]*loan.Loan
	payments []*loan.Payment

	getDueSoonFn func(ctx context.Context, until time.Time) ([]*loan.Loan, error)
}

func newFakeLoanRepository() *fakeLoanRepository {
	return &fakeLoanRepository{loans: make(map[ulid.ULID]*loan.Loan)}
}

func (f *fakeLoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	f.loans[l.Id] = l
	return nil
}

func (f *fakeLoanRepository) Update(ctx context.Context, l *loan.Loan) error {
	f.loans[l.Id] = l
	return nil
}

func (f *fakeLoanRepository) SetDeleted(ctx context.Context, loanID, userID ulid.ULID, deleted bool) error {
	if l, ok := f.loans[loanID]; ok {
		l.IsDeleted = deleted
	}
	return nil
}

func (f *fakeLoanRepository) GetById(ctx context.Context, loanID, userID ulid.ULID) (*loan.Loan, error) {
	l, ok := f.loans[loanID]
	if !ok || l.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (f *fakeLoanRepository) GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*loan.Loan, int64, error) {
	var out []*loan.Loan
	for _, l := range f.loans {
		if l.UserId == userID && !l.IsDeleted {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLoanRepository) RecordPayment(ctx context.Context, l *loan.Loan, p *loan.Payment) error {
	f.loans[l.Id] = l
	f.payments = append(f.payments, p)
	return nil
}

func (f *fakeLoanRepository) GetPayments(ctx context.Context, loanID ulid.ULID) ([]*loan.Payment, error) {
	var out []*loan.Payment
	for _, p := range f.payments {
		if p.LoanId == loanID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLoanRepository) GetDueSoon(ctx context.Context, until time.Time) ([]*loan.Loan, error) {
	if f.getDueSoonFn != nil {
		return f.getDueSoonFn(ctx, until)
	}
	return nil, nil
}

type fakeUserGetter struct {
	err error
}

func (f *fakeUserGetter) GetByID(ctx context.Context, userID ulid.ULID) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &user.User{Id: userID, Name: "Pessoa", Email: "pessoa@example.com"}, nil
}

type fakeNotifier struct {
	emails []string
}

func (f *fakeNotifier) SendEmail(to, subject, body string) {
	f.emails = append(f.emails, to)
}

type fakeUserChecker struct{}

func (f *fakeUserChecker) Exists(ctx context.Context, userID ulid.ULID) error { return nil }

func newLoanService(repo *fakeLoanRepository, users *fakeUserGetter, notifier *fakeNotifier) *loan.Service {
	return loan.NewService(repo, users, notifier, shared.NewUserCheckerService(&fakeUserChecker{}))
}

func seedLoan(repo *fakeLoanRepository, userID ulid.ULID, remaining int64, due *time.Time) *loan.Loan {
	l := &loan.Loan{
		Id:               ulid.Make(),
		UserId:           userID,
		Description:      "Financiamento do carro",
		PrincipalAmount:  decimal.NewFromInt(10000),
		RemainingBalance: decimal.NewFromInt(remaining),
		Status:           loan.StatusActive,
		NextPaymentDue:   due,
	}
	repo.loans[l.Id] = l
	return l
}

func TestCreateLoan(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("remaining balance starts at principal", func(t *testing.T) {
		repo := newFakeLoanRepository()
		svc := newLoanService(repo, &fakeUserGetter{}, &fakeNotifier{})

		l, err := svc.CreateLoan(ctx, &loan.CreateLoanRequest{
			UserId:          userID,
			Description:     "Reforma",
			PrincipalAmount: decimal.NewFromInt(8000),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !l.RemainingBalance.Equal(l.PrincipalAmount) {
			t.Fatalf("expected remaining %s, got %s", l.PrincipalAmount, l.RemainingBalance)
		}
		if l.Status != loan.StatusActive {
			t.Fatalf("expected ACTIVE, got %s", l.Status)
		}
	})

	t.Run("non positive principal rejected", func(t *testing.T) {
		repo := newFakeLoanRepository()
		svc := newLoanService(repo, &fakeUserGetter{}, &fakeNotifier{})

		_, err := svc.CreateLoan(ctx, &loan.CreateLoanRequest{
			UserId:          userID,
			Description:     "Reforma",
			PrincipalAmount: decimal.Zero,
		})
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
	})
}

func TestMakePayment(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("partial payment reduces balance and advances the due date", func(t *testing.T) {
		repo := newFakeLoanRepository()
		due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		l := seedLoan(repo, userID, 1000, &due)
		svc := newLoanService(repo, &fakeUserGetter{}, &fakeNotifier{})

		p, err := svc.MakePayment(ctx, l.Id, userID, decimal.NewFromInt(400))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !l.RemainingBalance.Equal(decimal.NewFromInt(600)) {
			t.Fatalf("expected remaining 600, got %s", l.RemainingBalance)
		}
		wantDue := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
		if l.NextPaymentDue == nil || !l.NextPaymentDue.Equal(wantDue) {
			t.Fatalf("expected next due %s, got %v", wantDue, l.NextPaymentDue)
		}
		if !p.Amount.Equal(decimal.NewFromInt(400)) || p.LoanId != l.Id {
			t.Fatalf("payment out of sync: %+v", p)
		}
		if len(repo.payments) != 1 {
			t.Fatalf("expected one payment recorded, got %d", len(repo.payments))
		}
	})

	t.Run("full payment settles the loan", func(t *testing.T) {
		repo := newFakeLoanRepository()
		due := time.Now().AddDate(0, 0, 15)
		l := seedLoan(repo, userID, 1000, &due)
		svc := newLoanService(repo, &fakeUserGetter{}, &fakeNotifier{})

		if _, err := svc.MakePayment(ctx, l.Id, userID, decimal.NewFromInt(1000)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if l.Status != loan.StatusPaidOff {
			t.Fatalf("expected PAID_OFF, got %s", l.Status)
		}
		if l.NextPaymentDue != nil {
			t.Fatalf("settled loan must not keep a due date")
		}
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		repo := newFakeLoanRepository()
		l := seedLoan(repo, userID, 500, nil)
		svc := newLoanService(repo, &fakeUserGetter{}, &fakeNotifier{})

		_, err := svc.MakePayment(ctx, l.Id, userID, decimal.NewFromInt(501))
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
		if !l.RemainingBalance.Equal(decimal.NewFromInt(500)) {
			t.Fatalf("balance must not change on refusal")
		}
	})

	t.Run("settled loan refuses further payments", func(t *testing.T) {
		repo := newFakeLoanRepository()
		l := seedLoan(repo, userID, 0, nil)
		l.Status = loan.StatusPaidOff
		svc := newLoanService(repo, &fakeUserGetter{}, &fakeNotifier{})

		_, err := svc.MakePayment(ctx, l.Id, userID, decimal.NewFromInt(10))
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
	})

	t.Run("unknown loan is not found", func(t *testing.T) {
		repo := newFakeLoanRepository()
		svc := newLoanService(repo, &fakeUserGetter{}, &fakeNotifier{})

		_, err := svc.MakePayment(ctx, ulid.Make(), userID, decimal.NewFromInt(10))
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "LOAN_NOT_FOUND" {
			t.Fatalf("expected LOAN_NOT_FOUND, got %v", err)
		}
	})
}

func TestSendPaymentReminders(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("notifies each loan due within the window", func(t *testing.T) {
		repo := newFakeLoanRepository()
		due := time.Now().AddDate(0, 0, 2)
		first := seedLoan(repo, userID, 500, &due)
		second := seedLoan(repo, ulid.Make(), 800, &due)
		repo.getDueSoonFn = func(ctx context.Context, until time.Time) ([]*loan.Loan, error) {
			return []*loan.Loan{first, second}, nil
		}
		notifier := &fakeNotifier{}
		svc := newLoanService(repo, &fakeUserGetter{}, notifier)

		sent, err := svc.SendPaymentReminders(ctx, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sent != 2 {
			t.Fatalf("expected 2 reminders, got %d", sent)
		}
		if len(notifier.emails) != 2 {
			t.Fatalf("expected 2 emails, got %d", len(notifier.emails))
		}
	})

	t.Run("user lookup failure skips the loan", func(t *testing.T) {
		repo := newFakeLoanRepository()
		due := time.Now().AddDate(0, 0, 1)
		l := seedLoan(repo, userID, 500, &due)
		repo.getDueSoonFn = func(ctx context.Context, until time.Time) ([]*loan.Loan, error) {
			return []*loan.Loan{l}, nil
		}
		notifier := &fakeNotifier{}
		svc := newLoanService(repo, &fakeUserGetter{err: gorm.ErrRecordNotFound}, notifier)

		sent, err := svc.SendPaymentReminders(ctx, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sent != 0 {
			t.Fatalf("expected no reminders, got %d", sent)
		}
		if len(notifier.emails) != 0 {
			t.Fatalf("expected no emails, got %d", len(notifier.emails))
		}
	})
}
