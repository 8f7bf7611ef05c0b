package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"Finledger/internal/domain/account"
	"Finledger/internal/domain/ledger"
	"Finledger/internal/domain/shared"
	"Finledger/internal/domain/user"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type fakeLedgerRepository struct {
	postFn          func(ctx context.Context, t *ledger.Transaction, entries ...ledger.BalanceEntry) error
	getByIdFn       func(ctx context.Context, transactionID, userID ulid.ULID) (*ledger.Transaction, error)
	getDueFn        func(ctx context.Context, now time.Time) ([]*ledger.Transaction, error)
	advanceFn       func(ctx context.Context, transactionID ulid.ULID, expectedDue, nextDue time.Time) (bool, error)
	sumFn           func(ctx context.Context, userID, categoryID ulid.ULID, start, end time.Time) (decimal.Decimal, error)
	setDeletedFn    func(ctx context.Context, transactionID, userID ulid.ULID, deleted bool) error
	postedTx        []*ledger.Transaction
	postedEntries   [][]ledger.BalanceEntry
	advancedExpects []time.Time
}

func (f *fakeLedgerRepository) Post(ctx context.Context, t *ledger.Transaction, entries ...ledger.BalanceEntry) error {
	if f.postFn != nil {
		if err := f.postFn(ctx, t, entries...); err != nil {
			return err
		}
	}
	f.postedTx = append(f.postedTx, t)
	f.postedEntries = append(f.postedEntries, entries)
	return nil
}

func (f *fakeLedgerRepository) Update(ctx context.Context, t *ledger.Transaction) error { return nil }

func (f *fakeLedgerRepository) SetDeleted(ctx context.Context, transactionID, userID ulid.ULID, deleted bool) error {
	if f.setDeletedFn != nil {
		return f.setDeletedFn(ctx, transactionID, userID, deleted)
	}
	return nil
}

func (f *fakeLedgerRepository) GetByIdAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*ledger.Transaction, error) {
	if f.getByIdFn != nil {
		return f.getByIdFn(ctx, transactionID, userID)
	}
	return &ledger.Transaction{Id: transactionID, UserId: userID}, nil
}

func (f *fakeLedgerRepository) GetAll(ctx context.Context, userID ulid.ULID, accountID *ulid.ULID, pagination *pkg.PaginationParams) ([]*ledger.Transaction, int64, error) {
	return nil, 0, nil
}

func (f *fakeLedgerRepository) GetByType(ctx context.Context, userID ulid.ULID, transactionType ledger.Types, pagination *pkg.PaginationParams) ([]*ledger.Transaction, int64, error) {
	return nil, 0, nil
}

func (f *fakeLedgerRepository) GetByCategory(ctx context.Context, categoryID, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*ledger.Transaction, int64, error) {
	return nil, 0, nil
}

func (f *fakeLedgerRepository) SumCompletedWithdrawals(ctx context.Context, userID, categoryID ulid.ULID, start, end time.Time) (decimal.Decimal, error) {
	if f.sumFn != nil {
		return f.sumFn(ctx, userID, categoryID, start, end)
	}
	return decimal.Zero, nil
}

func (f *fakeLedgerRepository) GetDueRecurring(ctx context.Context, now time.Time) ([]*ledger.Transaction, error) {
	if f.getDueFn != nil {
		return f.getDueFn(ctx, now)
	}
	return nil, nil
}

func (f *fakeLedgerRepository) AdvanceNextDue(ctx context.Context, transactionID ulid.ULID, expectedDue, nextDue time.Time) (bool, error) {
	f.advancedExpects = append(f.advancedExpects, expectedDue)
	if f.advanceFn != nil {
		return f.advanceFn(ctx, transactionID, expectedDue, nextDue)
	}
	return true, nil
}

type fakeAccountService struct {
	getByIDFn func(ctx context.Context, accountID, userID ulid.ULID) (*account.Account, error)
}

func (f *fakeAccountService) GetAccountByID(ctx context.Context, accountID, userID ulid.ULID) (*account.Account, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, accountID, userID)
	}
	return &account.Account{
		Id:      accountID,
		UserId:  userID,
		Type:    account.TypeChecking,
		Balance: decimal.NewFromInt(100),
	}, nil
}

type fakeBudgetAdmitter struct {
	withinFn func(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal, date time.Time) (bool, error)
	usageFn  func(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal) (bool, error)
}

func (f *fakeBudgetAdmitter) IsWithinBudget(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal, date time.Time) (bool, error) {
	if f.withinFn != nil {
		return f.withinFn(ctx, userID, categoryID, amount, date)
	}
	return true, nil
}

func (f *fakeBudgetAdmitter) CheckBudgetUsage(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal) (bool, error) {
	if f.usageFn != nil {
		return f.usageFn(ctx, userID, categoryID, amount)
	}
	return false, nil
}

type fakeUserGetter struct{}

func (f *fakeUserGetter) GetByID(ctx context.Context, userID ulid.ULID) (*user.User, error) {
	return &user.User{Id: userID, Email: "pessoa@example.com"}, nil
}

type fakeUserChecker struct {
	existsErr error
}

func (f *fakeUserChecker) Exists(ctx context.Context, userID ulid.ULID) error {
	return f.existsErr
}

type fakeNotifier struct {
	sent chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan string, 1)}
}

func (f *fakeNotifier) SendEmail(to, subject, body string) {
	select {
	case f.sent <- to:
	default:
	}
}

func newLedgerService(repo *fakeLedgerRepository, budgets *fakeBudgetAdmitter, notifier *fakeNotifier) *ledger.Service {
	if budgets == nil {
		budgets = &fakeBudgetAdmitter{}
	}
	if notifier == nil {
		notifier = newFakeNotifier()
	}
	return ledger.NewService(
		repo,
		&fakeAccountService{},
		budgets,
		&fakeUserGetter{},
		notifier,
		shared.NewUserCheckerService(&fakeUserChecker{}),
	)
}

func TestDeposit(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	accountID := ulid.Make()
	ctx := context.Background()

	t.Run("rejects non positive amount", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		svc := newLedgerService(repo, nil, nil)

		_, err := svc.Deposit(ctx, &ledger.PostRequest{
			UserId:    userID,
			AccountId: accountID,
			Amount:    decimal.Zero,
		})
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
		if len(repo.postedTx) != 0 {
			t.Fatalf("expected no posting on validation failure")
		}
	})

	t.Run("posts completed deposit with credit entry", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		svc := newLedgerService(repo, nil, nil)

		amount := decimal.NewFromFloat(250.50)
		transaction, err := svc.Deposit(ctx, &ledger.PostRequest{
			UserId:    userID,
			AccountId: accountID,
			Amount:    amount,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if transaction.Type != ledger.Deposit || transaction.Status != ledger.StatusCompleted {
			t.Fatalf("expected COMPLETED DEPOSIT, got %s %s", transaction.Type, transaction.Status)
		}
		if len(repo.postedEntries) != 1 || len(repo.postedEntries[0]) != 1 {
			t.Fatalf("expected one posting with one balance entry")
		}
		entry := repo.postedEntries[0][0]
		if entry.AccountId != accountID || !entry.Delta.Equal(amount) {
			t.Fatalf("expected credit of %s, got %s", amount, entry.Delta)
		}
	})
}

func TestWithdraw(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	accountID := ulid.Make()
	categoryID := ulid.Make()
	ctx := context.Background()

	t.Run("strict budget refusal posts nothing", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		budgets := &fakeBudgetAdmitter{
			withinFn: func(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal, date time.Time) (bool, error) {
				return false, nil
			},
		}
		svc := newLedgerService(repo, budgets, nil)

		_, err := svc.Withdraw(ctx, &ledger.PostRequest{
			UserId:     userID,
			AccountId:  accountID,
			CategoryId: &categoryID,
			Amount:     decimal.NewFromInt(50),
		})
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "BUDGET_EXCEEDED" {
			t.Fatalf("expected BUDGET_EXCEEDED, got %v", err)
		}
		if len(repo.postedTx) != 0 {
			t.Fatalf("refused withdrawal must not mutate anything")
		}
	})

	t.Run("admitted withdrawal posts debit entry", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		svc := newLedgerService(repo, nil, nil)

		amount := decimal.NewFromInt(40)
		transaction, err := svc.Withdraw(ctx, &ledger.PostRequest{
			UserId:     userID,
			AccountId:  accountID,
			CategoryId: &categoryID,
			Amount:     amount,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if transaction.Type != ledger.Withdrawal {
			t.Fatalf("expected WITHDRAWAL, got %s", transaction.Type)
		}
		entry := repo.postedEntries[0][0]
		if !entry.Delta.Equal(amount.Neg()) {
			t.Fatalf("expected debit of %s, got %s", amount.Neg(), entry.Delta)
		}
	})

	t.Run("withdrawal without category skips budget check", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		budgets := &fakeBudgetAdmitter{
			withinFn: func(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal, date time.Time) (bool, error) {
				t.Fatalf("budget must not be consulted without category")
				return false, nil
			},
		}
		svc := newLedgerService(repo, budgets, nil)

		_, err := svc.Withdraw(ctx, &ledger.PostRequest{
			UserId:    userID,
			AccountId: accountID,
			Amount:    decimal.NewFromInt(10),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("usage alert notifies user", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		notifier := newFakeNotifier()
		budgets := &fakeBudgetAdmitter{
			usageFn: func(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal) (bool, error) {
				return true, nil
			},
		}
		svc := newLedgerService(repo, budgets, notifier)

		_, err := svc.Withdraw(ctx, &ledger.PostRequest{
			UserId:     userID,
			AccountId:  accountID,
			CategoryId: &categoryID,
			Amount:     decimal.NewFromInt(10),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		select {
		case to := <-notifier.sent:
			if to != "pessoa@example.com" {
				t.Fatalf("unexpected recipient %s", to)
			}
		case <-time.After(time.Second):
			t.Fatalf("expected usage alert email")
		}
	})
}

func TestTransfer(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	fromID := ulid.Make()
	toID := ulid.Make()
	ctx := context.Background()

	t.Run("rejects transfer to same account", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		svc := newLedgerService(repo, nil, nil)

		_, err := svc.Transfer(ctx, &ledger.TransferRequest{
			UserId:        userID,
			FromAccountId: fromID,
			ToAccountId:   fromID,
			Amount:        decimal.NewFromInt(10),
		})
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %v", err)
		}
	})

	t.Run("posts single row with balanced entries", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		svc := newLedgerService(repo, nil, nil)

		amount := decimal.NewFromInt(40)
		transaction, err := svc.Transfer(ctx, &ledger.TransferRequest{
			UserId:        userID,
			FromAccountId: fromID,
			ToAccountId:   toID,
			Amount:        amount,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if transaction.Type != ledger.Transfer {
			t.Fatalf("expected TRANSFER, got %s", transaction.Type)
		}
		if transaction.DestinationAccountId == nil || *transaction.DestinationAccountId != toID {
			t.Fatalf("expected destination account on transfer row")
		}
		if len(repo.postedTx) != 1 {
			t.Fatalf("expected exactly one row, got %d", len(repo.postedTx))
		}

		entries := repo.postedEntries[0]
		if len(entries) != 2 {
			t.Fatalf("expected two balance entries, got %d", len(entries))
		}
		sum := entries[0].Delta.Add(entries[1].Delta)
		if !sum.IsZero() {
			t.Fatalf("transfer must conserve total balance, entries sum %s", sum)
		}
	})

	t.Run("scenario 100 becomes 60 and 40", func(t *testing.T) {
		balances := map[ulid.ULID]decimal.Decimal{
			fromID: decimal.NewFromInt(100),
			toID:   decimal.Zero,
		}
		repo := &fakeLedgerRepository{
			postFn: func(ctx context.Context, tr *ledger.Transaction, entries ...ledger.BalanceEntry) error {
				for _, e := range entries {
					balances[e.AccountId] = balances[e.AccountId].Add(e.Delta)
				}
				return nil
			},
		}
		svc := newLedgerService(repo, nil, nil)

		_, err := svc.Transfer(ctx, &ledger.TransferRequest{
			UserId:        userID,
			FromAccountId: fromID,
			ToAccountId:   toID,
			Amount:        decimal.NewFromInt(40),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !balances[fromID].Equal(decimal.NewFromInt(60)) || !balances[toID].Equal(decimal.NewFromInt(40)) {
			t.Fatalf("expected 60/40, got %s/%s", balances[fromID], balances[toID])
		}
	})
}

func TestCreateRecurring(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	accountID := ulid.Make()
	ctx := context.Background()

	t.Run("rejects transfer recurrence", func(t *testing.T) {
		svc := newLedgerService(&fakeLedgerRepository{}, nil, nil)

		_, err := svc.CreateRecurring(ctx, &ledger.CreateRecurringRequest{
			PostRequest: ledger.PostRequest{UserId: userID, AccountId: accountID, Amount: decimal.NewFromInt(10)},
			Type:        ledger.Transfer,
			Interval:    ledger.IntervalMonthly,
		})
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %s", appErr.Code)
		}
	})

	t.Run("posts first occurrence and schedules next", func(t *testing.T) {
		repo := &fakeLedgerRepository{}
		svc := newLedgerService(repo, nil, nil)

		before := time.Now()
		transaction, err := svc.CreateRecurring(ctx, &ledger.CreateRecurringRequest{
			PostRequest: ledger.PostRequest{UserId: userID, AccountId: accountID, Amount: decimal.NewFromInt(30)},
			Type:        ledger.Deposit,
			Interval:    ledger.IntervalWeekly,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !transaction.IsRecurring || transaction.RecurrenceInterval == nil || transaction.NextDueDate == nil {
			t.Fatalf("expected recurring template fields set")
		}

		wantMin := before.AddDate(0, 0, 7)
		if transaction.NextDueDate.Before(wantMin.Add(-time.Minute)) {
			t.Fatalf("expected next due about one week ahead, got %s", transaction.NextDueDate)
		}
		if len(repo.postedTx) != 1 {
			t.Fatalf("expected initial occurrence posted")
		}
	})
}

func TestProcessRecurringTransactions(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	accountID := ulid.Make()
	ctx := context.Background()

	interval := ledger.IntervalMonthly
	due := time.Now().Add(-time.Hour)

	template := func() *ledger.Transaction {
		d := due
		return &ledger.Transaction{
			Id:                 ulid.Make(),
			UserId:             userID,
			AccountId:          accountID,
			Amount:             decimal.NewFromInt(20),
			Type:               ledger.Deposit,
			Status:             ledger.StatusCompleted,
			IsRecurring:        true,
			RecurrenceInterval: &interval,
			NextDueDate:        &d,
		}
	}

	t.Run("materializes due occurrence with parent reference", func(t *testing.T) {
		tpl := template()
		repo := &fakeLedgerRepository{
			getDueFn: func(ctx context.Context, now time.Time) ([]*ledger.Transaction, error) {
				return []*ledger.Transaction{tpl}, nil
			},
		}
		svc := newLedgerService(repo, nil, nil)

		processed, err := svc.ProcessRecurringTransactions(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if processed != 1 {
			t.Fatalf("expected 1 processed, got %d", processed)
		}

		if len(repo.advancedExpects) != 1 || !repo.advancedExpects[0].Equal(due) {
			t.Fatalf("expected CAS on the original due date")
		}
		if len(repo.postedTx) != 1 {
			t.Fatalf("expected one child posted")
		}
		child := repo.postedTx[0]
		if child.ParentTransactionId == nil || *child.ParentTransactionId != tpl.Id {
			t.Fatalf("expected child to reference template")
		}
		if child.IsRecurring || child.NextDueDate != nil {
			t.Fatalf("child occurrence must not be a template itself")
		}
	})

	t.Run("lost cas skips posting", func(t *testing.T) {
		repo := &fakeLedgerRepository{
			getDueFn: func(ctx context.Context, now time.Time) ([]*ledger.Transaction, error) {
				return []*ledger.Transaction{template()}, nil
			},
			advanceFn: func(ctx context.Context, transactionID ulid.ULID, expectedDue, nextDue time.Time) (bool, error) {
				return false, nil
			},
		}
		svc := newLedgerService(repo, nil, nil)

		processed, err := svc.ProcessRecurringTransactions(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if processed != 0 {
			t.Fatalf("expected 0 processed on lost CAS, got %d", processed)
		}
		if len(repo.postedTx) != 0 {
			t.Fatalf("lost CAS must not post")
		}
	})

	t.Run("corrupted interval skips without advancing", func(t *testing.T) {
		tpl := template()
		broken := ledger.Interval("FORTNIGHTLY")
		tpl.RecurrenceInterval = &broken
		repo := &fakeLedgerRepository{
			getDueFn: func(ctx context.Context, now time.Time) ([]*ledger.Transaction, error) {
				return []*ledger.Transaction{tpl}, nil
			},
		}
		svc := newLedgerService(repo, nil, nil)

		processed, err := svc.ProcessRecurringTransactions(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if processed != 0 {
			t.Fatalf("expected 0 processed, got %d", processed)
		}
		if len(repo.advancedExpects) != 0 {
			t.Fatalf("invalid interval must not touch next_due_date")
		}
		if len(repo.postedTx) != 0 {
			t.Fatalf("invalid interval must not post")
		}
	})

	t.Run("per item failure does not stop the batch", func(t *testing.T) {
		bad := template()
		good := template()
		repo := &fakeLedgerRepository{
			getDueFn: func(ctx context.Context, now time.Time) ([]*ledger.Transaction, error) {
				return []*ledger.Transaction{bad, good}, nil
			},
			postFn: func(ctx context.Context, tr *ledger.Transaction, entries ...ledger.BalanceEntry) error {
				if tr.ParentTransactionId != nil && *tr.ParentTransactionId == bad.Id {
					return errors.New("conexão perdida")
				}
				return nil
			},
		}
		svc := newLedgerService(repo, nil, nil)

		processed, err := svc.ProcessRecurringTransactions(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if processed != 1 {
			t.Fatalf("expected 1 processed despite failure, got %d", processed)
		}
	})
}

func TestIntervalNext(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		interval ledger.Interval
		want     time.Time
	}{
		{ledger.IntervalDaily, base.AddDate(0, 0, 1)},
		{ledger.IntervalWeekly, base.AddDate(0, 0, 7)},
		{ledger.IntervalMonthly, time.Date(2024, time.February, 15, 9, 0, 0, 0, time.UTC)},
		{ledger.IntervalYearly, time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := tt.interval.Next(base); !got.Equal(tt.want) {
			t.Errorf("%s: expected %s, got %s", tt.interval, tt.want, got)
		}
	}
}
