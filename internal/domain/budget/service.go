package budget

import (
	"context"
	"errors"
	"strings"
	"time"

	"Finledger/internal/domain/shared"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryValidator interface {
	Validate(ctx context.Context, categoryID, userID ulid.ULID) error
}

type Service struct {
	Repository      Repository
	CategoryService CategoryValidator
	Spending        shared.SpendingSummer
	shared.BaseService
}

func NewService(repo Repository, categorySvc CategoryValidator, spending shared.SpendingSummer, userChecker *shared.UserCheckerService) *Service {
	return &Service{
		Repository:      repo,
		CategoryService: categorySvc,
		Spending:        spending,
		BaseService: shared.BaseService{
			UserChecker: userChecker,
		},
	}
}

func (s *Service) CreateBudget(ctx context.Context, req *CreateBudgetRequest) (*Budget, error) {
	if err := s.EnsureUserExists(ctx, req.UserId); err != nil {
		return nil, err
	}

	if err := s.validateCreateRequest(ctx, req); err != nil {
		return nil, err
	}

	b := &Budget{
		Id:             pkg.GenerateULIDObject(),
		UserId:         req.UserId,
		CategoryId:     req.CategoryId,
		AmountLimit:    req.AmountLimit,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		BudgetType:     req.BudgetType,
		RolloverAmount: req.RolloverAmount,
		Description:    strings.TrimSpace(req.Description),
		IsDeleted:      false,
		CreatedAt:      time.Now(),
	}

	if err := s.Repository.Create(ctx, b); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return b, nil
}

func (s *Service) UpdateBudget(ctx context.Context, budgetID, userID ulid.ULID, req *UpdateBudgetRequest) error {
	b, err := s.GetBudgetByID(ctx, budgetID, userID)
	if err != nil {
		return err
	}

	if req.AmountLimit != nil {
		if req.AmountLimit.LessThanOrEqual(decimal.Zero) {
			return appErrors.NewValidationError("amount_limit", "deve ser maior que zero")
		}
		b.AmountLimit = *req.AmountLimit
	}

	if req.StartDate != nil {
		b.StartDate = *req.StartDate
	}

	if req.EndDate != nil {
		b.EndDate = *req.EndDate
	}

	if b.EndDate.Before(b.StartDate) {
		return appErrors.NewValidationError("end_date", "deve ser posterior à data de início")
	}

	if req.BudgetType != nil {
		if !req.BudgetType.IsValid() {
			return appErrors.NewValidationError("budget_type", "deve ser STRICT ou FLEXIBLE")
		}
		b.BudgetType = *req.BudgetType
	}

	if req.RolloverAmount != nil {
		b.RolloverAmount = *req.RolloverAmount
	}

	if req.Description != nil {
		b.Description = strings.TrimSpace(*req.Description)
	}

	return s.Repository.Update(ctx, b)
}

func (s *Service) DeleteBudget(ctx context.Context, budgetID, userID ulid.ULID) error {
	if _, err := s.GetBudgetByID(ctx, budgetID, userID); err != nil {
		return err
	}

	return s.Repository.SetDeleted(ctx, budgetID, userID, true)
}

func (s *Service) GetBudgetByID(ctx context.Context, budgetID, userID ulid.ULID) (*Budget, error) {
	b, err := s.Repository.GetById(ctx, budgetID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrBudgetNotFound
		}
		return nil, appErrors.NewDatabaseError(err)
	}

	if b.UserId != userID {
		return nil, appErrors.ErrResourceNotOwned
	}

	return b, nil
}

func (s *Service) ListBudgets(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Budget, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.Repository.GetByUserId(ctx, userID, pagination)
}

// FindActiveBudget devolve o orçamento cuja janela contém a data, ou nil se não houver.
func (s *Service) FindActiveBudget(ctx context.Context, userID, categoryID ulid.ULID, date time.Time) (*Budget, error) {
	b, err := s.Repository.FindFirstActive(ctx, userID, categoryID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return b, nil
}

// IsWithinBudget decide a admissão de um gasto prospectivo. Sem orçamento ativo,
// admite sempre. Orçamento FLEXIBLE é apenas informativo e também admite sempre.
// Orçamento STRICT admite apenas se gasto projetado <= limite.
func (s *Service) IsWithinBudget(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal, date time.Time) (bool, error) {
	b, err := s.FindActiveBudget(ctx, userID, categoryID, date)
	if err != nil {
		return false, err
	}
	if b == nil {
		return true, nil
	}

	if b.BudgetType != TypeStrict {
		return true, nil
	}

	spent, err := s.Spending.SumCompletedWithdrawals(ctx, userID, categoryID, b.StartDate, endOfDay(b.EndDate))
	if err != nil {
		return false, appErrors.NewDatabaseError(err)
	}

	projected := spent.Add(amount)
	return projected.LessThanOrEqual(b.AmountLimit), nil
}

// CheckBudgetUsage sinaliza quando o gasto projetado cruza 80% do limite de algum
// orçamento da categoria. É um alerta antecipado, independente da admissão STRICT.
func (s *Service) CheckBudgetUsage(ctx context.Context, userID, categoryID ulid.ULID, amount decimal.Decimal) (bool, error) {
	budgets, err := s.Repository.GetByCategory(ctx, categoryID, userID)
	if err != nil {
		return false, appErrors.NewDatabaseError(err)
	}

	for _, b := range budgets {
		spent, err := s.Spending.SumCompletedWithdrawals(ctx, userID, categoryID, b.StartDate, endOfDay(b.EndDate))
		if err != nil {
			return false, appErrors.NewDatabaseError(err)
		}

		projected := spent.Add(amount)
		threshold := b.AmountLimit.Mul(decimal.NewFromFloat(0.8))
		if projected.GreaterThanOrEqual(threshold) {
			return true, nil
		}
	}

	return false, nil
}

func (s *Service) GetBudgetStatus(ctx context.Context, budgetID, userID ulid.ULID) (*BudgetStatus, error) {
	b, err := s.GetBudgetByID(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}

	spent, err := s.Spending.SumCompletedWithdrawals(ctx, userID, b.CategoryId, b.StartDate, endOfDay(b.EndDate))
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return &BudgetStatus{
		Budget:     b,
		Spent:      spent,
		Remaining:  b.AmountLimit.Sub(spent),
		Percentage: b.PercentageUsed(spent),
	}, nil
}

func (s *Service) GetBudgetReport(ctx context.Context, userID ulid.ULID) (*BudgetReport, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	budgets, _, err := s.Repository.GetByUserId(ctx, userID, nil)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	report := &BudgetReport{
		UserId:              userID,
		Budgets:             make([]*BudgetStatus, 0, len(budgets)),
		TotalBudgetLimit:    decimal.Zero,
		TotalRolloverAmount: decimal.Zero,
	}

	for _, b := range budgets {
		spent, err := s.Spending.SumCompletedWithdrawals(ctx, userID, b.CategoryId, b.StartDate, endOfDay(b.EndDate))
		if err != nil {
			return nil, appErrors.NewDatabaseError(err)
		}

		report.Budgets = append(report.Budgets, &BudgetStatus{
			Budget:     b,
			Spent:      spent,
			Remaining:  b.AmountLimit.Sub(spent),
			Percentage: b.PercentageUsed(spent),
		})

		report.TotalBudgetLimit = report.TotalBudgetLimit.Add(b.AmountLimit)
		report.TotalRolloverAmount = report.TotalRolloverAmount.Add(b.RolloverAmount)

		start := b.StartDate
		end := b.EndDate
		if report.StartDate == nil || start.Before(*report.StartDate) {
			report.StartDate = &start
		}
		if report.EndDate == nil || end.After(*report.EndDate) {
			report.EndDate = &end
		}
	}

	return report, nil
}

func (s *Service) validateCreateRequest(ctx context.Context, req *CreateBudgetRequest) error {
	if req.AmountLimit.LessThanOrEqual(decimal.Zero) {
		return appErrors.NewValidationError("amount_limit", "deve ser maior que zero")
	}

	if req.EndDate.Before(req.StartDate) {
		return appErrors.NewValidationError("end_date", "deve ser posterior à data de início")
	}

	if !req.BudgetType.IsValid() {
		return appErrors.NewValidationError("budget_type", "deve ser STRICT ou FLEXIBLE")
	}

	if err := s.CategoryService.Validate(ctx, req.CategoryId, req.UserId); err != nil {
		return appErrors.ErrCategoryNotFound
	}

	return nil
}

func endOfDay(date time.Time) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), date.Location())
}

type CreateBudgetRequest struct {
	UserId         ulid.ULID
	CategoryId     ulid.ULID
	AmountLimit    decimal.Decimal
	StartDate      time.Time
	EndDate        time.Time
	BudgetType     Type
	RolloverAmount decimal.Decimal
	Description    string
}

type UpdateBudgetRequest struct {
	AmountLimit    *decimal.Decimal
	StartDate      *time.Time
	EndDate        *time.Time
	BudgetType     *Type
	RolloverAmount *decimal.Decimal
	Description    *string
}
