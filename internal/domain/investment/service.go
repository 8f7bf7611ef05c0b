package investment

import (
	"context"
	"errors"
	"strings"
	"time"

	"Finledger/internal/domain/shared"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/logger"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	Repository Repository
	Rates      RateSource
	shared.BaseService
}

func NewService(repo Repository, rates RateSource, userChecker *shared.UserCheckerService) *Service {
	return &Service{
		Repository: repo,
		Rates:      rates,
		BaseService: shared.BaseService{
			UserChecker: userChecker,
		},
	}
}

type CreateInvestmentRequest struct {
	UserId         ulid.ULID
	Name           string
	Type           Type
	AmountInvested decimal.Decimal
	PurchaseDate   time.Time
}

type UpdateInvestmentRequest struct {
	Name           *string
	Type           *Type
	AmountInvested *decimal.Decimal
	CurrentValue   *decimal.Decimal
}

// AddInvestment registra um investimento com valor atual igual ao aporte.
func (s *Service) AddInvestment(ctx context.Context, req *CreateInvestmentRequest) (*Investment, error) {
	if err := s.EnsureUserExists(ctx, req.UserId); err != nil {
		return nil, err
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	inv := &Investment{
		Id:             pkg.GenerateULIDObject(),
		UserId:         req.UserId,
		Name:           strings.TrimSpace(req.Name),
		Type:           req.Type,
		AmountInvested: req.AmountInvested,
		CurrentValue:   req.AmountInvested,
		PurchaseDate:   req.PurchaseDate,
		IsDeleted:      false,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.Repository.Create(ctx, inv); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return inv, nil
}

func (s *Service) UpdateInvestment(ctx context.Context, investmentID, userID ulid.ULID, req *UpdateInvestmentRequest) error {
	inv, err := s.GetInvestmentByID(ctx, investmentID, userID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return appErrors.NewValidationError("name", "não pode ser vazio")
		}
		inv.Name = name
	}

	if req.Type != nil {
		if !req.Type.IsValid() {
			return appErrors.NewValidationError("type", "tipo de investimento inválido")
		}
		inv.Type = *req.Type
	}

	if req.AmountInvested != nil {
		if req.AmountInvested.LessThanOrEqual(decimal.Zero) {
			return appErrors.NewValidationError("amount_invested", "deve ser maior que zero")
		}
		inv.AmountInvested = *req.AmountInvested
	}

	if req.CurrentValue != nil {
		if req.CurrentValue.IsNegative() {
			return appErrors.NewValidationError("current_value", "não pode ser negativo")
		}
		inv.CurrentValue = *req.CurrentValue
	}

	inv.UpdatedAt = time.Now()

	return s.Repository.Update(ctx, inv)
}

func (s *Service) GetInvestmentByID(ctx context.Context, investmentID, userID ulid.ULID) (*Investment, error) {
	inv, err := s.Repository.GetById(ctx, investmentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrInvestmentNotFound
		}
		return nil, appErrors.NewDatabaseError(err)
	}

	if inv.UserId != userID {
		return nil, appErrors.ErrResourceNotOwned
	}

	return inv, nil
}

func (s *Service) ListInvestments(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Investment, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.Repository.GetByUserId(ctx, userID, pagination)
}

func (s *Service) DeleteInvestment(ctx context.Context, investmentID, userID ulid.ULID) error {
	if _, err := s.GetInvestmentByID(ctx, investmentID, userID); err != nil {
		return err
	}

	return s.Repository.SetDeleted(ctx, investmentID, userID, true)
}

func (s *Service) RestoreInvestment(ctx context.Context, investmentID, userID ulid.ULID) error {
	inv, err := s.Repository.GetByIdIncludingDeleted(ctx, investmentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.ErrInvestmentNotFound
		}
		return appErrors.NewDatabaseError(err)
	}

	if !inv.IsDeleted {
		return appErrors.NewValidationError("investment", "investimento já está ativo")
	}

	return s.Repository.SetDeleted(ctx, investmentID, userID, false)
}

// SimulateGrowth aplica a variação mensal a cada investimento ativo e grava
// valor e histórico atomicamente. O valor nunca cai abaixo do aporte: a
// simulação tem piso no principal. Falhas individuais são registradas em log e
// não interrompem a passada. Retorna o número de investimentos avaliados.
func (s *Service) SimulateGrowth(ctx context.Context) (int, error) {
	investments, err := s.Repository.GetAllActive(ctx)
	if err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}

	processed := 0
	for _, inv := range investments {
		if err := s.applyMonthlyRate(ctx, inv); err != nil {
			logger.Error().
				Err(err).
				Str("investment_id", inv.Id.String()).
				Str("user_id", inv.UserId.String()).
				Msg("falha ao avaliar investimento")
			continue
		}
		processed++
	}

	return processed, nil
}

func (s *Service) applyMonthlyRate(ctx context.Context, inv *Investment) error {
	rate := s.Rates.MonthlyRate()
	factor := decimal.NewFromInt(1).Add(rate.Div(hundred))

	newValue := inv.CurrentValue.Mul(factor).Round(2)
	if newValue.LessThan(inv.AmountInvested) {
		newValue = inv.AmountInvested
	}

	inv.CurrentValue = newValue
	inv.UpdatedAt = time.Now()

	return s.Repository.RecordValuation(ctx, inv, &History{
		Id:               pkg.GenerateULIDObject(),
		InvestmentId:     inv.Id,
		Value:            newValue,
		ReturnsGenerated: newValue.Sub(inv.AmountInvested),
		Performance:      inv.Performance(),
		RecordedAt:       time.Now(),
	})
}

// RecordHistory grava manualmente uma avaliação para o investimento, atualizando
// o valor atual e acrescentando o histórico na mesma unidade atômica.
func (s *Service) RecordHistory(ctx context.Context, investmentID, userID ulid.ULID, value decimal.Decimal, recordedAt time.Time) (*History, error) {
	if value.IsNegative() {
		return nil, appErrors.NewValidationError("value", "não pode ser negativo")
	}

	inv, err := s.GetInvestmentByID(ctx, investmentID, userID)
	if err != nil {
		return nil, err
	}

	inv.CurrentValue = value
	inv.UpdatedAt = time.Now()

	h := &History{
		Id:               pkg.GenerateULIDObject(),
		InvestmentId:     investmentID,
		Value:            value,
		ReturnsGenerated: value.Sub(inv.AmountInvested),
		Performance:      inv.Performance(),
		RecordedAt:       recordedAt,
	}

	if err := s.Repository.RecordValuation(ctx, inv, h); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return h, nil
}

// GetHistory devolve o histórico em ordem cronológica. Investimento sem
// nenhuma avaliação registrada é NotFound; janela sem registros devolve lista
// vazia.
func (s *Service) GetHistory(ctx context.Context, investmentID, userID ulid.ULID, from, to *time.Time) ([]*History, error) {
	if _, err := s.GetInvestmentByID(ctx, investmentID, userID); err != nil {
		return nil, err
	}

	total, err := s.Repository.CountHistory(ctx, investmentID)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	if total == 0 {
		return nil, appErrors.NewNotFoundError("histórico do investimento")
	}

	history, err := s.Repository.GetHistory(ctx, investmentID, from, to)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return history, nil
}

func (s *Service) validateCreateRequest(req *CreateInvestmentRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return appErrors.NewValidationError("name", "não pode ser vazio")
	}

	if !req.Type.IsValid() {
		return appErrors.NewValidationError("type", "tipo de investimento inválido")
	}

	if req.AmountInvested.LessThanOrEqual(decimal.Zero) {
		return appErrors.NewValidationError("amount_invested", "deve ser maior que zero")
	}

	if req.PurchaseDate.After(time.Now()) {
		return appErrors.NewValidationError("purchase_date", "não pode estar no futuro")
	}

	return nil
}
