package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"Finledger/internal/domain/shared"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	money "github.com/Rhymond/go-money"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	Repository Repository
	shared.BaseService
}

func NewService(repo Repository, userChecker *shared.UserCheckerService) *Service {
	return &Service{
		Repository: repo,
		BaseService: shared.BaseService{
			UserChecker: userChecker,
		},
	}
}

func (s *Service) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*Account, error) {
	if err := s.EnsureUserExists(ctx, req.UserId); err != nil {
		return nil, err
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	acc := &Account{
		Id:           pkg.GenerateULIDObject(),
		UserId:       req.UserId,
		Name:         strings.TrimSpace(req.Name),
		Type:         req.Type,
		Balance:      req.InitialBalance,
		Currency:     strings.ToUpper(req.Currency),
		InterestRate: req.InterestRate,
		IsDefault:    req.IsDefault,
		IsDeleted:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Repository.Create(ctx, acc); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return acc, nil
}

func (s *Service) UpdateAccount(ctx context.Context, accountID, userID ulid.ULID, req *UpdateAccountRequest) error {
	acc, err := s.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return appErrors.NewValidationError("name", "não pode ser vazio")
		}
		acc.Name = name
	}

	if req.Type != nil {
		if !req.Type.IsValid() {
			return appErrors.NewValidationError("type", "tipo de conta inválido")
		}
		acc.Type = *req.Type
	}

	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if money.GetCurrency(currency) == nil {
			return appErrors.NewValidationError("currency", "código de moeda inválido")
		}
		acc.Currency = currency
	}

	if req.InterestRate != nil {
		acc.InterestRate = req.InterestRate
	}

	if req.IsDefault != nil {
		acc.IsDefault = *req.IsDefault
	}

	acc.UpdatedAt = time.Now()

	return s.Repository.Update(ctx, acc)
}

// DeleteAccount marca a conta como removida; o registro permanece para auditoria.
func (s *Service) DeleteAccount(ctx context.Context, accountID, userID ulid.ULID) error {
	if _, err := s.GetAccountByID(ctx, accountID, userID); err != nil {
		return err
	}

	return s.Repository.SetDeleted(ctx, accountID, userID, true)
}

func (s *Service) RestoreAccount(ctx context.Context, accountID, userID ulid.ULID) error {
	acc, err := s.Repository.GetByIdIncludingDeleted(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErrors.ErrAccountNotFound
		}
		return appErrors.NewDatabaseError(err)
	}

	if !acc.IsDeleted {
		return appErrors.NewValidationError("account", "conta já está ativa")
	}

	return s.Repository.SetDeleted(ctx, accountID, userID, false)
}

// GetAccountByID resolve apenas contas ativas; soft-deletadas contam como ausentes.
func (s *Service) GetAccountByID(ctx context.Context, accountID, userID ulid.ULID) (*Account, error) {
	acc, err := s.Repository.GetById(ctx, accountID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrAccountNotFound
		}
		return nil, appErrors.NewDatabaseError(err)
	}

	if acc.UserId != userID {
		return nil, appErrors.ErrResourceNotOwned
	}

	return acc, nil
}

func (s *Service) ListAccounts(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Account, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.Repository.GetByUserId(ctx, userID, pagination)
}

// ListAllAccounts inclui contas soft-deletadas.
func (s *Service) ListAllAccounts(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Account, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	return s.Repository.GetAllByUserId(ctx, userID, pagination)
}

func (s *Service) validateCreateRequest(req *CreateAccountRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return appErrors.NewValidationError("name", "é obrigatório")
	}

	if !req.Type.IsValid() {
		return appErrors.NewValidationError("type", "tipo de conta inválido")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if money.GetCurrency(currency) == nil {
		return appErrors.NewValidationError("currency", "código de moeda inválido")
	}
	req.Currency = currency

	return nil
}

type CreateAccountRequest struct {
	UserId         ulid.ULID
	Name           string
	Type           AccountType
	InitialBalance decimal.Decimal
	Currency       string
	InterestRate   *decimal.Decimal
	IsDefault      bool
}

type UpdateAccountRequest struct {
	Name         *string
	Type         *AccountType
	Currency     *string
	InterestRate *decimal.Decimal
	IsDefault    *bool
}
