package category

import (
	"context"
	"errors"
	"time"

	"Finledger/internal/domain/shared"
	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
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

func (s *Service) Create(ctx context.Context, category *Category) error {
	if err := s.EnsureUserExists(ctx, category.UserId); err != nil {
		return err
	}

	category.Name = shared.NormalizeName(category.Name)
	if category.Name == "" {
		return appErrors.NewValidationError("name", "é obrigatório")
	}

	if err := s.checkNameNotExists(ctx, category.Name, category.UserId); err != nil {
		return err
	}

	category.Id = pkg.GenerateULIDObject()
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := s.Repository.Create(ctx, category); err != nil {
		if shared.IsUniqueConstraintError(err) {
			return appErrors.NewConflictError("categoria")
		}
		return appErrors.NewDatabaseError(err)
	}

	return nil
}

func (s *Service) GetByID(ctx context.Context, categoryID, userID ulid.ULID) (*Category, error) {
	category, err := s.Repository.GetByID(ctx, categoryID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrCategoryNotFound
	}
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	return category, nil
}

func (s *Service) List(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Category, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	categories, total, err := s.Repository.GetAll(ctx, userID, pagination)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return categories, total, nil
}

func (s *Service) Delete(ctx context.Context, categoryID, userID ulid.ULID) error {
	if _, err := s.GetByID(ctx, categoryID, userID); err != nil {
		return err
	}
	return s.Repository.Delete(ctx, categoryID, userID)
}

// Validate confirma que a categoria existe e pertence ao usuário.
func (s *Service) Validate(ctx context.Context, categoryID, userID ulid.ULID) error {
	_, err := s.GetByID(ctx, categoryID, userID)
	return err
}

func (s *Service) checkNameNotExists(ctx context.Context, name string, userID ulid.ULID) error {
	_, err := s.Repository.GetByName(ctx, name, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return appErrors.NewConflictError("categoria")
}
