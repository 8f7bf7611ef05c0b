package user

import (
	"context"
	"errors"
	"strings"

	appErrors "Finledger/internal/errors"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// A identidade chega verificada pelo gateway; este serviço só resolve o registro local
// do usuário para checagens de posse.
type Service struct {
	Repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

func (s *Service) Register(ctx context.Context, u *User) error {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return appErrors.NewValidationError("name", "é obrigatório")
	}

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return appErrors.NewValidationError("email", "é obrigatório")
	}

	if existing, err := s.Repository.GetByEmail(ctx, u.Email); err == nil && existing != nil {
		return appErrors.NewConflictError("usuário")
	}

	u.Id = pkg.GenerateULIDObject()
	now := pkg.SetTimestamps()
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.Repository.Create(ctx, u); err != nil {
		return appErrors.NewDatabaseError(err)
	}

	return nil
}

func (s *Service) GetByID(ctx context.Context, userID ulid.ULID) (*User, error) {
	u, err := s.Repository.GetById(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return u, nil
}

func (s *Service) Exists(ctx context.Context, userID ulid.ULID) error {
	ok, err := s.Repository.Exists(ctx, userID)
	if err != nil {
		return appErrors.NewDatabaseError(err)
	}
	if !ok {
		return appErrors.ErrUserNotFound
	}
	return nil
}
