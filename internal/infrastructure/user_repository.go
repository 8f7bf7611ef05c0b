package infrastructure

import (
	"context"
	"errors"
	"time"

	"Finledger/internal/domain/user"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

type userDB struct {
	Id        string    `gorm:"type:varchar(26);primaryKey"`
	Name      string    `gorm:"type:varchar(120);not null"`
	Email     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Phone     string    `gorm:"type:varchar(20)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (userDB) TableName() string {
	return "users"
}

func toDomainUser(udb *userDB) (*user.User, error) {
	id, err := pkg.ParseULID(udb.Id)
	if err != nil {
		return nil, err
	}

	return &user.User{
		Id:        id,
		Name:      udb.Name,
		Email:     udb.Email,
		Phone:     udb.Phone,
		CreatedAt: udb.CreatedAt,
		UpdatedAt: udb.UpdatedAt,
	}, nil
}

func toDBUser(u *user.User) *userDB {
	return &userDB{
		Id:        u.Id.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	udb := toDBUser(u)
	return r.DB.WithContext(ctx).Table("users").Create(udb).Error
}

func (r *UserRepository) GetById(ctx context.Context, userID ulid.ULID) (*user.User, error) {
	var udb userDB
	err := r.DB.WithContext(ctx).Where("id = ?", userID.String()).First(&udb).Error
	if err != nil {
		return nil, err
	}
	return toDomainUser(&udb)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var udb userDB
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&udb).Error
	if err != nil {
		return nil, err
	}
	return toDomainUser(&udb)
}

func (r *UserRepository) Exists(ctx context.Context, userID ulid.ULID) (bool, error) {
	var udb userDB
	err := r.DB.WithContext(ctx).Select("id").Where("id = ?", userID.String()).First(&udb).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
