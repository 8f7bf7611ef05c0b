package infrastructure

import (
	"context"
	"time"

	"Finledger/internal/domain/account"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountRepository struct {
	DB *gorm.DB
}

type accountDB struct {
	Id           string           `gorm:"type:varchar(26);primaryKey"`
	UserId       string           `gorm:"type:varchar(26);index;not null"`
	Name         string           `gorm:"type:varchar(100);not null"`
	Type         string           `gorm:"type:varchar(20);not null"`
	Balance      decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0"`
	Currency     string           `gorm:"type:varchar(3);not null;default:'USD'"`
	InterestRate *decimal.Decimal `gorm:"type:decimal(5,2)"`
	IsDefault    bool             `gorm:"not null;default:false"`
	IsDeleted    bool             `gorm:"not null;default:false;index"`
	CreatedAt    time.Time        `gorm:"not null"`
	UpdatedAt    time.Time        `gorm:"not null"`
}

func (accountDB) TableName() string {
	return "accounts"
}

func toDomainAccount(adb *accountDB) (*account.Account, error) {
	id, err := pkg.ParseULID(adb.Id)
	if err != nil {
		return nil, err
	}

	userID, err := pkg.ParseULID(adb.UserId)
	if err != nil {
		return nil, err
	}

	return &account.Account{
		Id:           id,
		UserId:       userID,
		Name:         adb.Name,
		Type:         account.AccountType(adb.Type),
		Balance:      adb.Balance,
		Currency:     adb.Currency,
		InterestRate: adb.InterestRate,
		IsDefault:    adb.IsDefault,
		IsDeleted:    adb.IsDeleted,
		CreatedAt:    adb.CreatedAt,
		UpdatedAt:    adb.UpdatedAt,
	}, nil
}

func toDBAccount(a *account.Account) *accountDB {
	return &accountDB{
		Id:           a.Id.String(),
		UserId:       a.UserId.String(),
		Name:         a.Name,
		Type:         string(a.Type),
		Balance:      a.Balance,
		Currency:     a.Currency,
		InterestRate: a.InterestRate,
		IsDefault:    a.IsDefault,
		IsDeleted:    a.IsDeleted,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	adb := toDBAccount(a)
	return r.DB.WithContext(ctx).Table("accounts").Create(adb).Error
}

func (r *AccountRepository) Update(ctx context.Context, a *account.Account) error {
	adb := toDBAccount(a)
	return r.DB.WithContext(ctx).Model(&accountDB{}).
		Where("id = ? AND user_id = ?", adb.Id, adb.UserId).
		Updates(adb).Error
}

func (r *AccountRepository) GetById(ctx context.Context, accountID, userID ulid.ULID) (*account.Account, error) {
	var adb accountDB
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", accountID.String(), userID.String(), false).
		First(&adb).Error
	if err != nil {
		return nil, err
	}
	return toDomainAccount(&adb)
}

func (r *AccountRepository) GetByIdIncludingDeleted(ctx context.Context, accountID, userID ulid.ULID) (*account.Account, error) {
	var adb accountDB
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", accountID.String(), userID.String()).
		First(&adb).Error
	if err != nil {
		return nil, err
	}
	return toDomainAccount(&adb)
}

func (r *AccountRepository) GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*account.Account, int64, error) {
	query := r.DB.WithContext(ctx).Model(&accountDB{}).
		Where("user_id = ? AND is_deleted = ?", userID.String(), false)

	return pkg.Paginate[account.Account, accountDB](query, pagination, "created_at DESC", toDomainAccount)
}

func (r *AccountRepository) GetAllByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*account.Account, int64, error) {
	query := r.DB.WithContext(ctx).Model(&accountDB{}).
		Where("user_id = ?", userID.String())

	return pkg.Paginate[account.Account, accountDB](query, pagination, "created_at DESC", toDomainAccount)
}

func (r *AccountRepository) SetDeleted(ctx context.Context, accountID, userID ulid.ULID, deleted bool) error {
	return r.DB.WithContext(ctx).Model(&accountDB{}).
		Where("id = ? AND user_id = ?", accountID.String(), userID.String()).
		Updates(map[string]interface{}{
			"is_deleted": deleted,
			"updated_at": time.Now(),
		}).Error
}
