package infrastructure

import (
	"context"
	"time"

	"Finledger/internal/domain/budget"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BudgetRepository struct {
	DB *gorm.DB
}

type budgetDB struct {
	Id             string          `gorm:"type:varchar(26);primaryKey"`
	UserId         string          `gorm:"type:varchar(26);index;not null"`
	CategoryId     string          `gorm:"type:varchar(26);index;not null"`
	AmountLimit    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	StartDate      time.Time       `gorm:"type:date;not null"`
	EndDate        time.Time       `gorm:"type:date;not null"`
	BudgetType     string          `gorm:"type:varchar(10);not null"`
	RolloverAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Description    string          `gorm:"type:varchar(255)"`
	IsDeleted      bool            `gorm:"not null;default:false;index"`
	CreatedAt      time.Time       `gorm:"not null"`
}

func (budgetDB) TableName() string {
	return "budgets"
}

func toDomainBudget(bdb *budgetDB) (*budget.Budget, error) {
	id, err := pkg.ParseULID(bdb.Id)
	if err != nil {
		return nil, err
	}

	userID, err := pkg.ParseULID(bdb.UserId)
	if err != nil {
		return nil, err
	}

	categoryID, err := pkg.ParseULID(bdb.CategoryId)
	if err != nil {
		return nil, err
	}

	return &budget.Budget{
		Id:             id,
		UserId:         userID,
		CategoryId:     categoryID,
		AmountLimit:    bdb.AmountLimit,
		StartDate:      bdb.StartDate,
		EndDate:        bdb.EndDate,
		BudgetType:     budget.Type(bdb.BudgetType),
		RolloverAmount: bdb.RolloverAmount,
		Description:    bdb.Description,
		IsDeleted:      bdb.IsDeleted,
		CreatedAt:      bdb.CreatedAt,
	}, nil
}

func toDBBudget(b *budget.Budget) *budgetDB {
	return &budgetDB{
		Id:             b.Id.String(),
		UserId:         b.UserId.String(),
		CategoryId:     b.CategoryId.String(),
		AmountLimit:    b.AmountLimit,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		BudgetType:     string(b.BudgetType),
		RolloverAmount: b.RolloverAmount,
		Description:    b.Description,
		IsDeleted:      b.IsDeleted,
		CreatedAt:      b.CreatedAt,
	}
}

func (r *BudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	bdb := toDBBudget(b)
	return r.DB.WithContext(ctx).Table("budgets").Create(bdb).Error
}

func (r *BudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	bdb := toDBBudget(b)
	return r.DB.WithContext(ctx).Model(&budgetDB{}).
		Where("id = ? AND user_id = ?", bdb.Id, bdb.UserId).
		Updates(bdb).Error
}

func (r *BudgetRepository) SetDeleted(ctx context.Context, budgetID, userID ulid.ULID, deleted bool) error {
	return r.DB.WithContext(ctx).Model(&budgetDB{}).
		Where("id = ? AND user_id = ?", budgetID.String(), userID.String()).
		Update("is_deleted", deleted).Error
}

func (r *BudgetRepository) GetById(ctx context.Context, budgetID, userID ulid.ULID) (*budget.Budget, error) {
	var bdb budgetDB
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", budgetID.String(), userID.String(), false).
		First(&bdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainBudget(&bdb)
}

func (r *BudgetRepository) GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*budget.Budget, int64, error) {
	query := r.DB.WithContext(ctx).Model(&budgetDB{}).
		Where("user_id = ? AND is_deleted = ?", userID.String(), false)

	return pkg.Paginate[budget.Budget, budgetDB](query, pagination, "start_date DESC", toDomainBudget)
}

func (r *BudgetRepository) GetByCategory(ctx context.Context, categoryID, userID ulid.ULID) ([]*budget.Budget, error) {
	var rows []budgetDB

	err := r.DB.WithContext(ctx).
		Where("category_id = ? AND user_id = ? AND is_deleted = ?", categoryID.String(), userID.String(), false).
		Order("start_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*budget.Budget, 0, len(rows))
	for i := range rows {
		b, err := toDomainBudget(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, nil
}

func (r *BudgetRepository) FindFirstActive(ctx context.Context, userID, categoryID ulid.ULID, date time.Time) (*budget.Budget, error) {
	var bdb budgetDB
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND category_id = ? AND is_deleted = ?", userID.String(), categoryID.String(), false).
		Where("start_date <= ? AND end_date >= ?", date, date).
		First(&bdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainBudget(&bdb)
}
