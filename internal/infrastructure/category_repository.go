package infrastructure

import (
	"context"
	"time"

	"Finledger/internal/domain/category"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

type categoryDB struct {
	Id        string    `gorm:"type:varchar(26);primaryKey"`
	UserId    string    `gorm:"type:varchar(26);not null"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Icon      string    `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (categoryDB) TableName() string {
	return "categories"
}

func toDomainCategory(cdb *categoryDB) (*category.Category, error) {
	id, err := pkg.ParseULID(cdb.Id)
	if err != nil {
		return nil, err
	}

	userID, err := pkg.ParseULID(cdb.UserId)
	if err != nil {
		return nil, err
	}

	return &category.Category{
		Id:        id,
		UserId:    userID,
		Name:      cdb.Name,
		Icon:      cdb.Icon,
		CreatedAt: cdb.CreatedAt,
		UpdatedAt: cdb.UpdatedAt,
	}, nil
}

func toDBCategory(c *category.Category) *categoryDB {
	return &categoryDB{
		Id:        c.Id.String(),
		UserId:    c.UserId.String(),
		Name:      c.Name,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	cdb := toDBCategory(c)
	return r.DB.WithContext(ctx).Table("categories").Create(cdb).Error
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	cdb := toDBCategory(c)
	return r.DB.WithContext(ctx).Model(&categoryDB{}).
		Where("id = ? AND user_id = ?", cdb.Id, cdb.UserId).
		Updates(cdb).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID, userID ulid.ULID) error {
	return r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID.String(), userID.String()).
		Delete(&categoryDB{}).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, categoryID, userID ulid.ULID) (*category.Category, error) {
	var cdb categoryDB
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", categoryID.String(), userID.String()).
		First(&cdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&cdb)
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string, userID ulid.ULID) (*category.Category, error) {
	var cdb categoryDB
	err := r.DB.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND user_id = ?", name, userID.String()).
		First(&cdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&cdb)
}

func (r *CategoryRepository) GetAll(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*category.Category, int64, error) {
	query := r.DB.WithContext(ctx).Model(&categoryDB{}).
		Where("user_id = ?", userID.String())

	return pkg.Paginate[category.Category, categoryDB](query, pagination, "name ASC", toDomainCategory)
}
