package infrastructure

import (
	"context"
	"time"

	"Finledger/internal/domain/investment"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvestmentRepository struct {
	DB *gorm.DB
}

type investmentDB struct {
	Id             string          `gorm:"type:varchar(26);primaryKey"`
	UserId         string          `gorm:"type:varchar(26);index;not null"`
	Name           string          `gorm:"type:varchar(120);not null"`
	Type           string          `gorm:"type:varchar(20);not null"`
	AmountInvested decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CurrentValue   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PurchaseDate   time.Time       `gorm:"type:date;not null"`
	IsDeleted      bool            `gorm:"not null;default:false;index"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

func (investmentDB) TableName() string {
	return "investments"
}

type investmentHistoryDB struct {
	Id               string          `gorm:"type:varchar(26);primaryKey"`
	InvestmentId     string          `gorm:"type:varchar(26);index;not null"`
	Value            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	ReturnsGenerated decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Performance      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	RecordedAt       time.Time       `gorm:"not null;index"`
}

func (investmentHistoryDB) TableName() string {
	return "investment_histories"
}

func toDomainInvestment(idb *investmentDB) (*investment.Investment, error) {
	id, err := pkg.ParseULID(idb.Id)
	if err != nil {
		return nil, err
	}

	userID, err := pkg.ParseULID(idb.UserId)
	if err != nil {
		return nil, err
	}

	return &investment.Investment{
		Id:             id,
		UserId:         userID,
		Name:           idb.Name,
		Type:           investment.Type(idb.Type),
		AmountInvested: idb.AmountInvested,
		CurrentValue:   idb.CurrentValue,
		PurchaseDate:   idb.PurchaseDate,
		IsDeleted:      idb.IsDeleted,
		CreatedAt:      idb.CreatedAt,
		UpdatedAt:      idb.UpdatedAt,
	}, nil
}

func toDBInvestment(i *investment.Investment) *investmentDB {
	return &investmentDB{
		Id:             i.Id.String(),
		UserId:         i.UserId.String(),
		Name:           i.Name,
		Type:           string(i.Type),
		AmountInvested: i.AmountInvested,
		CurrentValue:   i.CurrentValue,
		PurchaseDate:   i.PurchaseDate,
		IsDeleted:      i.IsDeleted,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func toDomainHistory(hdb *investmentHistoryDB) (*investment.History, error) {
	id, err := pkg.ParseULID(hdb.Id)
	if err != nil {
		return nil, err
	}

	investmentID, err := pkg.ParseULID(hdb.InvestmentId)
	if err != nil {
		return nil, err
	}

	return &investment.History{
		Id:               id,
		InvestmentId:     investmentID,
		Value:            hdb.Value,
		ReturnsGenerated: hdb.ReturnsGenerated,
		Performance:      hdb.Performance,
		RecordedAt:       hdb.RecordedAt,
	}, nil
}

func toDBHistory(h *investment.History) *investmentHistoryDB {
	return &investmentHistoryDB{
		Id:               h.Id.String(),
		InvestmentId:     h.InvestmentId.String(),
		Value:            h.Value,
		ReturnsGenerated: h.ReturnsGenerated,
		Performance:      h.Performance,
		RecordedAt:       h.RecordedAt,
	}
}

func (r *InvestmentRepository) Create(ctx context.Context, i *investment.Investment) error {
	idb := toDBInvestment(i)
	return r.DB.WithContext(ctx).Table("investments").Create(idb).Error
}

func (r *InvestmentRepository) Update(ctx context.Context, i *investment.Investment) error {
	idb := toDBInvestment(i)
	return r.DB.WithContext(ctx).Model(&investmentDB{}).
		Where("id = ? AND user_id = ?", idb.Id, idb.UserId).
		Updates(idb).Error
}

func (r *InvestmentRepository) SetDeleted(ctx context.Context, investmentID, userID ulid.ULID, deleted bool) error {
	return r.DB.WithContext(ctx).Model(&investmentDB{}).
		Where("id = ? AND user_id = ?", investmentID.String(), userID.String()).
		Updates(map[string]interface{}{
			"is_deleted": deleted,
			"updated_at": time.Now(),
		}).Error
}

func (r *InvestmentRepository) GetById(ctx context.Context, investmentID, userID ulid.ULID) (*investment.Investment, error) {
	var idb investmentDB
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", investmentID.String(), userID.String(), false).
		First(&idb).Error
	if err != nil {
		return nil, err
	}
	return toDomainInvestment(&idb)
}

func (r *InvestmentRepository) GetByIdIncludingDeleted(ctx context.Context, investmentID, userID ulid.ULID) (*investment.Investment, error) {
	var idb investmentDB
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", investmentID.String(), userID.String()).
		First(&idb).Error
	if err != nil {
		return nil, err
	}
	return toDomainInvestment(&idb)
}

func (r *InvestmentRepository) GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*investment.Investment, int64, error) {
	query := r.DB.WithContext(ctx).Model(&investmentDB{}).
		Where("user_id = ? AND is_deleted = ?", userID.String(), false)

	return pkg.Paginate[investment.Investment, investmentDB](query, pagination, "created_at DESC", toDomainInvestment)
}

func (r *InvestmentRepository) GetAllActive(ctx context.Context) ([]*investment.Investment, error) {
	var rows []investmentDB

	err := r.DB.WithContext(ctx).
		Where("is_deleted = ?", false).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*investment.Investment, 0, len(rows))
	for i := range rows {
		inv, err := toDomainInvestment(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}

	return out, nil
}

// RecordValuation grava valor novo e linha de histórico na mesma transação de
// banco: ou ambos persistem, ou nenhum.
func (r *InvestmentRepository) RecordValuation(ctx context.Context, i *investment.Investment, h *investment.History) error {
	idb := toDBInvestment(i)
	hdb := toDBHistory(h)

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&investmentDB{}).
			Where("id = ? AND user_id = ?", idb.Id, idb.UserId).
			Updates(map[string]interface{}{
				"current_value": idb.CurrentValue,
				"updated_at":    idb.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}

		return tx.Table("investment_histories").Create(hdb).Error
	})
}

func (r *InvestmentRepository) CountHistory(ctx context.Context, investmentID ulid.ULID) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&investmentHistoryDB{}).
		Where("investment_id = ?", investmentID.String()).
		Count(&total).Error
	return total, err
}

func (r *InvestmentRepository) GetHistory(ctx context.Context, investmentID ulid.ULID, from, to *time.Time) ([]*investment.History, error) {
	query := r.DB.WithContext(ctx).
		Where("investment_id = ?", investmentID.String())

	if from != nil {
		query = query.Where("recorded_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("recorded_at <= ?", *to)
	}

	var rows []investmentHistoryDB
	if err := query.Order("recorded_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*investment.History, 0, len(rows))
	for i := range rows {
		h, err := toDomainHistory(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}

	return out, nil
}
