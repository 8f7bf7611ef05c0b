package infrastructure

import (
	"context"
	"time"

	"Finledger/internal/domain/ledger"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	DB *gorm.DB
}

type transactionDB struct {
	Id                   string          `gorm:"type:varchar(26);primaryKey"`
	UserId               string          `gorm:"type:varchar(26);index;not null"`
	AccountId            string          `gorm:"type:varchar(26);index;not null"`
	DestinationAccountId *string         `gorm:"type:varchar(26);index"`
	CategoryId           *string         `gorm:"type:varchar(26);index"`
	Amount               decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type                 string          `gorm:"type:varchar(10);not null;index"`
	Status               string          `gorm:"type:varchar(10);not null"`
	PaymentMethod        string          `gorm:"type:varchar(30)"`
	Description          string          `gorm:"type:varchar(255)"`
	IsRecurring          bool            `gorm:"not null;default:false;index"`
	RecurrenceInterval   *string         `gorm:"type:varchar(10)"`
	NextDueDate          *time.Time      `gorm:"index"`
	ParentTransactionId  *string         `gorm:"type:varchar(26);index"`
	IsDeleted            bool            `gorm:"not null;default:false"`
	CreatedAt            time.Time       `gorm:"not null;index"`
	UpdatedAt            time.Time       `gorm:"not null"`
}

func (transactionDB) TableName() string {
	return "transactions"
}

func toDomainTransaction(tdb *transactionDB) (*ledger.Transaction, error) {
	id, err := pkg.ParseULID(tdb.Id)
	if err != nil {
		return nil, err
	}

	userID, err := pkg.ParseULID(tdb.UserId)
	if err != nil {
		return nil, err
	}

	accountID, err := pkg.ParseULID(tdb.AccountId)
	if err != nil {
		return nil, err
	}

	destinationID, err := pkg.ParseULIDPtr(tdb.DestinationAccountId)
	if err != nil {
		return nil, err
	}

	categoryID, err := pkg.ParseULIDPtr(tdb.CategoryId)
	if err != nil {
		return nil, err
	}

	parentID, err := pkg.ParseULIDPtr(tdb.ParentTransactionId)
	if err != nil {
		return nil, err
	}

	var interval *ledger.Interval
	if tdb.RecurrenceInterval != nil && *tdb.RecurrenceInterval != "" {
		i := ledger.Interval(*tdb.RecurrenceInterval)
		interval = &i
	}

	return &ledger.Transaction{
		Id:                   id,
		UserId:               userID,
		AccountId:            accountID,
		DestinationAccountId: destinationID,
		CategoryId:           categoryID,
		Amount:               tdb.Amount,
		Type:                 ledger.Types(tdb.Type),
		Status:               ledger.Status(tdb.Status),
		PaymentMethod:        tdb.PaymentMethod,
		Description:          tdb.Description,
		IsRecurring:          tdb.IsRecurring,
		RecurrenceInterval:   interval,
		NextDueDate:          tdb.NextDueDate,
		ParentTransactionId:  parentID,
		IsDeleted:            tdb.IsDeleted,
		CreatedAt:            tdb.CreatedAt,
		UpdatedAt:            tdb.UpdatedAt,
	}, nil
}

func toDBTransaction(t *ledger.Transaction) *transactionDB {
	var destinationID, categoryID, parentID, interval *string
	if t.DestinationAccountId != nil {
		s := t.DestinationAccountId.String()
		destinationID = &s
	}
	if t.CategoryId != nil {
		s := t.CategoryId.String()
		categoryID = &s
	}
	if t.ParentTransactionId != nil {
		s := t.ParentTransactionId.String()
		parentID = &s
	}
	if t.RecurrenceInterval != nil {
		s := string(*t.RecurrenceInterval)
		interval = &s
	}

	return &transactionDB{
		Id:                   t.Id.String(),
		UserId:               t.UserId.String(),
		AccountId:            t.AccountId.String(),
		DestinationAccountId: destinationID,
		CategoryId:           categoryID,
		Amount:               t.Amount,
		Type:                 string(t.Type),
		Status:               string(t.Status),
		PaymentMethod:        t.PaymentMethod,
		Description:          t.Description,
		IsRecurring:          t.IsRecurring,
		RecurrenceInterval:   interval,
		NextDueDate:          t.NextDueDate,
		ParentTransactionId:  parentID,
		IsDeleted:            t.IsDeleted,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// Post grava a transação e aplica cada mutação de saldo dentro de uma única
// transação de banco. Rollback em qualquer falha: nenhuma escrita parcial.
func (r *TransactionRepository) Post(ctx context.Context, t *ledger.Transaction, entries ...ledger.BalanceEntry) error {
	tdb := toDBTransaction(t)

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("transactions").Create(tdb).Error; err != nil {
			return err
		}

		for _, entry := range entries {
			err := tx.Model(&accountDB{}).
				Where("id = ?", entry.AccountId.String()).
				Updates(map[string]interface{}{
					"balance":    gorm.Expr("balance + ?", entry.Delta),
					"updated_at": time.Now(),
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *TransactionRepository) Update(ctx context.Context, t *ledger.Transaction) error {
	tdb := toDBTransaction(t)
	return r.DB.WithContext(ctx).Model(&transactionDB{}).
		Where("id = ? AND user_id = ?", tdb.Id, tdb.UserId).
		Updates(tdb).Error
}

func (r *TransactionRepository) SetDeleted(ctx context.Context, transactionID, userID ulid.ULID, deleted bool) error {
	return r.DB.WithContext(ctx).Model(&transactionDB{}).
		Where("id = ? AND user_id = ?", transactionID.String(), userID.String()).
		Updates(map[string]interface{}{
			"is_deleted": deleted,
			"updated_at": time.Now(),
		}).Error
}

func (r *TransactionRepository) GetByIdAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*ledger.Transaction, error) {
	var tdb transactionDB
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", transactionID.String(), userID.String(), false).
		First(&tdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainTransaction(&tdb)
}

func (r *TransactionRepository) GetAll(ctx context.Context, userID ulid.ULID, accountID *ulid.ULID, pagination *pkg.PaginationParams) ([]*ledger.Transaction, int64, error) {
	query := r.DB.WithContext(ctx).Model(&transactionDB{}).
		Where("user_id = ? AND is_deleted = ?", userID.String(), false)

	if accountID != nil {
		query = query.Where("account_id = ? OR destination_account_id = ?", accountID.String(), accountID.String())
	}

	return pkg.Paginate[ledger.Transaction, transactionDB](query, pagination, "created_at DESC", toDomainTransaction)
}

func (r *TransactionRepository) GetByType(ctx context.Context, userID ulid.ULID, transactionType ledger.Types, pagination *pkg.PaginationParams) ([]*ledger.Transaction, int64, error) {
	query := r.DB.WithContext(ctx).Model(&transactionDB{}).
		Where("user_id = ? AND type = ? AND is_deleted = ?", userID.String(), string(transactionType), false)

	return pkg.Paginate[ledger.Transaction, transactionDB](query, pagination, "created_at DESC", toDomainTransaction)
}

func (r *TransactionRepository) GetByCategory(ctx context.Context, categoryID, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*ledger.Transaction, int64, error) {
	query := r.DB.WithContext(ctx).Model(&transactionDB{}).
		Where("category_id = ? AND user_id = ? AND is_deleted = ?", categoryID.String(), userID.String(), false)

	return pkg.Paginate[ledger.Transaction, transactionDB](query, pagination, "created_at DESC", toDomainTransaction)
}

func (r *TransactionRepository) SumCompletedWithdrawals(ctx context.Context, userID, categoryID ulid.ULID, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := r.DB.WithContext(ctx).Model(&transactionDB{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND type = ? AND status = ? AND is_deleted = ?",
			userID.String(), categoryID.String(), string(ledger.Withdrawal), string(ledger.StatusCompleted), false).
		Where("created_at BETWEEN ? AND ?", start, end).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

func (r *TransactionRepository) GetDueRecurring(ctx context.Context, now time.Time) ([]*ledger.Transaction, error) {
	var rows []transactionDB

	err := r.DB.WithContext(ctx).
		Where("is_recurring = ? AND is_deleted = ? AND next_due_date IS NOT NULL AND next_due_date <= ?", true, false, now).
		Order("next_due_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*ledger.Transaction, 0, len(rows))
	for i := range rows {
		t, err := toDomainTransaction(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}

	return out, nil
}

// AdvanceNextDue só avança se o vencimento atual ainda for o esperado, para que
// processamentos concorrentes do mesmo modelo materializem uma única ocorrência.
func (r *TransactionRepository) AdvanceNextDue(ctx context.Context, transactionID ulid.ULID, expectedDue, nextDue time.Time) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&transactionDB{}).
		Where("id = ? AND next_due_date = ?", transactionID.String(), expectedDue).
		Updates(map[string]interface{}{
			"next_due_date": nextDue,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
