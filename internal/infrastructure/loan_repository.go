package infrastructure

import (
	"context"
	"time"

	"Finledger/internal/domain/loan"
	"Finledger/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoanRepository struct {
	DB *gorm.DB
}

type loanDB struct {
	Id               string           `gorm:"type:varchar(26);primaryKey"`
	UserId           string           `gorm:"type:varchar(26);index;not null"`
	Description      string           `gorm:"type:varchar(255);not null"`
	PrincipalAmount  decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	RemainingBalance decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	InterestRate     *decimal.Decimal `gorm:"type:decimal(6,3)"`
	Status           string           `gorm:"type:varchar(10);not null;index"`
	NextPaymentDue   *time.Time       `gorm:"type:date;index"`
	IsDeleted        bool             `gorm:"not null;default:false"`
	CreatedAt        time.Time        `gorm:"not null"`
	UpdatedAt        time.Time        `gorm:"not null"`
}

func (loanDB) TableName() string {
	return "loans"
}

type loanPaymentDB struct {
	Id     string          `gorm:"type:varchar(26);primaryKey"`
	LoanId string          `gorm:"type:varchar(26);index;not null"`
	Amount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAt time.Time       `gorm:"not null"`
}

func (loanPaymentDB) TableName() string {
	return "loan_payments"
}

func toDomainLoan(ldb *loanDB) (*loan.Loan, error) {
	id, err := pkg.ParseULID(ldb.Id)
	if err != nil {
		return nil, err
	}

	userID, err := pkg.ParseULID(ldb.UserId)
	if err != nil {
		return nil, err
	}

	return &loan.Loan{
		Id:               id,
		UserId:           userID,
		Description:      ldb.Description,
		PrincipalAmount:  ldb.PrincipalAmount,
		RemainingBalance: ldb.RemainingBalance,
		InterestRate:     ldb.InterestRate,
		Status:           loan.Status(ldb.Status),
		NextPaymentDue:   ldb.NextPaymentDue,
		IsDeleted:        ldb.IsDeleted,
		CreatedAt:        ldb.CreatedAt,
		UpdatedAt:        ldb.UpdatedAt,
	}, nil
}

func toDBLoan(l *loan.Loan) *loanDB {
	return &loanDB{
		Id:               l.Id.String(),
		UserId:           l.UserId.String(),
		Description:      l.Description,
		PrincipalAmount:  l.PrincipalAmount,
		RemainingBalance: l.RemainingBalance,
		InterestRate:     l.InterestRate,
		Status:           string(l.Status),
		NextPaymentDue:   l.NextPaymentDue,
		IsDeleted:        l.IsDeleted,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func toDomainLoanPayment(pdb *loanPaymentDB) (*loan.Payment, error) {
	id, err := pkg.ParseULID(pdb.Id)
	if err != nil {
		return nil, err
	}

	loanID, err := pkg.ParseULID(pdb.LoanId)
	if err != nil {
		return nil, err
	}

	return &loan.Payment{
		Id:     id,
		LoanId: loanID,
		Amount: pdb.Amount,
		PaidAt: pdb.PaidAt,
	}, nil
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	ldb := toDBLoan(l)
	return r.DB.WithContext(ctx).Table("loans").Create(ldb).Error
}

func (r *LoanRepository) Update(ctx context.Context, l *loan.Loan) error {
	ldb := toDBLoan(l)
	return r.DB.WithContext(ctx).Model(&loanDB{}).
		Where("id = ? AND user_id = ?", ldb.Id, ldb.UserId).
		Updates(ldb).Error
}

func (r *LoanRepository) SetDeleted(ctx context.Context, loanID, userID ulid.ULID, deleted bool) error {
	return r.DB.WithContext(ctx).Model(&loanDB{}).
		Where("id = ? AND user_id = ?", loanID.String(), userID.String()).
		Updates(map[string]interface{}{
			"is_deleted": deleted,
			"updated_at": time.Now(),
		}).Error
}

func (r *LoanRepository) GetById(ctx context.Context, loanID, userID ulid.ULID) (*loan.Loan, error) {
	var ldb loanDB
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", loanID.String(), userID.String(), false).
		First(&ldb).Error
	if err != nil {
		return nil, err
	}
	return toDomainLoan(&ldb)
}

func (r *LoanRepository) GetByUserId(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*loan.Loan, int64, error) {
	query := r.DB.WithContext(ctx).Model(&loanDB{}).
		Where("user_id = ? AND is_deleted = ?", userID.String(), false)

	return pkg.Paginate[loan.Loan, loanDB](query, pagination, "created_at DESC", toDomainLoan)
}

// RecordPayment grava o pagamento e o novo estado do empréstimo na mesma
// transação de banco.
func (r *LoanRepository) RecordPayment(ctx context.Context, l *loan.Loan, p *loan.Payment) error {
	ldb := toDBLoan(l)
	pdb := &loanPaymentDB{
		Id:     p.Id.String(),
		LoanId: p.LoanId.String(),
		Amount: p.Amount,
		PaidAt: p.PaidAt,
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&loanDB{}).
			Where("id = ? AND user_id = ?", ldb.Id, ldb.UserId).
			Updates(map[string]interface{}{
				"remaining_balance": ldb.RemainingBalance,
				"status":            ldb.Status,
				"next_payment_due":  ldb.NextPaymentDue,
				"updated_at":        ldb.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}

		return tx.Table("loan_payments").Create(pdb).Error
	})
}

func (r *LoanRepository) GetPayments(ctx context.Context, loanID ulid.ULID) ([]*loan.Payment, error) {
	var rows []loanPaymentDB

	err := r.DB.WithContext(ctx).
		Where("loan_id = ?", loanID.String()).
		Order("paid_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*loan.Payment, 0, len(rows))
	for i := range rows {
		p, err := toDomainLoanPayment(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *LoanRepository) GetDueSoon(ctx context.Context, until time.Time) ([]*loan.Loan, error) {
	var rows []loanDB

	err := r.DB.WithContext(ctx).
		Where("status = ? AND is_deleted = ? AND next_payment_due IS NOT NULL AND next_payment_due <= ?",
			string(loan.StatusActive), false, until).
		Order("next_payment_due ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*loan.Loan, 0, len(rows))
	for i := range rows {
		l, err := toDomainLoan(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, nil
}
