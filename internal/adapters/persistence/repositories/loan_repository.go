package repositories

import (
	"context"
	"time"

	"familybank/internal/adapters/persistence/models"
	"familybank/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetByMember gets all loans for a member
func (r *loanRepository) GetByMember(ctx context.Context, username string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("member = ?", username).
		Order("date_taken ASC").
		Find(&loans).Error
	return loans, err
}

// List lists loans with pagination
func (r *loanRepository) List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	var loans []*models.Loan
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Loan{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("date_taken DESC").
		Offset(offset).
		Limit(limit).
		Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// ListOverdue lists ongoing loans whose deadline has passed and that do
// not yet carry a penalty. Feeds the nightly penalty sweep.
func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.LoanOngoing)).
		Where("finish_date IS NOT NULL").
		Where("finish_date < ?", asOf).
		Where("penalty_applied = ?", false).
		Find(&loans).Error
	return loans, err
}

// Update updates a loan
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// Delete soft deletes a loan
func (r *loanRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Loan{}, id).Error
}

// DeleteByMember soft deletes all loans owned by a member
func (r *loanRepository) DeleteByMember(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Where("member = ?", username).Delete(&models.Loan{}).Error
}

// loanPenaltyRepository implements LoanPenaltyRepository interface
type loanPenaltyRepository struct {
	db *gorm.DB
}

// NewLoanPenaltyRepository creates a new loan penalty repository
func NewLoanPenaltyRepository(db *gorm.DB) LoanPenaltyRepository {
	return &loanPenaltyRepository{db: db}
}

// Create inserts an applied-penalty entry. The unique index on
// (loan_id, due_date) makes concurrent double application fail here
// instead of silently compounding.
func (r *loanPenaltyRepository) Create(ctx context.Context, p *models.LoanPenalty) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByLoanID gets all penalty entries for a loan
func (r *loanPenaltyRepository) GetByLoanID(ctx context.Context, loanID uint) ([]*models.LoanPenalty, error) {
	var penalties []*models.LoanPenalty
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("applied_at ASC").
		Find(&penalties).Error
	return penalties, err
}

// ExistsForDueDate checks whether a penalty has been charged for this
// loan and deadline
func (r *loanPenaltyRepository) ExistsForDueDate(ctx context.Context, loanID uint, dueDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LoanPenalty{}).
		Where("loan_id = ? AND due_date = ?", loanID, dueDate).
		Count(&count).Error
	return count > 0, err
}
