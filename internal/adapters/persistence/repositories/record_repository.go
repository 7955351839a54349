package repositories

import (
	"context"

	"familybank/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// contributionRepository implements ContributionRepository interface
type contributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository creates a new contribution repository
func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &contributionRepository{db: db}
}

// Create creates a new weekly contribution
func (r *contributionRepository) Create(ctx context.Context, c *models.Contribution) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// GetByID gets a contribution by ID
func (r *contributionRepository) GetByID(ctx context.Context, id uint) (*models.Contribution, error) {
	var c models.Contribution
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByMember gets all contributions for a member
func (r *contributionRepository) GetByMember(ctx context.Context, username string) ([]*models.Contribution, error) {
	var contributions []*models.Contribution
	err := r.db.WithContext(ctx).
		Where("member = ?", username).
		Order("date ASC").
		Find(&contributions).Error
	return contributions, err
}

// Update updates a contribution (admin edit)
func (r *contributionRepository) Update(ctx context.Context, c *models.Contribution) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete deletes a contribution
func (r *contributionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Contribution{}, id).Error
}

// DeleteByMember deletes all contributions owned by a member
func (r *contributionRepository) DeleteByMember(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Where("member = ?", username).Delete(&models.Contribution{}).Error
}

// withdrawalRepository implements WithdrawalRepository interface
type withdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

// Create creates a new withdrawal
func (r *withdrawalRepository) Create(ctx context.Context, w *models.Withdrawal) error {
	return r.db.WithContext(ctx).Create(w).Error
}

// GetByID gets a withdrawal by ID
func (r *withdrawalRepository) GetByID(ctx context.Context, id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByMember gets all withdrawals for a member
func (r *withdrawalRepository) GetByMember(ctx context.Context, username string) ([]*models.Withdrawal, error) {
	var withdrawals []*models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("member = ?", username).
		Order("date ASC").
		Find(&withdrawals).Error
	return withdrawals, err
}

// Update updates a withdrawal (admin edit)
func (r *withdrawalRepository) Update(ctx context.Context, w *models.Withdrawal) error {
	return r.db.WithContext(ctx).Save(w).Error
}

// Delete deletes a withdrawal
func (r *withdrawalRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Withdrawal{}, id).Error
}

// DeleteByMember deletes all withdrawals owned by a member
func (r *withdrawalRepository) DeleteByMember(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Where("member = ?", username).Delete(&models.Withdrawal{}).Error
}
