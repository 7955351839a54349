package repositories

import (
	"context"
	"time"

	"familybank/internal/adapters/persistence/models"
)

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByUsername(ctx context.Context, username string) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	ListAll(ctx context.Context) ([]*models.Member, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// ContributionRepository defines weekly contribution repository interface
type ContributionRepository interface {
	Create(ctx context.Context, c *models.Contribution) error
	GetByID(ctx context.Context, id uint) (*models.Contribution, error)
	GetByMember(ctx context.Context, username string) ([]*models.Contribution, error)
	Update(ctx context.Context, c *models.Contribution) error
	Delete(ctx context.Context, id uint) error
	DeleteByMember(ctx context.Context, username string) error
}

// WithdrawalRepository defines withdrawal repository interface
type WithdrawalRepository interface {
	Create(ctx context.Context, w *models.Withdrawal) error
	GetByID(ctx context.Context, id uint) (*models.Withdrawal, error)
	GetByMember(ctx context.Context, username string) ([]*models.Withdrawal, error)
	Update(ctx context.Context, w *models.Withdrawal) error
	Delete(ctx context.Context, id uint) error
	DeleteByMember(ctx context.Context, username string) error
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	GetByMember(ctx context.Context, username string) ([]*models.Loan, error)
	List(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id uint) error
	DeleteByMember(ctx context.Context, username string) error
}

// LoanPenaltyRepository defines applied-penalty ledger repository interface
type LoanPenaltyRepository interface {
	Create(ctx context.Context, p *models.LoanPenalty) error
	GetByLoanID(ctx context.Context, loanID uint) ([]*models.LoanPenalty, error)
	ExistsForDueDate(ctx context.Context, loanID uint, dueDate time.Time) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByMemberID(ctx context.Context, memberID uint) error
	DeleteExpired(ctx context.Context) error
}
