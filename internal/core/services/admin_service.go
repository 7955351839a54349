package services

import (
	"context"
	"errors"
	"time"

	"familybank/internal/adapters/persistence/models"
	"familybank/internal/adapters/persistence/repositories"
	"familybank/internal/core/domain"
	"familybank/internal/core/ledger"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminService serves the whole-membership views and record administration
type AdminService struct {
	memberRepo       repositories.MemberRepository
	contributionRepo repositories.ContributionRepository
	withdrawalRepo   repositories.WithdrawalRepository
	loanRepo         repositories.LoanRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	log              *logrus.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	memberRepo repositories.MemberRepository,
	contributionRepo repositories.ContributionRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	loanRepo repositories.LoanRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	log *logrus.Logger,
) *AdminService {
	return &AdminService{
		memberRepo:       memberRepo,
		contributionRepo: contributionRepo,
		withdrawalRepo:   withdrawalRepo,
		loanRepo:         loanRepo,
		refreshTokenRepo: refreshTokenRepo,
		log:              log,
	}
}

// MemberOverview is one member's full ledger view inside the admin overview
type MemberOverview struct {
	Member        *models.MemberResponse `json:"member"`
	Contributions []*models.Contribution `json:"contributions"`
	Withdrawals   []*models.Withdrawal   `json:"withdrawals"`
	Loans         []LoanView             `json:"loans"`
	Summary       ledger.BalanceSummary  `json:"summary"`
}

// Overview assembles the ledger view of every member, the admin's whole-fund
// picture
func (s *AdminService) Overview(ctx context.Context) ([]MemberOverview, error) {
	members, err := s.memberRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	overview := make([]MemberOverview, 0, len(members))
	for _, member := range members {
		contributions, err := s.contributionRepo.GetByMember(ctx, member.Username)
		if err != nil {
			return nil, err
		}
		withdrawals, err := s.withdrawalRepo.GetByMember(ctx, member.Username)
		if err != nil {
			return nil, err
		}
		loans, err := s.loanRepo.GetByMember(ctx, member.Username)
		if err != nil {
			return nil, err
		}

		overview = append(overview, MemberOverview{
			Member:        member.ToResponse(),
			Contributions: contributions,
			Withdrawals:   withdrawals,
			Loans:         projectLoans(loans, now),
			Summary:       summarize(contributions, withdrawals, loans),
		})
	}

	return overview, nil
}

// ============================================================
// Members
// ============================================================

// ListMembers lists members with pagination
func (s *AdminService) ListMembers(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	return s.memberRepo.List(ctx, offset, limit)
}

// GetMember gets a member by ID
func (s *AdminService) GetMember(ctx context.Context, id uint) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// UpdateMemberInput represents a member edit. Empty fields are left alone.
type UpdateMemberInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// UpdateMember edits a member's profile, role or status. Freezing a member
// also revokes their sessions.
func (s *AdminService) UpdateMember(ctx context.Context, id uint, input *UpdateMemberInput) (*models.Member, error) {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		member.Name = input.Name
	}
	if input.Email != "" {
		member.Email = input.Email
	}
	if input.Role != "" {
		if input.Role != string(domain.RoleMember) && input.Role != string(domain.RoleAdmin) {
			return nil, domain.ErrInvalidInput
		}
		member.Role = input.Role
	}
	if input.Status != "" {
		if input.Status != string(domain.MemberActive) && input.Status != string(domain.MemberFrozen) {
			return nil, domain.ErrInvalidInput
		}
		member.Status = input.Status
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	if member.Status == string(domain.MemberFrozen) {
		if err := s.refreshTokenRepo.RevokeAllByMemberID(ctx, member.ID); err != nil {
			return nil, err
		}
	}

	s.log.WithField("username", member.Username).Info("member updated")
	return member, nil
}

// DeleteMember removes a member together with all their records
func (s *AdminService) DeleteMember(ctx context.Context, id uint) error {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return err
	}

	if err := s.contributionRepo.DeleteByMember(ctx, member.Username); err != nil {
		return err
	}
	if err := s.withdrawalRepo.DeleteByMember(ctx, member.Username); err != nil {
		return err
	}
	if err := s.loanRepo.DeleteByMember(ctx, member.Username); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.RevokeAllByMemberID(ctx, member.ID); err != nil {
		return err
	}
	if err := s.memberRepo.Delete(ctx, member.ID); err != nil {
		return err
	}

	s.log.WithField("username", member.Username).Info("member deleted")
	return nil
}

// ============================================================
// Contributions
// ============================================================

// RecordInput represents a contribution or withdrawal entered by an admin
type RecordInput struct {
	Member string        `json:"member" validate:"required"`
	Amount domain.Amount `json:"amount" validate:"required"`
	Date   string        `json:"date"`
}

// CreateContribution records a weekly deposit for a member
func (s *AdminService) CreateContribution(ctx context.Context, input *RecordInput) (*models.Contribution, error) {
	if err := s.checkMemberExists(ctx, input.Member); err != nil {
		return nil, err
	}
	if input.Amount.Float() <= 0 {
		return nil, ErrAmountNotPositive
	}

	date, err := parseDateOrToday(input.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	contribution := &models.Contribution{
		Member: input.Member,
		Amount: input.Amount.Float(),
		Date:   date,
	}
	if err := s.contributionRepo.Create(ctx, contribution); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"member": input.Member,
		"amount": contribution.Amount,
	}).Info("contribution recorded")

	return contribution, nil
}

// UpdateRecordInput represents an amount/date edit on an existing record
type UpdateRecordInput struct {
	Amount domain.Amount `json:"amount"`
	Date   string        `json:"date"`
}

// UpdateContribution edits an existing contribution
func (s *AdminService) UpdateContribution(ctx context.Context, id uint, input *UpdateRecordInput) (*models.Contribution, error) {
	contribution, err := s.contributionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if input.Amount.Float() > 0 {
		contribution.Amount = input.Amount.Float()
	}
	if input.Date != "" {
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		contribution.Date = date
	}

	if err := s.contributionRepo.Update(ctx, contribution); err != nil {
		return nil, err
	}
	return contribution, nil
}

// DeleteContribution deletes a contribution
func (s *AdminService) DeleteContribution(ctx context.Context, id uint) error {
	if _, err := s.contributionRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return s.contributionRepo.Delete(ctx, id)
}

// ============================================================
// Withdrawals
// ============================================================

// CreateWithdrawal records a withdrawal for a member
func (s *AdminService) CreateWithdrawal(ctx context.Context, input *RecordInput) (*models.Withdrawal, error) {
	if err := s.checkMemberExists(ctx, input.Member); err != nil {
		return nil, err
	}
	if input.Amount.Float() <= 0 {
		return nil, ErrAmountNotPositive
	}

	date, err := parseDateOrToday(input.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	withdrawal := &models.Withdrawal{
		Member:    input.Member,
		Withdrawn: input.Amount.Float(),
		Date:      date,
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"member": input.Member,
		"amount": withdrawal.Withdrawn,
	}).Info("withdrawal recorded")

	return withdrawal, nil
}

// UpdateWithdrawal edits an existing withdrawal
func (s *AdminService) UpdateWithdrawal(ctx context.Context, id uint, input *UpdateRecordInput) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if input.Amount.Float() > 0 {
		withdrawal.Withdrawn = input.Amount.Float()
	}
	if input.Date != "" {
		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		withdrawal.Date = date
	}

	if err := s.withdrawalRepo.Update(ctx, withdrawal); err != nil {
		return nil, err
	}
	return withdrawal, nil
}

// DeleteWithdrawal deletes a withdrawal
func (s *AdminService) DeleteWithdrawal(ctx context.Context, id uint) error {
	if _, err := s.withdrawalRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return s.withdrawalRepo.Delete(ctx, id)
}

// checkMemberExists rejects records pointing at an unknown member.
func (s *AdminService) checkMemberExists(ctx context.Context, username string) error {
	exists, err := s.memberRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrMemberNotFound
	}
	return nil
}
