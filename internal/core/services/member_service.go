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

// Member errors
var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
)

// MemberService serves the member-facing ledger views and record intake
type MemberService struct {
	memberRepo       repositories.MemberRepository
	contributionRepo repositories.ContributionRepository
	withdrawalRepo   repositories.WithdrawalRepository
	loanRepo         repositories.LoanRepository
	log              *logrus.Logger
}

// NewMemberService creates a new member service
func NewMemberService(
	memberRepo repositories.MemberRepository,
	contributionRepo repositories.ContributionRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	loanRepo repositories.LoanRepository,
	log *logrus.Logger,
) *MemberService {
	return &MemberService{
		memberRepo:       memberRepo,
		contributionRepo: contributionRepo,
		withdrawalRepo:   withdrawalRepo,
		loanRepo:         loanRepo,
		log:              log,
	}
}

// LoanView is a loan record joined with its derived figures
type LoanView struct {
	models.Loan
	ledger.LoanProjection
}

// MemberData is the full ledger view for one member
type MemberData struct {
	Member        *models.MemberResponse `json:"member"`
	Contributions []*models.Contribution `json:"contributions"`
	Withdrawals   []*models.Withdrawal   `json:"withdrawals"`
	Loans         []LoanView             `json:"loans"`
	Summary       ledger.BalanceSummary  `json:"summary"`
}

// GetMemberData assembles a member's records, balance summary and loan
// projections as of now
func (s *MemberService) GetMemberData(ctx context.Context, username string) (*MemberData, error) {
	member, err := s.memberRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	contributions, err := s.contributionRepo.GetByMember(ctx, username)
	if err != nil {
		return nil, err
	}

	withdrawals, err := s.withdrawalRepo.GetByMember(ctx, username)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.GetByMember(ctx, username)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &MemberData{
		Member:        member.ToResponse(),
		Contributions: contributions,
		Withdrawals:   withdrawals,
		Loans:         projectLoans(loans, now),
		Summary:       summarize(contributions, withdrawals, loans),
	}, nil
}

// WithdrawInput represents a withdrawal request
type WithdrawInput struct {
	Amount domain.Amount `json:"amount" validate:"required"`
	Date   string        `json:"date"`
}

// Withdraw records a withdrawal for the member. Date defaults to today.
func (s *MemberService) Withdraw(ctx context.Context, username string, input *WithdrawInput) (*models.Withdrawal, error) {
	if input.Amount.Float() <= 0 {
		return nil, ErrAmountNotPositive
	}

	date, err := parseDateOrToday(input.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	withdrawal := &models.Withdrawal{
		Member:    username,
		Withdrawn: input.Amount.Float(),
		Date:      date,
	}

	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"member": username,
		"amount": withdrawal.Withdrawn,
	}).Info("withdrawal recorded")

	return withdrawal, nil
}

// RequestLoanInput represents a loan request
type RequestLoanInput struct {
	Amount domain.Amount `json:"amount" validate:"required"`
}

// RequestLoan opens a loan application. Nothing is borrowed yet; the
// requested amount waits for an admin to disburse it.
func (s *MemberService) RequestLoan(ctx context.Context, username string, input *RequestLoanInput) (*models.Loan, error) {
	if input.Amount.Float() <= 0 {
		return nil, ErrAmountNotPositive
	}

	loan := &models.Loan{
		Member:        username,
		LoanRequested: input.Amount.Float(),
		Borrowed:      0,
		Repayment:     0,
		DateTaken:     time.Now(),
		Status:        string(domain.LoanOngoing),
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"member":    username,
		"requested": loan.LoanRequested,
		"loan_id":   loan.ID,
	}).Info("loan requested")

	return loan, nil
}

// projectLoans joins each loan with its derived figures as of the given time.
func projectLoans(loans []*models.Loan, asOf time.Time) []LoanView {
	views := make([]LoanView, 0, len(loans))
	for _, l := range loans {
		views = append(views, LoanView{
			Loan:           *l,
			LoanProjection: ledger.Project(l.ToDomain(), asOf),
		})
	}
	return views
}

// summarize converts the stored records and feeds them to the ledger engine.
func summarize(contributions []*models.Contribution, withdrawals []*models.Withdrawal, loans []*models.Loan) ledger.BalanceSummary {
	dc := make([]domain.Contribution, 0, len(contributions))
	for _, c := range contributions {
		dc = append(dc, c.ToDomain())
	}
	dw := make([]domain.Withdrawal, 0, len(withdrawals))
	for _, w := range withdrawals {
		dw = append(dw, w.ToDomain())
	}
	dl := make([]domain.Loan, 0, len(loans))
	for _, l := range loans {
		dl = append(dl, l.ToDomain())
	}
	return ledger.Summarize(dc, dw, dl)
}

// parseDateOrToday parses a YYYY-MM-DD date, defaulting to today when empty.
func parseDateOrToday(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", raw)
}
