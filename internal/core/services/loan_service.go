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

// LoanService drives loan state transitions through the ledger engine
type LoanService struct {
	loanRepo    repositories.LoanRepository
	penaltyRepo repositories.LoanPenaltyRepository
	log         *logrus.Logger
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	penaltyRepo repositories.LoanPenaltyRepository,
	log *logrus.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:    loanRepo,
		penaltyRepo: penaltyRepo,
		log:         log,
	}
}

// DisburseInput represents a disbursement
type DisburseInput struct {
	Amount     domain.Amount `json:"amount" validate:"required"`
	FinishDate string        `json:"finishDate"`
}

// Disburse hands the money out on an open loan. The repayment deadline
// defaults to the disbursement date plus the standard term.
func (s *LoanService) Disburse(ctx context.Context, loanID uint, input *DisburseInput) (*models.Loan, error) {
	loan, err := s.getOpenLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if input.Amount.Float() <= 0 {
		return nil, ErrAmountNotPositive
	}

	now := time.Now()
	finishDate := ledger.DefaultFinishDate(now)
	if input.FinishDate != "" {
		finishDate, err = time.Parse("2006-01-02", input.FinishDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}

	loan.Borrowed += input.Amount.Float()
	loan.DateTaken = now
	loan.FinishDate = &finishDate

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":  loan.ID,
		"member":   loan.Member,
		"borrowed": loan.Borrowed,
		"deadline": finishDate.Format("2006-01-02"),
	}).Info("loan disbursed")

	return loan, nil
}

// RepaymentInput represents a repayment
type RepaymentInput struct {
	Amount domain.Amount `json:"amount" validate:"required"`
}

// AddRepayment adds to the cumulative repayment on an open loan. When the
// repayment covers the borrowed amount the loan closes as repaid.
func (s *LoanService) AddRepayment(ctx context.Context, loanID uint, input *RepaymentInput) (*models.Loan, error) {
	loan, err := s.getOpenLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if input.Amount.Float() <= 0 {
		return nil, ErrAmountNotPositive
	}

	if loan.Borrowed <= 0 {
		return nil, domain.ErrLoanNotDisbursed
	}

	loan.Repayment += input.Amount.Float()

	if ledger.LoanLeft(loan.ToDomain()) == 0 {
		now := time.Now()
		loan.Status = string(domain.LoanRepaid)
		loan.RepaidAt = &now
	}

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id":   loan.ID,
		"member":    loan.Member,
		"repayment": loan.Repayment,
		"status":    loan.Status,
	}).Info("repayment recorded")

	return loan, nil
}

// MarkRepaid closes an open loan regardless of the amounts on it
func (s *LoanService) MarkRepaid(ctx context.Context, loanID uint) (*models.Loan, error) {
	loan, err := s.getOpenLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	loan.Status = string(domain.LoanRepaid)
	loan.RepaidAt = &now

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id": loan.ID,
		"member":  loan.Member,
	}).Info("loan marked repaid")

	return loan, nil
}

// Reject declines a loan application that was never disbursed
func (s *LoanService) Reject(ctx context.Context, loanID uint) (*models.Loan, error) {
	loan, err := s.getOpenLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.Borrowed > 0 {
		return nil, domain.ErrInvalidInput
	}

	loan.Status = string(domain.LoanRejected)

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id": loan.ID,
		"member":  loan.Member,
	}).Info("loan rejected")

	return loan, nil
}

// GetLoan gets a loan by ID
func (s *LoanService) GetLoan(ctx context.Context, loanID uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// ListLoans lists loans with pagination
func (s *LoanService) ListLoans(ctx context.Context, offset, limit int) ([]*models.Loan, int64, error) {
	return s.loanRepo.List(ctx, offset, limit)
}

// ApplyLatePenalty charges the one-time late fee on an overdue loan. A
// penalty ledger row already existing for the loan's deadline means the
// fee was charged before; the call then fails instead of compounding it.
func (s *LoanService) ApplyLatePenalty(ctx context.Context, loanID uint, asOf time.Time) (*models.Loan, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	updated, entry, ok := ledger.ApplyPenalty(loan.ToDomain(), asOf)
	if !ok {
		if loan.PenaltyApplied {
			return nil, domain.ErrPenaltyApplied
		}
		return nil, domain.ErrPenaltyNotDue
	}

	exists, err := s.penaltyRepo.ExistsForDueDate(ctx, loan.ID, entry.DueDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrPenaltyApplied
	}

	penalty := &models.LoanPenalty{
		LoanID:            entry.LoanID,
		DueDate:           entry.DueDate,
		Fee:               entry.Fee,
		OutstandingBefore: entry.OutstandingBefore,
		AppliedAt:         entry.AppliedAt,
	}
	if err := s.penaltyRepo.Create(ctx, penalty); err != nil {
		return nil, err
	}

	loan.ApplyDomain(updated)
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"loan_id": loan.ID,
		"member":  loan.Member,
		"fee":     entry.Fee,
	}).Info("late penalty applied")

	return loan, nil
}

// ScanOverdue applies the late penalty to every overdue loan that has not
// been charged yet. Returns how many penalties were applied; per-loan
// failures are logged and skipped so one bad row never stops the sweep.
func (s *LoanService) ScanOverdue(ctx context.Context, asOf time.Time) (int, error) {
	loans, err := s.loanRepo.ListOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, loan := range loans {
		if _, err := s.ApplyLatePenalty(ctx, loan.ID, asOf); err != nil {
			if errors.Is(err, domain.ErrPenaltyApplied) || errors.Is(err, domain.ErrPenaltyNotDue) {
				continue
			}
			s.log.WithError(err).WithField("loan_id", loan.ID).Error("penalty sweep failed for loan")
			continue
		}
		applied++
	}

	return applied, nil
}

// getOpenLoan loads a loan and rejects any transition on a closed one.
func (s *LoanService) getOpenLoan(ctx context.Context, loanID uint) (*models.Loan, error) {
	loan, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != string(domain.LoanOngoing) {
		return nil, domain.ErrLoanClosed
	}
	return loan, nil
}
