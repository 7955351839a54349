// Package ledger computes derived financial figures from raw record sets:
// per-member balances, outstanding loan amounts and late-fee accrual.
// Every function is pure; persistence and auth live in the surrounding
// collaborators.
package ledger

import (
	"time"

	"familybank/internal/core/domain"
)

// Policy constants. Hardcoded product policy, no configuration surface yet.
const (
	// LateFeeRate is the flat penalty applied to the outstanding
	// principal of an overdue loan.
	LateFeeRate = 0.02

	// DefaultLoanTermDays is the repayment term granted at disbursement
	// when no explicit deadline is given.
	DefaultLoanTermDays = 30
)

// BalanceSummary holds the derived totals for one member.
type BalanceSummary struct {
	DepositsTotal    float64 `json:"depositsTotal"`
	WithdrawalsTotal float64 `json:"withdrawalsTotal"`
	LoansTotal       float64 `json:"loansTotal"`
	Balance          float64 `json:"balance"`
}

// Summarize computes a member's balance from their raw records.
// LoansTotal sums the borrowed amount, not net of repayment: repayments
// flow back into the fund and are settled per loan, so the balance counts
// the full amount lent out. Record order never affects the result.
func Summarize(contributions []domain.Contribution, withdrawals []domain.Withdrawal, loans []domain.Loan) BalanceSummary {
	var s BalanceSummary
	for _, c := range contributions {
		s.DepositsTotal += c.Amount
	}
	for _, w := range withdrawals {
		s.WithdrawalsTotal += w.Withdrawn
	}
	for _, l := range loans {
		s.LoansTotal += l.Borrowed
	}
	s.Balance = s.DepositsTotal - s.WithdrawalsTotal - s.LoansTotal
	return s
}

// LoanLeft returns the outstanding principal of a loan, never negative.
func LoanLeft(loan domain.Loan) float64 {
	left := loan.Borrowed - loan.Repayment
	if left < 0 {
		return 0
	}
	return left
}

// IsOverdue reports whether a loan is past its deadline and still open.
// Overdue is a derived condition, never a stored status.
func IsOverdue(loan domain.Loan, asOf time.Time) bool {
	if loan.Status != domain.LoanOngoing || loan.FinishDate == nil {
		return false
	}
	return loan.FinishDate.Before(asOf)
}

// LoanProjection is the read-time view of a single loan. Computing it
// twice with the same inputs yields the same result; nothing is persisted.
type LoanProjection struct {
	LoanLeft float64 `json:"loanLeft"`
	LateFee  float64 `json:"lateFee"`
	Overdue  bool    `json:"overdue"`
}

// Project computes the outstanding amount of a loan as of a reference
// time. Overdue loans carry a late fee of LateFeeRate on the outstanding
// principal, included in the returned LoanLeft. Closed loans never
// accrue fees.
func Project(loan domain.Loan, asOf time.Time) LoanProjection {
	p := LoanProjection{LoanLeft: LoanLeft(loan)}
	if IsOverdue(loan, asOf) {
		p.Overdue = true
		p.LateFee = p.LoanLeft * LateFeeRate
		p.LoanLeft += p.LateFee
	}
	return p
}

// PenaltyEntry records one applied late penalty. Stored as its own
// immutable record, its existence is the queryable fact that the penalty
// for this deadline has been charged.
type PenaltyEntry struct {
	LoanID            uint
	Fee               float64
	OutstandingBefore float64
	DueDate           time.Time
	AppliedAt         time.Time
}

// ApplyPenalty is the one-time state transition that folds the late fee
// into the loan's principal. It returns the updated loan, the penalty
// entry to persist, and whether anything was applied: loans that are not
// overdue, or that already carry a penalty, are returned unchanged with
// ok=false. Applying without this guard would compound the fee on every
// call.
func ApplyPenalty(loan domain.Loan, asOf time.Time) (domain.Loan, PenaltyEntry, bool) {
	if loan.PenaltyApplied || !IsOverdue(loan, asOf) {
		return loan, PenaltyEntry{}, false
	}

	outstanding := LoanLeft(loan)
	fee := outstanding * LateFeeRate

	entry := PenaltyEntry{
		LoanID:            loan.ID,
		Fee:               fee,
		OutstandingBefore: outstanding,
		DueDate:           *loan.FinishDate,
		AppliedAt:         asOf,
	}

	loan.Borrowed += fee
	loan.PenaltyApplied = true
	return loan, entry, true
}

// DefaultFinishDate returns the repayment deadline for a loan disbursed
// on the given date under the default term.
func DefaultFinishDate(dateTaken time.Time) time.Time {
	return dateTaken.AddDate(0, 0, DefaultLoanTermDays)
}
