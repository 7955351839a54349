package ledger

import (
	"math"
	"testing"
	"time"

	"familybank/internal/core/domain"
)

func datePtr(t time.Time) *time.Time {
	return &t
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	contribs := []domain.Contribution{
		{Member: "alice", Amount: 50},
		{Member: "alice", Amount: 50},
	}
	withdrawals := []domain.Withdrawal{
		{Member: "alice", Withdrawn: 20},
	}
	loans := []domain.Loan{
		{Member: "alice", Borrowed: 30, Repayment: 10, Status: domain.LoanOngoing},
	}

	s := Summarize(contribs, withdrawals, loans)
	if s.DepositsTotal != 100 || s.WithdrawalsTotal != 20 || s.LoansTotal != 30 {
		t.Fatalf("totals = %+v", s)
	}
	// Balance counts full borrowed amount, not net of repayment.
	if s.Balance != 50 {
		t.Fatalf("balance = %v, want 50", s.Balance)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, nil)
	if s != (BalanceSummary{}) {
		t.Fatalf("empty summary = %+v, want all zeros", s)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	contribs := []domain.Contribution{{Amount: 10}, {Amount: 25.5}, {Amount: 7}}
	reversed := []domain.Contribution{{Amount: 7}, {Amount: 25.5}, {Amount: 10}}

	a := Summarize(contribs, nil, nil)
	b := Summarize(reversed, nil, nil)
	if a != b {
		t.Fatalf("permuted inputs changed result: %+v vs %+v", a, b)
	}
}

func TestLoanLeft(t *testing.T) {
	tests := []struct {
		name             string
		borrowed, repaid float64
		want             float64
	}{
		{"partially repaid", 100, 30, 70},
		{"untouched", 100, 0, 100},
		{"fully repaid", 100, 100, 0},
		{"overpaid clamps to zero", 100, 120, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := domain.Loan{Borrowed: tt.borrowed, Repayment: tt.repaid}
			if got := LoanLeft(loan); got != tt.want {
				t.Errorf("LoanLeft = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tests := []struct {
		name string
		loan domain.Loan
		want bool
	}{
		{"past deadline, ongoing", domain.Loan{Status: domain.LoanOngoing, FinishDate: datePtr(yesterday)}, true},
		{"future deadline", domain.Loan{Status: domain.LoanOngoing, FinishDate: datePtr(tomorrow)}, false},
		{"no deadline", domain.Loan{Status: domain.LoanOngoing}, false},
		{"repaid loan never overdue", domain.Loan{Status: domain.LoanRepaid, FinishDate: datePtr(yesterday)}, false},
		{"deadline exactly now", domain.Loan{Status: domain.LoanOngoing, FinishDate: datePtr(now)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.loan, now); got != tt.want {
				t.Errorf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectOverdueLoan(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	loan := domain.Loan{
		Borrowed:   100,
		Repayment:  0,
		Status:     domain.LoanOngoing,
		FinishDate: datePtr(now.AddDate(0, 0, -1)),
	}

	p := Project(loan, now)
	if !p.Overdue {
		t.Fatal("expected overdue projection")
	}
	if !almostEqual(p.LateFee, 2.0) {
		t.Errorf("lateFee = %v, want 2.0", p.LateFee)
	}
	if !almostEqual(p.LoanLeft, 102.0) {
		t.Errorf("loanLeft = %v, want 102.0", p.LoanLeft)
	}
}

func TestProjectRepaidLoanNoFee(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	loan := domain.Loan{
		Borrowed:   100,
		Repayment:  0,
		Status:     domain.LoanRepaid,
		FinishDate: datePtr(now.AddDate(0, 0, -1)),
	}

	p := Project(loan, now)
	if p.LateFee != 0 || p.LoanLeft != 100 || p.Overdue {
		t.Fatalf("projection = %+v, want no fee on closed loan", p)
	}
}

func TestProjectNotOverdue(t *testing.T) {
	loan := domain.Loan{Borrowed: 100, Repayment: 30, Status: domain.LoanOngoing}
	p := Project(loan, time.Now())
	if p.LoanLeft != 70 || p.LateFee != 0 {
		t.Fatalf("projection = %+v, want loanLeft=70 lateFee=0", p)
	}
}

// Projection is a pure read: computing it twice must give the same answer.
func TestProjectIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	loan := domain.Loan{
		Borrowed:   100,
		Status:     domain.LoanOngoing,
		FinishDate: datePtr(now.AddDate(0, 0, -3)),
	}

	first := Project(loan, now)
	second := Project(loan, now)
	if first != second {
		t.Fatalf("repeated projection differs: %+v vs %+v", first, second)
	}
}

func TestApplyPenalty(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)
	loan := domain.Loan{
		ID:         7,
		Borrowed:   100,
		Status:     domain.LoanOngoing,
		FinishDate: datePtr(due),
	}

	updated, entry, ok := ApplyPenalty(loan, now)
	if !ok {
		t.Fatal("expected penalty to apply")
	}
	if !almostEqual(updated.Borrowed, 102) {
		t.Errorf("borrowed = %v, want 102", updated.Borrowed)
	}
	if !updated.PenaltyApplied {
		t.Error("PenaltyApplied not set")
	}
	if entry.LoanID != 7 || !almostEqual(entry.Fee, 2) || entry.OutstandingBefore != 100 {
		t.Errorf("entry = %+v", entry)
	}
	if !entry.DueDate.Equal(due) {
		t.Errorf("entry due date = %v, want %v", entry.DueDate, due)
	}
}

// Without the applied guard the fee would compound on every call
// (100 -> 102 -> 104.04). The flag must stop the second application.
func TestApplyPenaltySecondCallIsNoop(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	loan := domain.Loan{
		ID:         1,
		Borrowed:   100,
		Status:     domain.LoanOngoing,
		FinishDate: datePtr(now.AddDate(0, 0, -1)),
	}

	once, _, ok := ApplyPenalty(loan, now)
	if !ok {
		t.Fatal("first application should succeed")
	}

	twice, _, ok := ApplyPenalty(once, now)
	if ok {
		t.Fatal("second application should be refused")
	}
	if !almostEqual(twice.Borrowed, 102) {
		t.Fatalf("borrowed = %v after second call, want 102 (no compounding)", twice.Borrowed)
	}

	// Demonstrate the hazard the guard prevents: resetting the flag
	// compounds the fee.
	once.PenaltyApplied = false
	compounded, _, ok := ApplyPenalty(once, now)
	if !ok {
		t.Fatal("unguarded application should succeed")
	}
	if !almostEqual(compounded.Borrowed, 104.04) {
		t.Fatalf("borrowed = %v, want 104.04", compounded.Borrowed)
	}
}

func TestApplyPenaltyNotDue(t *testing.T) {
	loan := domain.Loan{ID: 2, Borrowed: 100, Status: domain.LoanOngoing}
	updated, _, ok := ApplyPenalty(loan, time.Now())
	if ok {
		t.Fatal("penalty applied to a loan with no deadline")
	}
	if updated.Borrowed != 100 || updated.PenaltyApplied {
		t.Fatalf("loan mutated on no-op: %+v", updated)
	}
}

func TestDefaultFinishDate(t *testing.T) {
	taken := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	if got := DefaultFinishDate(taken); !got.Equal(want) {
		t.Fatalf("DefaultFinishDate = %v, want %v", got, want)
	}
}

// End-to-end scenario: alice has contributions [50, 50], a withdrawal of
// 20 and an ongoing loan {borrowed: 30, repayment: 10, no deadline}.
func TestMemberScenario(t *testing.T) {
	contribs := []domain.Contribution{{Amount: 50}, {Amount: 50}}
	withdrawals := []domain.Withdrawal{{Withdrawn: 20}}
	loan := domain.Loan{Borrowed: 30, Repayment: 10, Status: domain.LoanOngoing}

	s := Summarize(contribs, withdrawals, []domain.Loan{loan})
	if s.Balance != 50 {
		t.Errorf("balance = %v, want 50", s.Balance)
	}

	p := Project(loan, time.Now())
	if p.LoanLeft != 20 || p.LateFee != 0 {
		t.Errorf("projection = %+v, want loanLeft=20 lateFee=0", p)
	}
}
