package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"familybank/internal/adapters/persistence/models"
	"familybank/internal/core/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// fakeLoanRepo is an in-memory LoanRepository.
type fakeLoanRepo struct {
	loans  map[uint]*models.Loan
	nextID uint
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[uint]*models.Loan), nextID: 1}
}

func (f *fakeLoanRepo) Create(_ context.Context, loan *models.Loan) error {
	loan.ID = f.nextID
	f.nextID++
	cp := *loan
	f.loans[loan.ID] = &cp
	return nil
}

func (f *fakeLoanRepo) GetByID(_ context.Context, id uint) (*models.Loan, error) {
	loan, ok := f.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *loan
	return &cp, nil
}

func (f *fakeLoanRepo) GetByMember(_ context.Context, username string) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, l := range f.loans {
		if l.Member == username {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) List(_ context.Context, _, _ int) ([]*models.Loan, int64, error) {
	var out []*models.Loan
	for _, l := range f.loans {
		cp := *l
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLoanRepo) ListOverdue(_ context.Context, asOf time.Time) ([]*models.Loan, error) {
	var out []*models.Loan
	for _, l := range f.loans {
		if l.Status == string(domain.LoanOngoing) && !l.PenaltyApplied &&
			l.FinishDate != nil && l.FinishDate.Before(asOf) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) Update(_ context.Context, loan *models.Loan) error {
	if _, ok := f.loans[loan.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *loan
	f.loans[loan.ID] = &cp
	return nil
}

func (f *fakeLoanRepo) Delete(_ context.Context, id uint) error {
	delete(f.loans, id)
	return nil
}

func (f *fakeLoanRepo) DeleteByMember(_ context.Context, username string) error {
	for id, l := range f.loans {
		if l.Member == username {
			delete(f.loans, id)
		}
	}
	return nil
}

// fakePenaltyRepo is an in-memory LoanPenaltyRepository.
type fakePenaltyRepo struct {
	entries []*models.LoanPenalty
}

func (f *fakePenaltyRepo) Create(_ context.Context, p *models.LoanPenalty) error {
	f.entries = append(f.entries, p)
	return nil
}

func (f *fakePenaltyRepo) GetByLoanID(_ context.Context, loanID uint) ([]*models.LoanPenalty, error) {
	var out []*models.LoanPenalty
	for _, e := range f.entries {
		if e.LoanID == loanID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakePenaltyRepo) ExistsForDueDate(_ context.Context, loanID uint, dueDate time.Time) (bool, error) {
	for _, e := range f.entries {
		if e.LoanID == loanID && e.DueDate.Equal(dueDate) {
			return true, nil
		}
	}
	return false, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestLoanService() (*LoanService, *fakeLoanRepo, *fakePenaltyRepo) {
	loans := newFakeLoanRepo()
	penalties := &fakePenaltyRepo{}
	return NewLoanService(loans, penalties, testLogger()), loans, penalties
}

func seedLoan(t *testing.T, repo *fakeLoanRepo, loan *models.Loan) uint {
	t.Helper()
	if err := repo.Create(context.Background(), loan); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return loan.ID
}

func TestDisburseSetsDefaultDeadline(t *testing.T) {
	svc, repo, _ := newTestLoanService()
	id := seedLoan(t, repo, &models.Loan{
		Member:        "alice",
		LoanRequested: 100,
		Status:        string(domain.LoanOngoing),
	})

	loan, err := svc.Disburse(context.Background(), id, &DisburseInput{Amount: 100})
	if err != nil {
		t.Fatalf("Disburse: %v", err)
	}
	if loan.Borrowed != 100 {
		t.Errorf("Borrowed = %v, want 100", loan.Borrowed)
	}
	if loan.FinishDate == nil {
		t.Fatal("FinishDate not set")
	}
	want := loan.DateTaken.AddDate(0, 0, 30)
	if !loan.FinishDate.Equal(want) {
		t.Errorf("FinishDate = %v, want %v", loan.FinishDate, want)
	}
}

func TestAddRepaymentClosesLoanWhenCovered(t *testing.T) {
	svc, repo, _ := newTestLoanService()
	now := time.Now()
	deadline := now.AddDate(0, 0, 30)
	id := seedLoan(t, repo, &models.Loan{
		Member:     "alice",
		Borrowed:   100,
		Repayment:  60,
		DateTaken:  now,
		FinishDate: &deadline,
		Status:     string(domain.LoanOngoing),
	})

	loan, err := svc.AddRepayment(context.Background(), id, &RepaymentInput{Amount: 30})
	if err != nil {
		t.Fatalf("AddRepayment: %v", err)
	}
	if loan.Status != string(domain.LoanOngoing) {
		t.Errorf("status = %q after partial repayment, want ongoing", loan.Status)
	}
	if loan.RepaidAt != nil {
		t.Error("RepaidAt set on a still-open loan")
	}

	loan, err = svc.AddRepayment(context.Background(), id, &RepaymentInput{Amount: 10})
	if err != nil {
		t.Fatalf("AddRepayment: %v", err)
	}
	if loan.Status != string(domain.LoanRepaid) {
		t.Errorf("status = %q after full repayment, want repaid", loan.Status)
	}
	if loan.RepaidAt == nil {
		t.Error("RepaidAt not stamped on closure")
	}
}

func TestAddRepaymentOnClosedLoan(t *testing.T) {
	svc, repo, _ := newTestLoanService()
	id := seedLoan(t, repo, &models.Loan{
		Member:    "alice",
		Borrowed:  100,
		Repayment: 100,
		Status:    string(domain.LoanRepaid),
	})

	if _, err := svc.AddRepayment(context.Background(), id, &RepaymentInput{Amount: 10}); !errors.Is(err, domain.ErrLoanClosed) {
		t.Errorf("err = %v, want ErrLoanClosed", err)
	}
}

func TestAddRepaymentBeforeDisbursement(t *testing.T) {
	svc, repo, _ := newTestLoanService()
	id := seedLoan(t, repo, &models.Loan{
		Member:        "alice",
		LoanRequested: 100,
		Status:        string(domain.LoanOngoing),
	})

	if _, err := svc.AddRepayment(context.Background(), id, &RepaymentInput{Amount: 10}); !errors.Is(err, domain.ErrLoanNotDisbursed) {
		t.Errorf("err = %v, want ErrLoanNotDisbursed", err)
	}
}

func TestRejectDisbursedLoan(t *testing.T) {
	svc, repo, _ := newTestLoanService()
	id := seedLoan(t, repo, &models.Loan{
		Member:   "alice",
		Borrowed: 100,
		Status:   string(domain.LoanOngoing),
	})

	if _, err := svc.Reject(context.Background(), id); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput for a disbursed loan", err)
	}
}

func TestApplyLatePenaltyOnce(t *testing.T) {
	svc, repo, penalties := newTestLoanService()
	taken := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	deadline := taken.AddDate(0, 0, 30)
	id := seedLoan(t, repo, &models.Loan{
		Member:     "alice",
		Borrowed:   100,
		DateTaken:  taken,
		FinishDate: &deadline,
		Status:     string(domain.LoanOngoing),
	})

	asOf := deadline.AddDate(0, 0, 1)
	loan, err := svc.ApplyLatePenalty(context.Background(), id, asOf)
	if err != nil {
		t.Fatalf("ApplyLatePenalty: %v", err)
	}
	if loan.Borrowed != 102 {
		t.Errorf("Borrowed = %v after penalty, want 102", loan.Borrowed)
	}
	if !loan.PenaltyApplied {
		t.Error("PenaltyApplied not set")
	}
	if len(penalties.entries) != 1 {
		t.Fatalf("penalty entries = %d, want 1", len(penalties.entries))
	}
	if penalties.entries[0].Fee != 2 {
		t.Errorf("recorded fee = %v, want 2", penalties.entries[0].Fee)
	}

	// Second application must refuse, not compound.
	if _, err := svc.ApplyLatePenalty(context.Background(), id, asOf.AddDate(0, 0, 1)); !errors.Is(err, domain.ErrPenaltyApplied) {
		t.Errorf("err = %v on second application, want ErrPenaltyApplied", err)
	}

	stored, _ := repo.GetByID(context.Background(), id)
	if stored.Borrowed != 102 {
		t.Errorf("Borrowed = %v after refused reapplication, want 102", stored.Borrowed)
	}
}

func TestApplyLatePenaltyNotOverdue(t *testing.T) {
	svc, repo, _ := newTestLoanService()
	now := time.Now()
	deadline := now.AddDate(0, 0, 30)
	id := seedLoan(t, repo, &models.Loan{
		Member:     "alice",
		Borrowed:   100,
		DateTaken:  now,
		FinishDate: &deadline,
		Status:     string(domain.LoanOngoing),
	})

	if _, err := svc.ApplyLatePenalty(context.Background(), id, now); !errors.Is(err, domain.ErrPenaltyNotDue) {
		t.Errorf("err = %v, want ErrPenaltyNotDue", err)
	}
}

func TestScanOverdue(t *testing.T) {
	svc, repo, penalties := newTestLoanService()
	taken := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	past := taken.AddDate(0, 0, 30)
	future := taken.AddDate(0, 0, 90)

	overdueID := seedLoan(t, repo, &models.Loan{
		Member: "alice", Borrowed: 100, DateTaken: taken,
		FinishDate: &past, Status: string(domain.LoanOngoing),
	})
	seedLoan(t, repo, &models.Loan{
		Member: "bob", Borrowed: 50, DateTaken: taken,
		FinishDate: &future, Status: string(domain.LoanOngoing),
	})
	seedLoan(t, repo, &models.Loan{
		Member: "carol", Borrowed: 80, Repayment: 80, DateTaken: taken,
		FinishDate: &past, Status: string(domain.LoanRepaid),
	})

	asOf := past.AddDate(0, 0, 10)
	applied, err := svc.ScanOverdue(context.Background(), asOf)
	if err != nil {
		t.Fatalf("ScanOverdue: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if len(penalties.entries) != 1 || penalties.entries[0].LoanID != overdueID {
		t.Errorf("penalty entries = %+v, want one for loan %d", penalties.entries, overdueID)
	}

	// A second sweep finds nothing left to charge.
	applied, err = svc.ScanOverdue(context.Background(), asOf.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ScanOverdue: %v", err)
	}
	if applied != 0 {
		t.Errorf("applied = %d on second sweep, want 0", applied)
	}
}
