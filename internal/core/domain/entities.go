package domain

import "time"

// Role represents a member's role in the system
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// MemberStatus represents a member's account status
type MemberStatus string

const (
	MemberActive MemberStatus = "active"
	MemberFrozen MemberStatus = "frozen"
)

// LoanStatus represents a loan's lifecycle state.
// "repaid" and "rejected" are terminal. Overdue is never stored;
// it is derived from FinishDate at read time.
type LoanStatus string

const (
	LoanOngoing  LoanStatus = "ongoing"
	LoanRepaid   LoanStatus = "repaid"
	LoanRejected LoanStatus = "rejected"
)

// Member is the identity record. Username is the stable key joining
// all contribution, withdrawal and loan records.
type Member struct {
	Username  string
	Name      string
	Email     string
	Role      Role
	Status    MemberStatus
	StartDate time.Time
}

// Contribution is a weekly deposit belonging to one member.
type Contribution struct {
	Member string
	Amount float64
	Date   time.Time
}

// Withdrawal represents funds removed from a member's accrued balance.
type Withdrawal struct {
	Member    string
	Withdrawn float64
	Date      time.Time
}

// Loan is a borrowing record. Repayment accumulates toward Borrowed.
// FinishDate is the repayment deadline, nil until disbursement.
type Loan struct {
	ID             uint
	Member         string
	LoanRequested  float64
	Borrowed       float64
	Repayment      float64
	DateTaken      time.Time
	FinishDate     *time.Time
	RepaidAt       *time.Time
	Status         LoanStatus
	PenaltyApplied bool
}
