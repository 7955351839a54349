package models

import (
	"time"

	"familybank/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Members & Auth
// ============================================================

// Member represents the members table. Username is the stable key that
// every contribution, withdrawal and loan references.
type Member struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'member'" json:"role"`
	Status    string         `gorm:"size:20;default:'active'" json:"status"`
	StartDate time.Time      `gorm:"type:date;not null" json:"startDate"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string {
	return "members"
}

// ToDomain converts to the domain record consumed by the ledger engine.
func (m *Member) ToDomain() domain.Member {
	return domain.Member{
		Username:  m.Username,
		Name:      m.Name,
		Email:     m.Email,
		Role:      domain.Role(m.Role),
		Status:    domain.MemberStatus(m.Status),
		StartDate: m.StartDate,
	}
}

// MemberResponse DTO
type MemberResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	StartDate string `json:"startDate"`
}

func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		Username:  m.Username,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role,
		Status:    m.Status,
		StartDate: m.StartDate.Format("2006-01-02"),
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MemberID  uint       `gorm:"index;not null" json:"member_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	Member    Member     `gorm:"foreignKey:MemberID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Ledger records
// ============================================================

// Contribution represents the weekly deposits table
type Contribution struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Member    string    `gorm:"column:member;size:50;not null;index" json:"member"`
	Amount    float64   `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contribution) TableName() string {
	return "weekly"
}

func (c *Contribution) ToDomain() domain.Contribution {
	return domain.Contribution{Member: c.Member, Amount: c.Amount, Date: c.Date}
}

// Withdrawal represents the withdrawals table
type Withdrawal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Member    string    `gorm:"column:member;size:50;not null;index" json:"member"`
	Withdrawn float64   `gorm:"type:decimal(15,2);not null;default:0" json:"withdrawn"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

func (w *Withdrawal) ToDomain() domain.Withdrawal {
	return domain.Withdrawal{Member: w.Member, Withdrawn: w.Withdrawn, Date: w.Date}
}

// Loan represents the loans table. Borrowed and Repayment are cumulative;
// FinishDate stays NULL until the loan is disbursed.
type Loan struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Member         string         `gorm:"column:member;size:50;not null;index" json:"member"`
	LoanRequested  float64        `gorm:"type:decimal(15,2);not null;default:0" json:"loanRequested"`
	Borrowed       float64        `gorm:"type:decimal(15,2);not null;default:0" json:"borrowed"`
	Repayment      float64        `gorm:"type:decimal(15,2);not null;default:0" json:"repayment"`
	DateTaken      time.Time      `gorm:"type:date;not null" json:"dateTaken"`
	FinishDate     *time.Time     `gorm:"type:date" json:"finishDate"`
	RepaidAt       *time.Time     `json:"repaidAt"`
	Status         string         `gorm:"size:20;not null;default:'ongoing'" json:"status"`
	PenaltyApplied bool           `gorm:"default:false" json:"penaltyApplied"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) ToDomain() domain.Loan {
	return domain.Loan{
		ID:             l.ID,
		Member:         l.Member,
		LoanRequested:  l.LoanRequested,
		Borrowed:       l.Borrowed,
		Repayment:      l.Repayment,
		DateTaken:      l.DateTaken,
		FinishDate:     l.FinishDate,
		RepaidAt:       l.RepaidAt,
		Status:         domain.LoanStatus(l.Status),
		PenaltyApplied: l.PenaltyApplied,
	}
}

// ApplyDomain copies the mutable fields back after a ledger transition.
func (l *Loan) ApplyDomain(d domain.Loan) {
	l.Borrowed = d.Borrowed
	l.Repayment = d.Repayment
	l.FinishDate = d.FinishDate
	l.RepaidAt = d.RepaidAt
	l.Status = string(d.Status)
	l.PenaltyApplied = d.PenaltyApplied
}

// LoanPenalty records one applied late fee. A loan gets at most one
// penalty per deadline; the row itself is the "already charged" fact.
type LoanPenalty struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	LoanID            uint      `gorm:"not null;uniqueIndex:idx_loan_due" json:"loan_id"`
	DueDate           time.Time `gorm:"type:date;not null;uniqueIndex:idx_loan_due" json:"due_date"`
	Fee               float64   `gorm:"type:decimal(15,2);not null" json:"fee"`
	OutstandingBefore float64   `gorm:"type:decimal(15,2);not null" json:"outstanding_before"`
	AppliedAt         time.Time `gorm:"not null" json:"applied_at"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`

	Loan *Loan `gorm:"foreignKey:LoanID" json:"-"`
}

func (LoanPenalty) TableName() string {
	return "loan_penalties"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Member{},
		&RefreshToken{},
		&Contribution{},
		&Withdrawal{},
		&Loan{},
		&LoanPenalty{},
	)
}
