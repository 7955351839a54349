package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Member errors
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrUsernameTaken  = errors.New("username already exists")
	ErrMemberInactive = errors.New("member account is not active")
)

// Loan errors
var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrLoanClosed       = errors.New("loan is already closed")
	ErrLoanNotDisbursed = errors.New("loan has not been disbursed")
	ErrPenaltyNotDue    = errors.New("loan is not overdue")
	ErrPenaltyApplied   = errors.New("late penalty already applied")
)
