package handlers

import (
	"errors"
	"time"

	"familybank/internal/core/domain"
	"familybank/internal/core/ledger"
	"familybank/internal/core/services"
	"familybank/internal/pkg/pagination"
	"familybank/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles the admin loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// ListLoans lists loans with pagination
// @Summary List loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/loans [get]
func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	loans, total, err := h.loanService.ListLoans(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", pagination.NewResponse(loans, params, total))
}

// GetLoan gets a loan with its derived figures
// @Summary Get loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/loans/{id} [get]
func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetLoan(c.Context(), id)
	if err != nil {
		return h.loanError(c, err, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", fiber.Map{
		"loan":       loan,
		"projection": ledger.Project(loan.ToDomain(), time.Now()),
	})
}

// Disburse hands the money out on an open loan
// @Summary Disburse loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.DisburseInput true "Disbursement data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/loans/{id}/disburse [put]
func (h *LoanHandler) Disburse(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var input services.DisburseInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.Disburse(c.Context(), id, &input)
	if err != nil {
		return h.loanError(c, err, "Failed to disburse loan")
	}

	return response.Success(c, "Loan disbursed successfully", loan)
}

// AddRepayment adds to the cumulative repayment on a loan
// @Summary Add repayment
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.RepaymentInput true "Repayment data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/loans/{id}/repayments [post]
func (h *LoanHandler) AddRepayment(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var input services.RepaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.AddRepayment(c.Context(), id, &input)
	if err != nil {
		return h.loanError(c, err, "Failed to record repayment")
	}

	return response.Success(c, "Repayment recorded successfully", loan)
}

// MarkRepaid closes a loan regardless of the amounts on it
// @Summary Mark loan repaid
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/loans/{id}/repaid [put]
func (h *LoanHandler) MarkRepaid(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.MarkRepaid(c.Context(), id)
	if err != nil {
		return h.loanError(c, err, "Failed to mark loan repaid")
	}

	return response.Success(c, "Loan marked repaid", loan)
}

// Reject declines a loan application
// @Summary Reject loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/loans/{id}/reject [put]
func (h *LoanHandler) Reject(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.Reject(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Cannot reject a disbursed loan")
		}
		return h.loanError(c, err, "Failed to reject loan")
	}

	return response.Success(c, "Loan rejected", loan)
}

// ApplyPenalty charges the late fee on an overdue loan
// @Summary Apply late penalty
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/loans/{id}/penalty [post]
func (h *LoanHandler) ApplyPenalty(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.ApplyLatePenalty(c.Context(), id, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPenaltyApplied):
			return response.Conflict(c, "Late penalty already applied")
		case errors.Is(err, domain.ErrPenaltyNotDue):
			return response.BadRequest(c, "Loan is not overdue")
		default:
			return h.loanError(c, err, "Failed to apply penalty")
		}
	}

	return response.Success(c, "Late penalty applied", loan)
}

// loanError maps loan errors to HTTP responses.
func (h *LoanHandler) loanError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrLoanClosed):
		return response.BadRequest(c, "Loan is already closed")
	case errors.Is(err, domain.ErrLoanNotDisbursed):
		return response.BadRequest(c, "Loan has not been disbursed")
	case errors.Is(err, services.ErrAmountNotPositive):
		return response.BadRequest(c, "Amount must be greater than zero")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
	default:
		return response.InternalServerError(c, fallback)
	}
}
