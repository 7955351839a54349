package handlers

import (
	"errors"

	"familybank/internal/core/domain"
	"familybank/internal/core/services"
	"familybank/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member-facing ledger endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// GetData returns the member's full ledger view
// @Summary Get member data
// @Description Get the current member's records, balance summary and loan projections
// @Tags Member
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /member/data [get]
func (h *MemberHandler) GetData(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	data, err := h.memberService.GetMemberData(c.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to load member data")
	}

	return response.Success(c, "Member data retrieved successfully", data)
}

// Withdraw records a withdrawal for the current member
// @Summary Record withdrawal
// @Description Record a withdrawal for the current member
// @Tags Member
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.WithdrawInput true "Withdrawal data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /member/withdrawals [post]
func (h *MemberHandler) Withdraw(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.WithdrawInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	withdrawal, err := h.memberService.Withdraw(c.Context(), username, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAmountNotPositive):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		default:
			return response.InternalServerError(c, "Failed to record withdrawal")
		}
	}

	return response.Created(c, "Withdrawal recorded successfully", withdrawal)
}

// RequestLoan opens a loan application for the current member
// @Summary Request loan
// @Description Open a loan application for the current member
// @Tags Member
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RequestLoanInput true "Loan request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /member/loans [post]
func (h *MemberHandler) RequestLoan(c *fiber.Ctx) error {
	username, ok := c.Locals("username").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.RequestLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.memberService.RequestLoan(c.Context(), username, &input)
	if err != nil {
		if errors.Is(err, services.ErrAmountNotPositive) {
			return response.BadRequest(c, "Amount must be greater than zero")
		}
		return response.InternalServerError(c, "Failed to request loan")
	}

	return response.Created(c, "Loan requested successfully", loan)
}
