package handlers

import (
	"errors"
	"strconv"

	"familybank/internal/core/domain"
	"familybank/internal/core/services"
	"familybank/internal/pkg/pagination"
	"familybank/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin record-administration endpoints
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Overview returns the ledger view of every member
// @Summary Admin overview
// @Description Get every member with their records, balance summary and loan projections
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/overview [get]
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.adminService.Overview(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load overview")
	}
	return response.Success(c, "Overview retrieved successfully", overview)
}

// ListMembers lists members with pagination
// @Summary List members
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/members [get]
func (h *AdminHandler) ListMembers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	members, total, err := h.adminService.ListMembers(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully", pagination.NewResponse(members, params, total))
}

// GetMember gets a member by ID
// @Summary Get member
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/members/{id} [get]
func (h *AdminHandler) GetMember(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.adminService.GetMember(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", member.ToResponse())
}

// UpdateMember edits a member's profile, role or status
// @Summary Update member
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body services.UpdateMemberInput true "Member edits"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/members/{id} [put]
func (h *AdminHandler) UpdateMember(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var input services.UpdateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.adminService.UpdateMember(c.Context(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMemberNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid role or status")
		default:
			return response.InternalServerError(c, "Failed to update member")
		}
	}

	return response.Success(c, "Member updated successfully", member.ToResponse())
}

// DeleteMember removes a member and all their records
// @Summary Delete member
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/members/{id} [delete]
func (h *AdminHandler) DeleteMember(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	if err := h.adminService.DeleteMember(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to delete member")
	}

	return response.Success(c, "Member deleted successfully", nil)
}

// CreateContribution records a weekly deposit
// @Summary Create contribution
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordInput true "Contribution data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/contributions [post]
func (h *AdminHandler) CreateContribution(c *fiber.Ctx) error {
	var input services.RecordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Member == "" {
		return response.BadRequest(c, "Member is required")
	}

	contribution, err := h.adminService.CreateContribution(c.Context(), &input)
	if err != nil {
		return h.recordError(c, err, "Failed to record contribution")
	}

	return response.Created(c, "Contribution recorded successfully", contribution)
}

// UpdateContribution edits a contribution
// @Summary Update contribution
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contribution ID"
// @Param body body services.UpdateRecordInput true "Contribution edits"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/contributions/{id} [put]
func (h *AdminHandler) UpdateContribution(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid contribution ID")
	}

	var input services.UpdateRecordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	contribution, err := h.adminService.UpdateContribution(c.Context(), id, &input)
	if err != nil {
		return h.recordError(c, err, "Failed to update contribution")
	}

	return response.Success(c, "Contribution updated successfully", contribution)
}

// DeleteContribution deletes a contribution
// @Summary Delete contribution
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contribution ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/contributions/{id} [delete]
func (h *AdminHandler) DeleteContribution(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid contribution ID")
	}

	if err := h.adminService.DeleteContribution(c.Context(), id); err != nil {
		return h.recordError(c, err, "Failed to delete contribution")
	}

	return response.Success(c, "Contribution deleted successfully", nil)
}

// CreateWithdrawal records a withdrawal on behalf of a member
// @Summary Create withdrawal
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordInput true "Withdrawal data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/withdrawals [post]
func (h *AdminHandler) CreateWithdrawal(c *fiber.Ctx) error {
	var input services.RecordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Member == "" {
		return response.BadRequest(c, "Member is required")
	}

	withdrawal, err := h.adminService.CreateWithdrawal(c.Context(), &input)
	if err != nil {
		return h.recordError(c, err, "Failed to record withdrawal")
	}

	return response.Created(c, "Withdrawal recorded successfully", withdrawal)
}

// UpdateWithdrawal edits a withdrawal
// @Summary Update withdrawal
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal ID"
// @Param body body services.UpdateRecordInput true "Withdrawal edits"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/withdrawals/{id} [put]
func (h *AdminHandler) UpdateWithdrawal(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid withdrawal ID")
	}

	var input services.UpdateRecordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	withdrawal, err := h.adminService.UpdateWithdrawal(c.Context(), id, &input)
	if err != nil {
		return h.recordError(c, err, "Failed to update withdrawal")
	}

	return response.Success(c, "Withdrawal updated successfully", withdrawal)
}

// DeleteWithdrawal deletes a withdrawal
// @Summary Delete withdrawal
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/withdrawals/{id} [delete]
func (h *AdminHandler) DeleteWithdrawal(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid withdrawal ID")
	}

	if err := h.adminService.DeleteWithdrawal(c.Context(), id); err != nil {
		return h.recordError(c, err, "Failed to delete withdrawal")
	}

	return response.Success(c, "Withdrawal deleted successfully", nil)
}

// recordError maps record administration errors to HTTP responses.
func (h *AdminHandler) recordError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrMemberNotFound):
		return response.NotFound(c, "Member not found")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Record not found")
	case errors.Is(err, services.ErrAmountNotPositive):
		return response.BadRequest(c, "Amount must be greater than zero")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// parseIDParam parses the :id route parameter.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
