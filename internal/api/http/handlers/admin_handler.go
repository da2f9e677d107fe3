package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/comtooin/support-center/internal/api/dto"
	"github.com/comtooin/support-center/internal/repository"
	"github.com/comtooin/support-center/internal/service"
	apperrors "github.com/comtooin/support-center/pkg/util"
)

// AdminHandler serves the administrative dashboard endpoints.
type AdminHandler struct {
	auth     *service.AuthService
	requests *service.RequestService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, requestService *service.RequestService) *AdminHandler {
	return &AdminHandler{auth: authService, requests: requestService}
}

// Login POST /api/admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	token, expiresAt, err := h.auth.Login(c.UserContext(), req.ID, req.Password, c.IP())
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// ListRequests GET /api/admin/requests.
func (h *AdminHandler) ListRequests(c *fiber.Ctx) error {
	filter := repository.RequestFilter{
		CustomerName: c.Query("customerName"),
		Month:        c.Query("month"),
		SortField:    c.Query("_sort"),
		SortDir:      c.Query("_order"),
	}
	views, err := h.requests.AdminList(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.RequestResponse, 0, len(views))
	for i := range views {
		items = append(items, dto.FromRequestView(&views[i]))
	}
	return c.JSON(items)
}

// ListCustomers GET /api/admin/customers.
func (h *AdminHandler) ListCustomers(c *fiber.Ctx) error {
	customers, err := h.requests.Customers(c.UserContext())
	if err != nil {
		return err
	}
	if customers == nil {
		customers = []string{}
	}
	return c.JSON(customers)
}

// UpdateRequest PUT /api/admin/requests/:id.
func (h *AdminHandler) UpdateRequest(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.AdminUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.requests.AdminUpdate(c.UserContext(), id, req.Status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromRequestView(view))
}

// DeleteRequest DELETE /api/admin/requests/:id.
func (h *AdminHandler) DeleteRequest(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.requests.AdminDelete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
