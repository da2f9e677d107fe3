package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/comtooin/support-center/internal/api/dto"
	"github.com/comtooin/support-center/internal/service"
	apperrors "github.com/comtooin/support-center/pkg/util"
)

// GuidesHandler serves the self-help article endpoints: public read,
// administrator-gated write.
type GuidesHandler struct {
	service *service.GuideService
}

// NewGuidesHandler constructs handler.
func NewGuidesHandler(guideService *service.GuideService) *GuidesHandler {
	return &GuidesHandler{service: guideService}
}

// List GET /api/guide.
func (h *GuidesHandler) List(c *fiber.Ctx) error {
	guides, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.GuideResponse, 0, len(guides))
	for i := range guides {
		items = append(items, dto.FromGuide(&guides[i]))
	}
	return c.JSON(items)
}

// Get GET /api/guide/:id.
func (h *GuidesHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	guide, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromGuide(guide))
}

// Create POST /api/guide.
func (h *GuidesHandler) Create(c *fiber.Ctx) error {
	var req dto.GuideRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	guide, err := h.service.Create(c.UserContext(), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromGuide(guide))
}

// Update PUT /api/guide/:id.
func (h *GuidesHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.GuideRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	guide, err := h.service.Update(c.UserContext(), id, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromGuide(guide))
}

// Delete DELETE /api/guide/:id.
func (h *GuidesHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
