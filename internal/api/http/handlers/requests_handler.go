package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/comtooin/support-center/internal/api/dto"
	"github.com/comtooin/support-center/internal/service"
	apperrors "github.com/comtooin/support-center/pkg/util"
)

// RequestsHandler serves the public request endpoints.
type RequestsHandler struct {
	service *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{service: requestService}
}

// Create POST /api/requests (multipart, up to 5 image parts).
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	uploads, err := collectUploads(c)
	if err != nil {
		return err
	}

	input := service.SubmitInput{
		CustomerName: c.FormValue("customer_name"),
		UserName:     c.FormValue("user_name"),
		Secret:       c.FormValue("password"),
		Email:        c.FormValue("email"),
		Content:      c.FormValue("content"),
		Attachments:  uploads,
	}
	view, err := h.service.Submit(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromRequestView(view))
}

// Get GET /api/requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromRequestView(view))
}

// Update PUT /api/requests/:id (multipart).
func (h *RequestsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	uploads, err := collectUploads(c)
	if err != nil {
		return err
	}

	input := service.SelfUpdateInput{
		CustomerName: c.FormValue("customer_name"),
		UserName:     c.FormValue("user_name"),
		Email:        c.FormValue("email"),
		Content:      c.FormValue("content"),
		KeptImages:   collectKeptImages(c),
		Attachments:  uploads,
	}
	view, err := h.service.SelfUpdate(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromRequestView(view))
}

// Delete DELETE /api/requests/:id (body: secret).
func (h *RequestsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SelfDelete(c.UserContext(), id, req.Password); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Auth POST /api/requests/auth.
func (h *RequestsHandler) Auth(c *fiber.Ctx) error {
	var req dto.AuthRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	views, err := h.service.Authenticate(c.UserContext(), req.UserName, req.Password)
	if err != nil {
		return err
	}
	items := make([]dto.RequestResponse, 0, len(views))
	for i := range views {
		items = append(items, dto.FromRequestView(&views[i]))
	}
	return c.JSON(items)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func collectUploads(c *fiber.Ctx) ([]service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// no multipart body means no attachments
		return nil, nil
	}
	files := form.File["images"]
	uploads := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			return nil, apperrors.NewValidationError("could not read uploaded file", map[string]any{
				"file": fh.Filename,
			})
		}
		uploads = append(uploads, service.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        data,
		})
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// collectKeptImages accepts the existing attachment references either as a
// repeated form field or as one comma-separated value.
func collectKeptImages(c *fiber.Ctx) []string {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	var kept []string
	for _, raw := range form.Value["existingImages"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				kept = append(kept, part)
			}
		}
	}
	return kept
}
