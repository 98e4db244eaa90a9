package handlers

import (
	"errors"
	"strconv"

	"nirman-fieldworks/internal/core/domain"
	"nirman-fieldworks/internal/core/services"
	"nirman-fieldworks/internal/pkg/pagination"
	"nirman-fieldworks/internal/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WorkHandler handles work proposal endpoints
type WorkHandler struct {
	workService *services.WorkService
}

// NewWorkHandler creates a new work handler
func NewWorkHandler(workService *services.WorkService) *WorkHandler {
	return &WorkHandler{workService: workService}
}

// List handles GET /api/work-proposals
func (h *WorkHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	proposals, total, err := h.workService.ListProposals(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch work proposals")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    proposals,
		"meta":    pagination.GetMeta(params, total),
	})
}

// Create handles POST /api/work-proposals
func (h *WorkHandler) Create(c *fiber.Ctx) error {
	var input services.CreateProposalInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	proposal, err := h.workService.CreateProposal(c.UserContext(), &input)
	if err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			return response.BadRequest(c, validationMessage(verr))
		}
		return response.InternalServerError(c, "Failed to create work proposal")
	}

	return response.Created(c, "Work proposal created", proposal)
}

// Get handles GET /api/work-proposals/:id
func (h *WorkHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid work proposal id")
	}

	proposal, err := h.workService.GetProposal(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProposalNotFound) {
			return response.NotFound(c, "Work proposal not found")
		}
		return response.InternalServerError(c, "Failed to fetch work proposal")
	}

	return response.Success(c, "", proposal)
}

// Update handles PUT /api/work-proposals/:id
func (h *WorkHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid work proposal id")
	}

	var input services.UpdateProposalInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	proposal, err := h.workService.UpdateProposal(c.UserContext(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProposalNotFound):
			return response.NotFound(c, "Work proposal not found")
		case errors.Is(err, domain.ErrInvalidStatus):
			return response.BadRequest(c, "Invalid work status")
		default:
			return response.InternalServerError(c, "Failed to update work proposal")
		}
	}

	return response.Success(c, "Work proposal updated", proposal)
}

// SubmitProgress handles POST /api/work-proposals/:id/progress.
// The body is multipart: up to MaxImages "images" parts, an optional
// "document" part, and text parts for the report fields.
func (h *WorkHandler) SubmitProgress(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid work proposal id")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Expected multipart form data")
	}

	input := &services.ProgressInput{
		Description:              formValue(form.Value, "desc"),
		SanctionedAmount:         formValue(form.Value, "sanctionedAmount"),
		TotalAmountReleasedSoFar: formValue(form.Value, "totalAmountReleasedSoFar"),
		RemainingBalance:         formValue(form.Value, "remainingBalance"),
		ExpenditureAmount:        formValue(form.Value, "expenditureAmount"),
		MBStage:                  formValue(form.Value, "mbStageMeasurementBookStag"),
		Installments:             formValue(form.Value, "installments"),
		Images:                   form.File["images"],
	}
	if docs := form.File["document"]; len(docs) > 0 {
		input.Document = docs[0]
	}
	if v := formValue(form.Value, "latitude"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			input.Latitude = &lat
		}
	}
	if v := formValue(form.Value, "longitude"); v != "" {
		if lng, err := strconv.ParseFloat(v, 64); err == nil {
			input.Longitude = &lng
		}
	}

	userID, _ := c.Locals("userID").(uint)

	update, err := h.workService.SubmitProgress(c.UserContext(), id, userID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProposalNotFound):
			return response.NotFound(c, "Work proposal not found")
		case errors.Is(err, domain.ErrTooManyImages):
			return response.BadRequest(c, "Too many images attached")
		case errors.Is(err, domain.ErrFileTooLarge):
			return response.PayloadTooLarge(c, "Uploaded file exceeds size limit")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to submit progress")
		}
	}

	return response.Created(c, "Progress submitted", update)
}

// GetProgress handles GET /api/work-proposals/:id/progress
func (h *WorkHandler) GetProgress(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid work proposal id")
	}

	updates, err := h.workService.GetProgress(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProposalNotFound) {
			return response.NotFound(c, "Work proposal not found")
		}
		return response.InternalServerError(c, "Failed to fetch work progress")
	}

	return response.Success(c, "", updates)
}

// parseID parses the :id route parameter
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidInput
	}
	return uint(id), nil
}

// formValue returns the first value for a multipart text field
func formValue(values map[string][]string, key string) string {
	if v, ok := values[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}
