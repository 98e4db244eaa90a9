package handlers

import (
	"errors"

	"nirman-fieldworks/internal/core/services"
	"nirman-fieldworks/internal/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Register(c.UserContext(), &input)
	if err != nil {
		var verr validator.ValidationErrors
		switch {
		case errors.As(err, &verr):
			return response.BadRequest(c, validationMessage(verr))
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "An account with this email already exists")
		default:
			return response.InternalServerError(c, "Registration failed")
		}
	}

	return response.Created(c, "Registration successful", result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Email == "" || input.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	result, err := h.authService.Login(c.UserContext(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, services.ErrUserInactive):
			return response.Forbidden(c, "Account is inactive, contact your administrator")
		default:
			return response.InternalServerError(c, "Login failed")
		}
	}

	return response.Success(c, "Login successful", result)
}

// validationMessage flattens validator errors into one display string
func validationMessage(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Invalid input"
	}
	e := errs[0]
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "A valid email address is required"
	case "min":
		return e.Field() + " is too short"
	case "max":
		return e.Field() + " is too long"
	case "oneof":
		return e.Field() + " has an unsupported value"
	default:
		return "Invalid value for " + e.Field()
	}
}
