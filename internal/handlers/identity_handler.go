package handlers

import (
	"errors"
	"log"

	"fornecedores/internal/models"
	"fornecedores/internal/services"
	"fornecedores/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// IdentityHandler handles HTTP requests for registration and login.
type IdentityHandler struct {
	identity  *services.IdentityService
	validator *validation.Validator
}

// NewIdentityHandler creates a new IdentityHandler.
func NewIdentityHandler(identity *services.IdentityService, validator *validation.Validator) *IdentityHandler {
	return &IdentityHandler{
		identity:  identity,
		validator: validator,
	}
}

// RegisterRoutes registers the public identity routes.
func (h *IdentityHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/registro", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
}

// HandleRegister godoc
// @Summary Register a user and return a token
// @Tags Usuario
// @Accept json
// @Produce json
// @Param request body models.RegisterUser true "Registration data"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /registro [post]
func (h *IdentityHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterUser
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if problems, ok := h.validator.Validate(req); !ok {
		return validationProblem(c, problems)
	}

	if _, err := h.identity.Register(c.UserContext(), req.Email, req.Password); err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "Registration failed",
				Error:   "O email " + req.Email + " já está em uso.",
			})
		}
		return internalError(c, "Could not register user", err)
	}

	token, err := h.identity.IssueToken(c.UserContext(), req.Email)
	if err != nil {
		return internalError(c, "Could not issue token", err)
	}
	return c.JSON(token)
}

// HandleLogin godoc
// @Summary Log in and return a token
// @Tags Usuario
// @Accept json
// @Produce json
// @Param request body models.LoginUser true "Credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /login [post]
func (h *IdentityHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginUser
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if problems, ok := h.validator.Validate(req); !ok {
		return validationProblem(c, problems)
	}

	if _, err := h.identity.VerifyCredentials(c.UserContext(), req.Email, req.Password); err != nil {
		log.Printf("Login failed for %s: %v", req.Email, err)
		switch {
		case errors.Is(err, services.ErrLockedOut):
			return badRequest(c, "Usuário temporariamente bloqueado por tentativas inválidas")
		case errors.Is(err, services.ErrInvalidCredentials):
			return badRequest(c, "Usuário ou senha inválidos")
		default:
			return internalError(c, "Could not log in", err)
		}
	}

	token, err := h.identity.IssueToken(c.UserContext(), req.Email)
	if err != nil {
		return internalError(c, "Could not issue token", err)
	}
	return c.JSON(token)
}
