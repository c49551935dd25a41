package handlers

import (
	"errors"
	"strings"

	"fornecedores/internal/middleware"
	"fornecedores/internal/models"
	"fornecedores/internal/repositories"
	"fornecedores/internal/services"
	"fornecedores/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Authorization policies guarding the fornecedor routes.
const (
	PolicyAuthenticated     = "Authenticated"
	PolicyExcluirFornecedor = "ExcluirFornecedor"
)

// DefaultPolicies returns the policies RegisterRoutes relies on.
func DefaultPolicies() middleware.Policies {
	return middleware.NewPolicies(
		middleware.Policy{Name: PolicyAuthenticated},
		middleware.Policy{Name: PolicyExcluirFornecedor, ClaimType: "ExcluirFornecedor"},
	)
}

const msgSaveFailed = "Houve um problema ao salvar o registro do fornecedor!"

// FornecedorHandler handles HTTP requests for fornecedores.
type FornecedorHandler struct {
	service   *services.FornecedorService
	validator *validation.Validator
}

// NewFornecedorHandler creates a new FornecedorHandler.
func NewFornecedorHandler(service *services.FornecedorService, validator *validation.Validator) *FornecedorHandler {
	return &FornecedorHandler{
		service:   service,
		validator: validator,
	}
}

// RegisterRoutes registers the fornecedor routes. Writes go through authenticate
// and the matching policy.
func (h *FornecedorHandler) RegisterRoutes(router fiber.Router, authenticate fiber.Handler, policies middleware.Policies) {
	routes := router.Group("/fornecedor")
	routes.Get("/", h.HandleGetFornecedores)
	routes.Get("/:id", h.HandleGetFornecedorByID)
	routes.Post("/", authenticate, policies.Require(PolicyAuthenticated), h.HandleCreateFornecedor)
	routes.Put("/:id", authenticate, policies.Require(PolicyAuthenticated), h.HandleUpdateFornecedor)
	routes.Delete("/:id", authenticate, policies.Require(PolicyExcluirFornecedor), h.HandleDeleteFornecedor)
}

// HandleGetFornecedores godoc
// @Summary List fornecedores
// @Tags Fornecedor
// @Produce json
// @Success 200 {array} models.Fornecedor
// @Failure 500 {object} ErrorResponse
// @Router /fornecedor [get]
func (h *FornecedorHandler) HandleGetFornecedores(c *fiber.Ctx) error {
	fornecedores, err := h.service.GetAll(c.UserContext())
	if err != nil {
		return internalError(c, "Could not retrieve fornecedores", err)
	}
	return c.JSON(fornecedores)
}

// HandleGetFornecedorByID godoc
// @Summary Get a fornecedor by id
// @Tags Fornecedor
// @Produce json
// @Param id path string true "Fornecedor id (UUID)"
// @Success 200 {object} models.Fornecedor
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /fornecedor/{id} [get]
func (h *FornecedorHandler) HandleGetFornecedorByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Id inválido")
	}

	fornecedor, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.lookupFailed(c, err)
	}
	return c.JSON(fornecedor)
}

// HandleCreateFornecedor godoc
// @Summary Create a fornecedor
// @Tags Fornecedor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param fornecedor body models.Fornecedor true "Fornecedor"
// @Success 201 {object} models.Fornecedor
// @Header 201 {string} Location "/fornecedor/{id}"
// @Failure 400 {object} validation.ProblemDetails
// @Failure 401 {object} ErrorResponse
// @Router /fornecedor [post]
func (h *FornecedorHandler) HandleCreateFornecedor(c *fiber.Ctx) error {
	var fornecedor models.Fornecedor
	if err := c.BodyParser(&fornecedor); err != nil {
		return invalidBody(c, err)
	}
	if problems, ok := h.validator.Validate(fornecedor); !ok {
		return validationProblem(c, problems)
	}

	n, err := h.service.Create(c.UserContext(), &fornecedor)
	if err != nil {
		return internalError(c, "Could not create fornecedor", err)
	}
	if n == 0 {
		return badRequest(c, msgSaveFailed)
	}

	c.Location(strings.TrimSuffix(c.Path(), "/") + "/" + fornecedor.ID.String())
	return c.Status(fiber.StatusCreated).JSON(fornecedor)
}

// HandleUpdateFornecedor godoc
// @Summary Replace a fornecedor
// @Tags Fornecedor
// @Accept json
// @Security BearerAuth
// @Param id path string true "Fornecedor id (UUID)"
// @Param fornecedor body models.Fornecedor true "Fornecedor"
// @Success 204
// @Failure 400 {object} validation.ProblemDetails
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /fornecedor/{id} [put]
func (h *FornecedorHandler) HandleUpdateFornecedor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Id inválido")
	}

	// Existence is checked before the body is even looked at.
	if _, err := h.service.GetByID(c.UserContext(), id); err != nil {
		return h.lookupFailed(c, err)
	}

	var fornecedor models.Fornecedor
	if err := c.BodyParser(&fornecedor); err != nil {
		return invalidBody(c, err)
	}
	if problems, ok := h.validator.Validate(fornecedor); !ok {
		return validationProblem(c, problems)
	}
	fornecedor.ID = id

	n, err := h.service.Update(c.UserContext(), &fornecedor)
	if err != nil {
		return internalError(c, "Could not update fornecedor", err)
	}
	if n == 0 {
		return badRequest(c, msgSaveFailed)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteFornecedor godoc
// @Summary Delete a fornecedor
// @Description Requires the ExcluirFornecedor claim.
// @Tags Fornecedor
// @Security BearerAuth
// @Param id path string true "Fornecedor id (UUID)"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /fornecedor/{id} [delete]
func (h *FornecedorHandler) HandleDeleteFornecedor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Id inválido")
	}

	fornecedor, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return h.lookupFailed(c, err)
	}

	n, err := h.service.Delete(c.UserContext(), fornecedor)
	if err != nil {
		return internalError(c, "Could not delete fornecedor", err)
	}
	if n == 0 {
		return badRequest(c, msgSaveFailed)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FornecedorHandler) lookupFailed(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: "Fornecedor não encontrado"})
	}
	return internalError(c, "Could not retrieve fornecedor", err)
}
