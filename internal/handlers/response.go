package handlers

import (
	"errors"
	"log"

	"fornecedores/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every non-validation error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// ErrorHandler renders errors that escape a handler, including fiber's own
// (unknown route, method not allowed, body too large).
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(ErrorResponse{Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: message})
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Message: "Invalid request body",
		Error:   err.Error(),
	})
}

func validationProblem(c *fiber.Ctx, problems validation.Problems) error {
	return c.Status(fiber.StatusBadRequest).
		JSON(validation.NewValidationProblem(problems), validation.ProblemContentType)
}

func internalError(c *fiber.Ctx, message string, err error) error {
	log.Printf("%s: %v", message, err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: message})
}
