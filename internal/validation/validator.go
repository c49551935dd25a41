// Package validation turns struct-tag constraints into field keyed error messages.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Problems maps a JSON field name to its violation messages, in tag order.
type Problems map[string][]string

// Add appends a message for field.
func (p Problems) Add(field, message string) {
	p[field] = append(p[field], message)
}

// ProblemDetails is an RFC 7807 validation problem body.
type ProblemDetails struct {
	Type   string   `json:"type"`
	Title  string   `json:"title"`
	Status int      `json:"status"`
	Errors Problems `json:"errors"`
}

// ProblemContentType is the media type of ProblemDetails responses.
const ProblemContentType = "application/problem+json"

// NewValidationProblem wraps p in a 400 problem body.
func NewValidationProblem(p Problems) ProblemDetails {
	return ProblemDetails{
		Type:   "https://tools.ietf.org/html/rfc9110#section-15.5.1",
		Title:  "One or more validation errors occurred.",
		Status: http.StatusBadRequest,
		Errors: p,
	}
}

// Validator validates request and entity structs.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the documento and senha rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("documento", isDocumento)
	_ = v.RegisterValidation("senha", isSenha)

	return &Validator{validate: v}
}

// Validate runs every constraint of s. It returns ok == true when s is valid,
// otherwise the violations of all failing fields.
func (v *Validator) Validate(s interface{}) (Problems, bool) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, true
	}

	problems := Problems{}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		problems.Add("", err.Error())
		return problems, false
	}
	for _, e := range validationErrors {
		problems.Add(e.Field(), message(e))
	}
	return problems, false
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório.", e.Field())
	case "min":
		return fmt.Sprintf("O campo %s precisa ter no mínimo %s caracteres.", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("O campo %s precisa ter no máximo %s caracteres.", e.Field(), e.Param())
	case "email":
		return fmt.Sprintf("O campo %s está em formato inválido.", e.Field())
	case "documento":
		return fmt.Sprintf("O campo %s precisa conter 11 (CPF) ou 14 (CNPJ) dígitos.", e.Field())
	case "senha":
		return "A senha precisa ter ao menos 6 caracteres, com letra maiúscula, letra minúscula, número e caractere especial."
	default:
		return fmt.Sprintf("O campo %s é inválido.", e.Field())
	}
}

// isDocumento accepts a CPF (11 digits) or CNPJ (14 digits), digits only.
func isDocumento(fl validator.FieldLevel) bool {
	doc := fl.Field().String()
	if len(doc) != 11 && len(doc) != 14 {
		return false
	}
	for _, r := range doc {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isSenha(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len([]rune(password)) < 6 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	return upper && lower && digit && special
}
