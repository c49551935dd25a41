package validation_test

import (
	"testing"

	"fornecedores/internal/models"
	"fornecedores/internal/validation"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Fornecedor(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		fornecedor models.Fornecedor
		wantFields []string
	}{
		{"valid CPF", models.Fornecedor{Nome: "Acme", Documento: "12345678901"}, nil},
		{"valid CNPJ", models.Fornecedor{Nome: "Acme", Documento: "12345678000195", Ativo: true}, nil},
		{"empty nome", models.Fornecedor{Nome: "", Documento: "12345678901"}, []string{"nome"}},
		{"short nome", models.Fornecedor{Nome: "A", Documento: "12345678901"}, []string{"nome"}},
		{"formatted documento", models.Fornecedor{Nome: "Acme", Documento: "123.456.789-01"}, []string{"documento"}},
		{"wrong length documento", models.Fornecedor{Nome: "Acme", Documento: "1234"}, []string{"documento"}},
		{"everything missing", models.Fornecedor{}, []string{"nome", "documento"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems, ok := v.Validate(tt.fornecedor)
			if tt.wantFields == nil {
				assert.True(t, ok)
				assert.Empty(t, problems)
				return
			}
			assert.False(t, ok)
			assert.Len(t, problems, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.NotEmpty(t, problems[field], "expected violations for %s", field)
			}
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	v := validation.New()

	problems, ok := v.Validate(models.Fornecedor{Documento: "abc"})
	assert.False(t, ok)
	assert.Equal(t, []string{"O campo nome é obrigatório."}, problems["nome"])
	assert.Equal(t, []string{"O campo documento precisa conter 11 (CPF) ou 14 (CNPJ) dígitos."}, problems["documento"])
}

func TestValidate_RegisterUser(t *testing.T) {
	v := validation.New()

	_, ok := v.Validate(models.RegisterUser{Email: "user@example.com", Password: "Senha@123"})
	assert.True(t, ok)

	weak := []string{"Ab1!", "senha@123", "SENHA@123", "Senha@abc", "Senha1234"}
	for _, password := range weak {
		problems, ok := v.Validate(models.RegisterUser{Email: "user@example.com", Password: password})
		assert.False(t, ok, password)
		assert.Contains(t, problems, "password", password)
	}

	problems, ok := v.Validate(models.RegisterUser{Email: "not-an-email", Password: "Senha@123"})
	assert.False(t, ok)
	assert.Contains(t, problems, "email")
}

func TestValidate_LoginUserOnlyRequiresPassword(t *testing.T) {
	v := validation.New()

	_, ok := v.Validate(models.LoginUser{Email: "user@example.com", Password: "x"})
	assert.True(t, ok)

	problems, ok := v.Validate(models.LoginUser{})
	assert.False(t, ok)
	assert.Contains(t, problems, "email")
	assert.Contains(t, problems, "password")
}

func TestNewValidationProblem(t *testing.T) {
	p := validation.Problems{}
	p.Add("nome", "first")
	p.Add("nome", "second")

	details := validation.NewValidationProblem(p)
	assert.Equal(t, 400, details.Status)
	assert.Equal(t, []string{"first", "second"}, details.Errors["nome"])
}
