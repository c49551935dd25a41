package models

// RegisterUser is the request body of POST /registro.
type RegisterUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,senha"`
}

// LoginUser is the request body of POST /login.
type LoginUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ClaimResponse is a claim as exposed in a token response.
type ClaimResponse struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// UserToken describes the owner of an issued token.
type UserToken struct {
	ID     string          `json:"id"`
	Email  string          `json:"email"`
	Claims []ClaimResponse `json:"claims"`
}

// TokenResponse is returned by a successful registration or login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   float64   `json:"expires_in"` // seconds
	UserToken   UserToken `json:"user_token"`
}
