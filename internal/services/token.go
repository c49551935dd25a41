package services

import (
	"context"
	"fmt"
	"log"

	"fornecedores/internal/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// Claim names written by the issuer. User claims with these types are not copied into tokens.
var reservedClaims = map[string]bool{
	"sub":   true,
	"email": true,
	"jti":   true,
	"nbf":   true,
	"iat":   true,
	"exp":   true,
	"iss":   true,
	"aud":   true,
	"role":  true,
}

// IssueToken signs a bearer token for the user registered under email. The
// token carries the standard claims, every user claim and the user's roles.
func (s *IdentityService) IssueToken(ctx context.Context, email string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load user for token: %w", err)
	}

	claims := s.tokenClaims(user)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	userClaims := make([]models.ClaimResponse, 0, len(user.Claims)+len(user.Roles))
	for _, c := range user.Claims {
		userClaims = append(userClaims, models.ClaimResponse{Type: c.Type, Value: c.Value})
	}
	for _, r := range user.Roles {
		userClaims = append(userClaims, models.ClaimResponse{Type: "role", Value: r.Name})
	}

	return &models.TokenResponse{
		AccessToken: tokenString,
		ExpiresIn:   s.opts.TokenDuration.Seconds(),
		UserToken: models.UserToken{
			ID:     user.ID,
			Email:  user.Email,
			Claims: userClaims,
		},
	}, nil
}

func (s *IdentityService) tokenClaims(user *models.User) jwt.MapClaims {
	now := s.opts.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"jti":   uuid.New().String(),
		"nbf":   now.Unix(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.opts.TokenDuration).Unix(),
		"iss":   s.opts.Issuer,
		"aud":   s.opts.Audience,
	}

	for _, c := range user.Claims {
		if reservedClaims[c.Type] {
			continue
		}
		switch existing := claims[c.Type].(type) {
		case nil:
			claims[c.Type] = c.Value
		case string:
			claims[c.Type] = []string{existing, c.Value}
		case []string:
			claims[c.Type] = append(existing, c.Value)
		}
	}

	if len(user.Roles) > 0 {
		roles := make([]string, 0, len(user.Roles))
		for _, r := range user.Roles {
			roles = append(roles, r.Name)
		}
		claims["role"] = roles
	}
	return claims
}

// ValidateToken parses and validates a token, returning its claims if valid.
func (s *IdentityService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.opts.Issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}
	if !claims.VerifyAudience(s.opts.Audience, true) {
		return nil, fmt.Errorf("%w: unexpected audience", ErrInvalidToken)
	}
	return claims, nil
}
