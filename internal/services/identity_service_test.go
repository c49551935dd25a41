package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fornecedores/internal/models"
	"fornecedores/internal/repositories"
	"fornecedores/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testOptions() services.IdentityOptions {
	return services.IdentityOptions{
		Secret:            "test_jwt_secret",
		Issuer:            "fornecedores-test",
		Audience:          "https://tests",
		TokenDuration:     time.Hour,
		MaxFailedAttempts: 3,
		LockoutDuration:   5 * time.Minute,
	}
}

func userWithPassword(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:             "user-123",
		Email:          "test@example.com",
		PasswordHash:   string(hash),
		EmailConfirmed: true,
		LockoutEnabled: true,
	}
}

func TestIdentityService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	identity := services.NewIdentityService(mockRepo, testOptions())

	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := identity.Register(ctx, "test@example.com", "Senha@123")
	require.NoError(t, err)
	assert.True(t, user.EmailConfirmed)
	assert.True(t, user.LockoutEnabled)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Senha@123")))
	mockRepo.AssertExpectations(t)

	// Duplicate email
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(&models.User{ID: "1"}, nil).Once()
	_, err = identity.Register(ctx, "test@example.com", "Senha@123")
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)

	// Losing a concurrent registration to the unique index is still a duplicate
	mockRepo.On("GetByEmail", ctx, "race@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(repositories.ErrDuplicate).Once()
	_, err = identity.Register(ctx, "race@example.com", "Senha@123")
	assert.ErrorIs(t, err, services.ErrDuplicateEmail)

	// Store failure is not reported as a duplicate
	mockRepo.On("GetByEmail", ctx, "broken@example.com").Return(nil, errors.New("connection refused")).Once()
	_, err = identity.Register(ctx, "broken@example.com", "Senha@123")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "connection refused")
	mockRepo.AssertExpectations(t)
}

func TestIdentityService_VerifyCredentials(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	identity := services.NewIdentityService(mockRepo, testOptions())

	user := userWithPassword(t, "Senha@123")
	user.AccessFailedCount = 2

	// Success resets the failure counter
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("UpdateLockout", ctx, user).Return(nil).Once()
	got, err := identity.VerifyCredentials(ctx, user.Email, "Senha@123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Zero(t, user.AccessFailedCount)

	// Wrong password increments it in the store and reads the stored count back
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("IncrementAccessFailedCount", ctx, user.ID).Return(nil).Once()
	mockRepo.On("GetByID", ctx, user.ID).Return(&models.User{ID: user.ID, AccessFailedCount: 1}, nil).Once()
	_, err = identity.VerifyCredentials(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Equal(t, 1, user.AccessFailedCount)

	// Failures counted by concurrent logins are taken into account
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("IncrementAccessFailedCount", ctx, user.ID).Return(nil).Once()
	mockRepo.On("GetByID", ctx, user.ID).Return(&models.User{ID: user.ID, AccessFailedCount: 3}, nil).Once()
	mockRepo.On("UpdateLockout", ctx, user).Return(nil).Once()
	_, err = identity.VerifyCredentials(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, services.ErrLockedOut)
	assert.NotNil(t, user.LockoutEnd)

	// Unknown user
	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, err = identity.VerifyCredentials(ctx, "nobody@example.com", "Senha@123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestIdentityService_UnknownEmailStillComparesPassword(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	identity := services.NewIdentityService(mockRepo, testOptions())

	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repositories.ErrNotFound)

	// Warm up the shared hash so only the comparison is measured.
	_, _ = identity.VerifyCredentials(ctx, "nobody@example.com", "Senha@123")

	start := time.Now()
	_, err := identity.VerifyCredentials(ctx, "nobody@example.com", "Senha@123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond, "unknown emails must cost a bcrypt comparison")
	mockRepo.AssertNotCalled(t, "IncrementAccessFailedCount", mock.Anything, mock.Anything)
}

func TestIdentityService_Lockout(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	now := time.Now()
	opts := testOptions()
	opts.Now = func() time.Time { return now }
	identity := services.NewIdentityService(mockRepo, opts)

	user := userWithPassword(t, "Senha@123")
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	mockRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	mockRepo.On("IncrementAccessFailedCount", ctx, user.ID).Return(nil).Run(func(mock.Arguments) {
		user.AccessFailedCount++
	})
	mockRepo.On("UpdateLockout", ctx, user).Return(nil)

	for i := 1; i < opts.MaxFailedAttempts; i++ {
		_, err := identity.VerifyCredentials(ctx, user.Email, "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	}

	// The attempt reaching the limit locks the account
	_, err := identity.VerifyCredentials(ctx, user.Email, "wrong")
	assert.ErrorIs(t, err, services.ErrLockedOut)
	require.NotNil(t, user.LockoutEnd)
	assert.Equal(t, now.Add(opts.LockoutDuration), *user.LockoutEnd)
	assert.Zero(t, user.AccessFailedCount)

	// Even the right password is refused while locked
	_, err = identity.VerifyCredentials(ctx, user.Email, "Senha@123")
	assert.ErrorIs(t, err, services.ErrLockedOut)

	// Once the lockout ends the login succeeds and clears it
	now = now.Add(opts.LockoutDuration + time.Second)
	_, err = identity.VerifyCredentials(ctx, user.Email, "Senha@123")
	assert.NoError(t, err)
	assert.Nil(t, user.LockoutEnd)
}

func TestIdentityService_IssueAndValidateToken(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	identity := services.NewIdentityService(mockRepo, testOptions())

	user := userWithPassword(t, "Senha@123")
	user.Claims = []models.UserClaim{
		{Type: "ExcluirFornecedor", Value: "Excluir"},
		{Type: "Permissao", Value: "ler"},
		{Type: "Permissao", Value: "escrever"},
		{Type: "exp", Value: "ignored"},
	}
	user.Roles = []models.UserRole{{Name: "Admin"}}
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := identity.IssueToken(ctx, user.Email)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, float64(3600), resp.ExpiresIn)
	assert.Equal(t, user.ID, resp.UserToken.ID)
	assert.Equal(t, user.Email, resp.UserToken.Email)
	assert.Contains(t, resp.UserToken.Claims, models.ClaimResponse{Type: "ExcluirFornecedor", Value: "Excluir"})
	assert.Contains(t, resp.UserToken.Claims, models.ClaimResponse{Type: "role", Value: "Admin"})

	claims, err := identity.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, "Excluir", claims["ExcluirFornecedor"])
	assert.Equal(t, []interface{}{"ler", "escrever"}, claims["Permissao"])
	assert.Equal(t, []interface{}{"Admin"}, claims["role"])
	assert.NotEqual(t, "ignored", claims["exp"])
	assert.NotEmpty(t, claims["jti"])
	mockRepo.AssertExpectations(t)
}

func TestIdentityService_ValidateTokenRejections(t *testing.T) {
	ctx := context.Background()
	user := userWithPassword(t, "Senha@123")

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)

	identity := services.NewIdentityService(mockRepo, testOptions())

	_, err := identity.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Expired
	expiredOpts := testOptions()
	expiredOpts.Now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	expired, err := services.NewIdentityService(mockRepo, expiredOpts).IssueToken(ctx, user.Email)
	require.NoError(t, err)
	_, err = identity.ValidateToken(expired.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Signed with another secret
	otherSecret := testOptions()
	otherSecret.Secret = "another_secret"
	forged, err := services.NewIdentityService(mockRepo, otherSecret).IssueToken(ctx, user.Email)
	require.NoError(t, err)
	_, err = identity.ValidateToken(forged.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Issued for another audience
	otherAudience := testOptions()
	otherAudience.Audience = "https://elsewhere"
	foreign, err := services.NewIdentityService(mockRepo, otherAudience).IssueToken(ctx, user.Email)
	require.NoError(t, err)
	_, err = identity.ValidateToken(foreign.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestIdentityService_AddClaim(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	identity := services.NewIdentityService(mockRepo, testOptions())

	user := &models.User{ID: "user-123", Email: "test@example.com"}
	mockRepo.On("GetByEmail", ctx, user.Email).Return(user, nil).Once()
	mockRepo.On("AddClaim", ctx, &models.UserClaim{UserID: "user-123", Type: "ExcluirFornecedor", Value: "Excluir"}).Return(nil).Once()
	assert.NoError(t, identity.AddClaim(ctx, user.Email, "ExcluirFornecedor", "Excluir"))

	assert.ErrorIs(t, identity.AddClaim(ctx, user.Email, "sub", "admin"), services.ErrReservedClaim)

	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	assert.ErrorIs(t, identity.AddClaim(ctx, "nobody@example.com", "ExcluirFornecedor", "Excluir"), repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
