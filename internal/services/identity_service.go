package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"fornecedores/internal/config"
	"fornecedores/internal/models"
	"fornecedores/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already has an account.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLockedOut is returned while an account is locked after too many failed logins.
	ErrLockedOut = errors.New("user is locked out")
	// ErrInvalidToken is returned when a bearer token fails validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrReservedClaim is returned when granting a claim whose type is set by the token issuer.
	ErrReservedClaim = errors.New("reserved claim type")
)

var (
	unknownUserHashOnce sync.Once
	unknownUserHashed   []byte
)

// unknownUserHash returns a bcrypt hash compared against when the email has no account.
func unknownUserHash() []byte {
	unknownUserHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to prepare unknown user hash: %v", err)
			return
		}
		unknownUserHashed = hash
	})
	return unknownUserHashed
}

// IdentityOptions configures token issuance and lockout.
type IdentityOptions struct {
	Secret            string
	Issuer            string
	Audience          string
	TokenDuration     time.Duration
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	Now               func() time.Time // defaults to time.Now
}

// IdentityOptionsFromConfig maps application config onto IdentityOptions.
func IdentityOptionsFromConfig(cfg *config.Config) IdentityOptions {
	return IdentityOptions{
		Secret:            cfg.JWTSecret,
		Issuer:            cfg.JWTIssuer,
		Audience:          cfg.JWTAudience,
		TokenDuration:     cfg.JWTExpiration,
		MaxFailedAttempts: cfg.LockoutMaxFailedAttempts,
		LockoutDuration:   cfg.LockoutDuration,
	}
}

// IdentityService creates accounts, verifies credentials and issues bearer tokens.
type IdentityService struct {
	userRepo repositories.UserRepository
	opts     IdentityOptions
	secret   []byte
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(userRepo repositories.UserRepository, opts IdentityOptions) *IdentityService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &IdentityService{
		userRepo: userRepo,
		opts:     opts,
		secret:   []byte(opts.Secret),
	}
}

// Register creates an account with a bcrypt hashed password. No confirmation
// flow exists, so the email is confirmed on creation.
func (s *IdentityService) Register(ctx context.Context, email, password string) (*models.User, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          email,
		PasswordHash:   string(hashedPassword),
		EmailConfirmed: true,
		LockoutEnabled: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration won the race between lookup and insert.
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// VerifyCredentials checks email and password, maintaining the failed attempt
// counter. Reaching the configured maximum locks the account.
func (s *IdentityService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Spend the same bcrypt time as a real comparison.
			_ = bcrypt.CompareHashAndPassword(unknownUserHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	now := s.opts.Now()
	if user.IsLockedOut(now) {
		return nil, ErrLockedOut
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !user.LockoutEnabled {
			return nil, ErrInvalidCredentials
		}
		return nil, s.recordFailure(ctx, user, now)
	}

	if user.AccessFailedCount > 0 || user.LockoutEnd != nil {
		user.AccessFailedCount = 0
		user.LockoutEnd = nil
		if err := s.userRepo.UpdateLockout(ctx, user); err != nil {
			log.Printf("Failed to reset lockout of user %s: %v", user.ID, err)
		}
	}
	return user, nil
}

func (s *IdentityService) recordFailure(ctx context.Context, user *models.User, now time.Time) error {
	if err := s.userRepo.IncrementAccessFailedCount(ctx, user.ID); err != nil {
		log.Printf("Failed to record failed login of user %s: %v", user.ID, err)
		return ErrInvalidCredentials
	}
	current, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		log.Printf("Failed to reload user %s after failed login: %v", user.ID, err)
		return ErrInvalidCredentials
	}
	user.AccessFailedCount = current.AccessFailedCount
	if user.AccessFailedCount < s.opts.MaxFailedAttempts {
		return ErrInvalidCredentials
	}

	end := now.Add(s.opts.LockoutDuration)
	user.LockoutEnd = &end
	user.AccessFailedCount = 0
	if err := s.userRepo.UpdateLockout(ctx, user); err != nil {
		log.Printf("Failed to lock out user %s: %v", user.ID, err)
	}
	log.Printf("User %s locked out until %s", user.ID, end.Format(time.RFC3339))
	return ErrLockedOut
}

// AddClaim grants a claim to the user registered under email.
func (s *IdentityService) AddClaim(ctx context.Context, email, claimType, value string) error {
	if reservedClaims[claimType] {
		return fmt.Errorf("%w: %s", ErrReservedClaim, claimType)
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user %s: %w", email, err)
	}
	return s.userRepo.AddClaim(ctx, &models.UserClaim{UserID: user.ID, Type: claimType, Value: value})
}
