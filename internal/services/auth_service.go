package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"ratlist/internal/models"
	"ratlist/internal/oauth"
	"ratlist/internal/repositories"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for every failed local login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownUser and ErrInvalidPassword tell the two failure outcomes apart
	// for logging; both match ErrInvalidCredentials.
	ErrUnknownUser     = fmt.Errorf("unknown user: %w", ErrInvalidCredentials)
	ErrInvalidPassword = fmt.Errorf("invalid password: %w", ErrInvalidCredentials)
	// ErrValidation is returned when a record fails boundary validation.
	ErrValidation = errors.New("validation failed")
)

// AuthService handles local credential checks and OAuth identity mapping.
type AuthService struct {
	userRepo repositories.UserRepository
	validate *validator.Validate
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		validate: validator.New(),
	}
}

// RegisterUser creates a local user with a bcrypt password hash.
func (s *AuthService) RegisterUser(ctx context.Context, username, password, firstName, lastName string) (*models.User, error) {
	user := &models.User{
		Username:  strings.TrimSpace(username),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
	if err := s.validate.Struct(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.validate.Var(password, "required,min=6"); err != nil {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// VerifyCredentials looks up username and checks password against the stored hash.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// users created through OAuth have no local password
	if user.PasswordHash == "" {
		return nil, ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return user, nil
}

// ResolveOAuthUser maps a provider profile onto a local user keyed by email.
// An existing user is returned as stored; its name fields are not refreshed.
func (s *AuthService) ResolveOAuthUser(ctx context.Context, profile *oauth.Profile) (*models.User, error) {
	candidate := &models.User{
		ProviderID: profile.ID,
		Username:   strings.TrimSpace(profile.Email),
		FirstName:  profile.GivenName,
		LastName:   profile.FamilyName,
	}
	if err := s.validate.Struct(candidate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, created, err := s.userRepo.FindOrCreate(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %s: %w", candidate.Username, err)
	}
	if created {
		log.Printf("Created user %s from provider profile %s", user.Username, profile.ID)
	}
	return user, nil
}
