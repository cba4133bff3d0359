// Package service contains the application's business logic layer.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/token"
	"inkwell/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login.
type AuthService struct {
	userRepo repository.UserRepository
	issuer   *token.Issuer
}

// dummyHash is compared against when the username is unknown, keeping login
// latency independent of account existence.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginInput carries the fields of a login request.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is a successful authentication outcome.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, issuer *token.Issuer) *AuthService {
	return &AuthService{userRepo: userRepo, issuer: issuer}
}

// Register validates the input, rejects duplicate identities and returns a
// session token for the newly created user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	// Pre-checks give precise duplicate messages; the unique constraints in the
	// database remain the authority under concurrency.
	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewDuplicateIdentityError("Username")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewDuplicateIdentityError("Email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Name:     in.Name,
		Role:     models.RoleUser,
		Enabled:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	signed, err := s.issuer.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: signed, User: user}, nil
}

// Login verifies the credentials and returns a session token. An unknown
// username and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Enabled {
		// Burn a hash comparison anyway so unknown usernames take as long
		// as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, models.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewInvalidCredentialsError()
	}

	signed, err := s.issuer.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: signed, User: user}, nil
}
