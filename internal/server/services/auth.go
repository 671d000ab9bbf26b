// Package services contains server-side business logic. This file implements
// AuthService, which handles account registration, login, and recovering the
// authenticated identity from an access token.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sebak/authd/internal/common"
	"github.com/sebak/authd/internal/server/auth"
	"github.com/sebak/authd/internal/server/models"
	"github.com/sebak/authd/internal/server/repositories/accounts"
)

// RegisterRequest is the transient input of Register. The plaintext password
// is owned by the caller, is never logged, and is not retained after the
// call returns.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required"`
}

// LoginResponse pairs an issued token with its validity in seconds.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// AuthService provides authentication-related operations:
// - Register: create accounts
// - Login: verify credentials and mint a token
// - Authenticate: recover the identity embedded in a token
//
// It keeps no state beyond its collaborators and is safe for concurrent use.
type AuthService struct {
	accounts accounts.Repository
	hasher   *auth.Hasher
	tokens   *auth.TokenCodec
	validate *validator.Validate
}

func NewAuthService(repo accounts.Repository, hasher *auth.Hasher, tokens *auth.TokenCodec) *AuthService {
	return &AuthService{
		accounts: repo,
		hasher:   hasher,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register validates the request, hashes the password, and persists a new
// account. The store resolves the uniqueness race; a duplicate email yields
// common.ErrEmailTaken with no partial state left behind.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.AccountView, error) {
	if err := s.validateRegister(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		Email:        NormalizeEmail(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %s", common.ErrStoreUnavailable, "error creating account")
	}

	view := created.View()
	return &view, nil
}

// Login verifies the credentials and, on success, returns a signed token
// bound to the account identity. A missing account and a wrong password are
// indistinguishable to the caller: both produce common.ErrInvalidCredentials,
// and the missing-account path still performs a hash verification so the
// timing does not differ either.
func (s *AuthService) Login(ctx context.Context, email, password string, now time.Time) (*LoginResponse, error) {
	account, err := s.accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %s", common.ErrStoreUnavailable, "error fetching account")
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(auth.Identity{AccountID: account.ID, Email: account.Email}, now)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
	}, nil
}

// Authenticate verifies an access token and returns the identity claim it
// carries. Any failure collapses to common.ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, token string, now time.Time) (auth.Identity, error) {
	return s.tokens.Verify(token, now)
}

// NormalizeEmail implements the case-insensitivity policy for email
// uniqueness and lookup: emails are compared and stored lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) validateRegister(req RegisterRequest) error {
	fields := make(map[string]string)

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return common.ErrorInternal
		}
		for _, fe := range verrs {
			fields[fieldName(fe)] = fieldMessage(fe)
		}
	}

	// The max=72 tag counts runes, but bcrypt rejects inputs over 72 bytes.
	if _, ok := fields["password"]; !ok && len(req.Password) > auth.MaxPasswordLength {
		fields["password"] = fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordLength)
	}

	if len(fields) == 0 {
		return nil
	}
	return common.NewValidationError(fields)
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "FullName":
		return "fullName"
	default:
		return fe.Field()
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
