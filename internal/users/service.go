package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborline/slopchest-backend/pkg/auth"
	"github.com/harborline/slopchest-backend/pkg/config"
	"github.com/harborline/slopchest-backend/pkg/db/models"
	"github.com/harborline/slopchest-backend/pkg/enums"
	pkgerrors "github.com/harborline/slopchest-backend/pkg/errors"
	"github.com/harborline/slopchest-backend/pkg/security"
)

const minPINLength = 4

// Service manages cashier accounts and PIN authentication.
type Service interface {
	Login(ctx context.Context, name, pin string) (*LoginResult, error)
	ChangePIN(ctx context.Context, userID, currentPIN, newPIN string) error
	CreateUser(ctx context.Context, input UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id string, input UserInput) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SeedAdmin(ctx context.Context, name, pin string) error
}

// LoginResult carries the bearer token and the account it belongs to.
// RequireChange tells the client to force a PIN rotation before anything
// else.
type LoginResult struct {
	Token         string       `json:"token"`
	User          *models.User `json:"user"`
	RequireChange bool         `json:"require_change"`
}

// UserInput carries the fields an admin can set on an account. PIN is
// only applied when non-empty.
type UserInput struct {
	Name string
	Role enums.UserRole
	PIN  string
}

type service struct {
	repo   Repository
	jwtCfg config.JWTConfig
	pinCfg config.PINConfig
}

// NewService wires a user service with its repository and auth settings.
func NewService(repo Repository, jwtCfg config.JWTConfig, pinCfg config.PINConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, pinCfg: pinCfg}, nil
}

// Login verifies the PIN and mints a bearer token. A bad name and a bad
// PIN return the same error so the response does not leak which accounts
// exist.
func (s *service) Login(ctx context.Context, name, pin string) (*LoginResult, error) {
	if strings.TrimSpace(name) == "" || pin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and pin are required")
	}

	user, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPIN(pin, user.PINHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify pin")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := auth.MintAccessToken(s.jwtCfg, time.Now(), auth.AccessTokenPayload{
		UserID:   user.ID,
		UserName: user.Name,
		Role:     user.Role,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &LoginResult{Token: token, User: user, RequireChange: user.RequireChange}, nil
}

// ChangePIN rotates the caller's PIN and clears the require-change flag.
func (s *service) ChangePIN(ctx context.Context, userID, currentPIN, newPIN string) error {
	if len(newPIN) < minPINLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("pin must be at least %d digits", minPINLength))
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPIN(currentPIN, user.PINHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify pin")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	hash, err := security.HashPIN(newPIN, s.pinCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
	}
	user.PINHash = hash
	user.RequireChange = false

	if err := s.repo.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return nil
}

// CreateUser opens a new account. New accounts must rotate their PIN on
// first login.
func (s *service) CreateUser(ctx context.Context, input UserInput) (*models.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user name is required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", input.Role))
	}
	if len(input.PIN) < minPINLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("pin must be at least %d digits", minPINLength))
	}

	hash, err := security.HashPIN(input.PIN, s.pinCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Role:          input.Role,
		PINHash:       hash,
		RequireChange: true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

func (s *service) UpdateUser(ctx context.Context, id string, input UserInput) (*models.User, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user name is required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", input.Role))
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	user.Name = input.Name
	user.Role = input.Role
	if input.PIN != "" {
		if len(input.PIN) < minPINLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("pin must be at least %d digits", minPINLength))
		}
		hash, err := security.HashPIN(input.PIN, s.pinCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
		}
		user.PINHash = hash
		user.RequireChange = true
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return users, nil
}

// SeedAdmin creates the bootstrap admin account when the user table is
// empty, so a fresh install can log in at all.
func (s *service) SeedAdmin(ctx context.Context, name, pin string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	if count > 0 {
		return nil
	}
	_, err = s.CreateUser(ctx, UserInput{Name: name, Role: enums.UserRoleAdmin, PIN: pin})
	return err
}
