package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type provisioningUserStore interface {
	GetByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*models.User, error)
	Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
	UpdateRole(ctx context.Context, exec sqlx.ExtContext, id string, role models.UserRole) error
	SetPasswordHash(ctx context.Context, exec sqlx.ExtContext, id, passwordHash string) error
}

// ProvisioningService backs the operator commands that bootstrap accounts outside the API.
type ProvisioningService struct {
	tx        txProvider
	users     provisioningUserStore
	parents   registrationParentStore
	validator *validator.Validate
	logger    *zap.Logger
	hashCost  int
}

// NewProvisioningService constructs a ProvisioningService.
func NewProvisioningService(tx txProvider, users provisioningUserStore, parents registrationParentStore, validate *validator.Validate, logger *zap.Logger) *ProvisioningService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProvisioningService{tx: tx, users: users, parents: parents, validator: validate, logger: logger, hashCost: bcrypt.DefaultCost}
}

// EnsureAdmin creates an admin account, or promotes the existing account with
// that email to admin and resets its password.
func (s *ProvisioningService) EnsureAdmin(ctx context.Context, req dto.ProvisionAdminRequest) (result *dto.ProvisionResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, tx, email)
	switch {
	case err == nil:
		result = &dto.ProvisionResult{UserID: user.ID}
		if user.Role != models.RoleAdmin {
			if err = s.users.UpdateRole(ctx, tx, user.ID, models.RoleAdmin); err != nil {
				return nil, storeError(err, "user not found", "failed to promote user")
			}
			result.RoleChanged = true
		}
		if err = s.users.SetPasswordHash(ctx, tx, user.ID, hash); err != nil {
			return nil, storeError(err, "user not found", "failed to reset password")
		}
	case errors.Is(err, sql.ErrNoRows):
		user = &models.User{Email: email, PasswordHash: hash, Role: models.RoleAdmin}
		if err = s.users.Create(ctx, tx, user); err != nil {
			return nil, storeError(err, "user not found", "failed to create admin")
		}
		result = &dto.ProvisionResult{UserID: user.ID, UserCreated: true}
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up user")
	}

	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit admin")
	}
	s.logger.Info("admin provisioned", zap.String("user_id", result.UserID), zap.Bool("created", result.UserCreated), zap.Bool("promoted", result.RoleChanged))
	return result, nil
}

// EnsureParent makes an existing account usable as a parent login. The role is
// switched to parent, a missing profile is created and the password is reset when given.
func (s *ProvisioningService) EnsureParent(ctx context.Context, req dto.EnsureParentRequest) (result *dto.ProvisionResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid parent payload")
	}
	var hash string
	if req.Password != "" {
		if hash, err = s.hash(req.Password); err != nil {
			return nil, err
		}
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	user, err := s.users.GetByEmail(ctx, tx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, storeError(err, "user not found", "failed to look up user")
	}
	result = &dto.ProvisionResult{UserID: user.ID}

	if user.Role != models.RoleParent {
		if err = s.users.UpdateRole(ctx, tx, user.ID, models.RoleParent); err != nil {
			return nil, storeError(err, "user not found", "failed to change role")
		}
		result.RoleChanged = true
	}

	parent, err := s.parents.FindByUserID(ctx, tx, user.ID)
	switch {
	case err == nil:
		result.ProfileID = parent.ID
	case errors.Is(err, sql.ErrNoRows):
		parent = &models.Parent{UserID: user.ID, Name: defaultParentName(req.Name, user.Email), Email: user.Email}
		if err = s.parents.Create(ctx, tx, parent); err != nil {
			return nil, storeError(err, "parent not found", "failed to create parent profile")
		}
		result.ProfileID = parent.ID
		result.ProfileCreated = true
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent profile")
	}

	if hash != "" {
		if err = s.users.SetPasswordHash(ctx, tx, user.ID, hash); err != nil {
			return nil, storeError(err, "user not found", "failed to reset password")
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit parent")
	}
	s.logger.Info("parent ensured", zap.String("user_id", user.ID), zap.String("parent_id", result.ProfileID), zap.Bool("profile_created", result.ProfileCreated))
	return result, nil
}

func (s *ProvisioningService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	return string(hash), nil
}

// defaultParentName falls back to the local part of the email.
func defaultParentName(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
