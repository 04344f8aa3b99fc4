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
	"github.com/noah-isme/mentortrack-api/pkg/database"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type registrationUserStore interface {
	GetByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*models.User, error)
	Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
}

type registrationMentorStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, mentor *models.Mentor) error
}

type registrationParentStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, parent *models.Parent) error
	FindByUserID(ctx context.Context, exec sqlx.ExtContext, userID string) (*models.Parent, error)
}

type registrationStudentStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error
}

// RegistrationService creates accounts together with their role profile in one transaction.
type RegistrationService struct {
	tx        txProvider
	users     registrationUserStore
	mentors   registrationMentorStore
	parents   registrationParentStore
	students  registrationStudentStore
	validator *validator.Validate
	logger    *zap.Logger
	hashCost  int
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(tx txProvider, users registrationUserStore, mentors registrationMentorStore, parents registrationParentStore, students registrationStudentStore, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		tx:        tx,
		users:     users,
		mentors:   mentors,
		parents:   parents,
		students:  students,
		validator: validate,
		logger:    logger,
		hashCost:  bcrypt.DefaultCost,
	}
}

// RegisterMentor creates a mentor account and profile.
func (s *RegistrationService) RegisterMentor(ctx context.Context, req dto.RegisterMentorRequest) (result *dto.RegistrationResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor registration payload")
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

	user, err := s.createUser(ctx, tx, req.Email, req.Password, models.RoleMentor)
	if err != nil {
		return nil, err
	}
	mentor := &models.Mentor{
		UserID:       user.ID,
		Name:         strings.TrimSpace(req.Name),
		Email:        user.Email,
		Department:   optionalString(req.Department),
		Availability: optionalString(req.Availability),
	}
	if err = s.mentors.Create(ctx, tx, mentor); err != nil {
		return nil, s.registrationError(err, "failed to create mentor profile")
	}
	if err = tx.Commit(); err != nil {
		return nil, s.registrationError(err, "failed to commit mentor registration")
	}

	s.logger.Info("mentor registered", zap.String("user_id", user.ID), zap.String("mentor_id", mentor.ID))
	return &dto.RegistrationResult{UserID: user.ID, ProfileID: mentor.ID}, nil
}

// RegisterParent creates a parent account and profile.
func (s *RegistrationService) RegisterParent(ctx context.Context, req dto.RegisterParentRequest) (result *dto.RegistrationResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid parent registration payload")
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

	user, err := s.createUser(ctx, tx, req.Email, req.Password, models.RoleParent)
	if err != nil {
		return nil, err
	}
	parent := &models.Parent{
		UserID:   user.ID,
		Name:     strings.TrimSpace(req.Name),
		Email:    user.Email,
		Phone:    optionalString(req.Phone),
		Relation: optionalString(req.Relation),
	}
	if err = s.parents.Create(ctx, tx, parent); err != nil {
		return nil, s.registrationError(err, "failed to create parent profile")
	}
	if err = tx.Commit(); err != nil {
		return nil, s.registrationError(err, "failed to commit parent registration")
	}

	s.logger.Info("parent registered", zap.String("user_id", user.ID), zap.String("parent_id", parent.ID))
	return &dto.RegistrationResult{UserID: user.ID, ProfileID: parent.ID}, nil
}

// RegisterStudent creates a student account. When parent details are present the
// student is linked to the parent with that email, creating the parent account if needed.
func (s *RegistrationService) RegisterStudent(ctx context.Context, req dto.RegisterStudentRequest) (result *dto.RegistrationResult, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student registration payload")
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

	result = &dto.RegistrationResult{}
	var parentID *string
	if strings.TrimSpace(req.ParentEmail) != "" {
		parent, created, perr := s.ensureParent(ctx, tx, req)
		if perr != nil {
			err = perr
			return nil, err
		}
		parentID = &parent.ID
		result.ParentID = parent.ID
		result.ParentCreated = created
	}

	user, err := s.createUser(ctx, tx, req.Email, req.Password, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	student := &models.Student{
		UserID:     user.ID,
		ParentID:   parentID,
		Name:       strings.TrimSpace(req.Name),
		RollNumber: strings.TrimSpace(req.RollNumber),
		Email:      user.Email,
		Phone:      optionalString(req.Phone),
		Program:    optionalString(req.Program),
		Year:       req.Year,
	}
	if err = s.students.Create(ctx, tx, student); err != nil {
		return nil, s.registrationError(err, "failed to create student profile")
	}
	if err = tx.Commit(); err != nil {
		return nil, s.registrationError(err, "failed to commit student registration")
	}

	result.UserID = user.ID
	result.ProfileID = student.ID
	s.logger.Info("student registered", zap.String("user_id", user.ID), zap.String("student_id", student.ID), zap.Bool("parent_created", result.ParentCreated))
	return result, nil
}

func (s *RegistrationService) ensureParent(ctx context.Context, exec sqlx.ExtContext, req dto.RegisterStudentRequest) (*models.Parent, bool, error) {
	email := strings.TrimSpace(req.ParentEmail)
	existing, err := s.users.GetByEmail(ctx, exec, email)
	switch {
	case err == nil:
		if existing.Role != models.RoleParent {
			return nil, false, appErrors.Clone(appErrors.ErrConflict, "parent email belongs to a non-parent account")
		}
		parent, perr := s.parents.FindByUserID(ctx, exec, existing.ID)
		if perr == nil {
			return parent, false, nil
		}
		if !errors.Is(perr, sql.ErrNoRows) {
			return nil, false, appErrors.Wrap(perr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent profile")
		}
		parent = &models.Parent{UserID: existing.ID, Name: parentName(req), Email: existing.Email, Phone: optionalString(req.ParentPhone), Relation: optionalString(req.ParentRelation)}
		if cerr := s.parents.Create(ctx, exec, parent); cerr != nil {
			return nil, false, s.registrationError(cerr, "failed to create parent profile")
		}
		return parent, false, nil
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up parent")
	}

	if req.ParentPassword == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "parent_password is required to create a new parent account")
	}
	user, err := s.createUser(ctx, exec, email, req.ParentPassword, models.RoleParent)
	if err != nil {
		return nil, false, err
	}
	parent := &models.Parent{UserID: user.ID, Name: parentName(req), Email: user.Email, Phone: optionalString(req.ParentPhone), Relation: optionalString(req.ParentRelation)}
	if err := s.parents.Create(ctx, exec, parent); err != nil {
		return nil, false, s.registrationError(err, "failed to create parent profile")
	}
	return parent, true, nil
}

func (s *RegistrationService) createUser(ctx context.Context, exec sqlx.ExtContext, email, password string, role models.UserRole) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, exec, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	user := &models.User{Email: email, PasswordHash: string(hash), Role: role}
	if err := s.users.Create(ctx, exec, user); err != nil {
		return nil, s.registrationError(err, "failed to create user")
	}
	return user, nil
}

func (s *RegistrationService) registrationError(err error, message string) error {
	if database.IsUniqueViolation(err, database.ConstraintUsersEmail) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "email already registered")
	}
	if database.IsConflict(err) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictMessage(err))
	}
	s.logger.Error(message, zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func parentName(req dto.RegisterStudentRequest) string {
	if name := strings.TrimSpace(req.ParentName); name != "" {
		return name
	}
	return "Parent of " + strings.TrimSpace(req.Name)
}
