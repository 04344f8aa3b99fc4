package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type assignmentStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Assignment, error)
	FindActiveByStudent(ctx context.Context, exec sqlx.ExtContext, studentID string) (*models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, int, error)
	UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus, endDate *string) error
}

type mentorLookup interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Mentor, error)
}

type studentLookup interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Student, error)
}

// AssignmentService pairs mentors with students.
type AssignmentService struct {
	tx          txProvider
	assignments assignmentStore
	mentors     mentorLookup
	students    studentLookup
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(tx txProvider, assignments assignmentStore, mentors mentorLookup, students studentLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{tx: tx, assignments: assignments, mentors: mentors, students: students, cache: cache, validator: validate, logger: logger}
}

// Assign creates an assignment on behalf of an admin.
func (s *AssignmentService) Assign(ctx context.Context, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	return s.create(ctx, req.MentorID, req.StudentID, req.StartDate, req.EndDate)
}

// SelfAssign lets a mentor take on a student.
func (s *AssignmentService) SelfAssign(ctx context.Context, mentorID string, req dto.SelfAssignRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	return s.create(ctx, mentorID, req.StudentID, req.StartDate, req.EndDate)
}

func (s *AssignmentService) create(ctx context.Context, mentorID, studentID, startDate, endDate string) (assignment *models.Assignment, err error) {
	if err := checkDateOrder(startDate, endDate); err != nil {
		return nil, err
	}

	tx, err := s.tx.BeginTxx(ctx, serializable)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = s.mentors.FindByID(ctx, tx, mentorID); err != nil {
		return nil, storeError(err, "mentor not found", "failed to load mentor")
	}
	if _, err = s.students.FindByID(ctx, tx, studentID); err != nil {
		return nil, storeError(err, "student not found", "failed to load student")
	}
	_, err = s.assignments.FindActiveByStudent(ctx, tx, studentID)
	switch {
	case err == nil:
		err = appErrors.Clone(appErrors.ErrConflict, "student already has an active assignment")
		return nil, err
	case errors.Is(err, sql.ErrNoRows):
	default:
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check active assignment")
		return nil, err
	}

	assignment = &models.Assignment{
		MentorID:  mentorID,
		StudentID: studentID,
		StartDate: startDate,
		EndDate:   optionalString(endDate),
		Status:    models.AssignmentActive,
	}
	if err = s.assignments.Create(ctx, tx, assignment); err != nil {
		return nil, storeError(err, "assignment not found", "failed to create assignment")
	}
	if err = tx.Commit(); err != nil {
		return nil, storeError(err, "assignment not found", "failed to commit assignment")
	}

	_ = s.cache.Invalidate(ctx, dashboardCacheKey(mentorID))
	s.logger.Info("assignment created", zap.String("assignment_id", assignment.ID), zap.String("mentor_id", mentorID), zap.String("student_id", studentID))
	return assignment, nil
}

// List returns assignments with names and pagination metadata.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, *models.Pagination, error) {
	items, total, err := s.assignments.List(ctx, filter)
	if err != nil {
		s.logger.Error("list assignments failed", zap.Error(err))
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	page, pageSize := models.Normalize(filter.Page, filter.PageSize)
	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Update changes an assignment's status. Reactivating while another assignment
// is active for the student is a conflict.
func (s *AssignmentService) Update(ctx context.Context, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	current, err := s.assignments.FindByID(ctx, nil, id)
	if err != nil {
		return nil, storeError(err, "assignment not found", "failed to load assignment")
	}
	if err := checkDateOrder(current.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.assignments.UpdateStatus(ctx, id, models.AssignmentStatus(req.Status), optionalString(req.EndDate)); err != nil {
		return nil, storeError(err, "assignment not found", "failed to update assignment")
	}

	_ = s.cache.Invalidate(ctx, dashboardCacheKey(current.MentorID))
	updated, err := s.assignments.FindByID(ctx, nil, id)
	if err != nil {
		return nil, storeError(err, "assignment not found", "failed to load assignment")
	}
	return updated, nil
}

func checkDateOrder(startDate, endDate string) error {
	if endDate == "" {
		return nil
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	return nil
}
