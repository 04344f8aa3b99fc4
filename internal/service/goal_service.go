package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type goalStore interface {
	Create(ctx context.Context, goal *models.Goal) error
	ListByStudent(ctx context.Context, studentID string) ([]models.GoalDetail, error)
	ListByStudentForMentor(ctx context.Context, studentID, mentorID string) ([]models.GoalDetail, error)
	ListByMentor(ctx context.Context, mentorID string, activeOnly bool) ([]models.GoalDetail, error)
	Update(ctx context.Context, id, mentorID string, patch models.GoalPatch) (*models.Goal, error)
	MarkStatus(ctx context.Context, id, studentID string, status models.GoalStatus) (*models.Goal, error)
	Delete(ctx context.Context, id, mentorID string) error
}

type assignmentReader interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Assignment, error)
}

// ownedAssignment loads an assignment and checks it belongs to the mentor and the student.
func ownedAssignment(ctx context.Context, assignments assignmentReader, mentorID, assignmentID, studentID string, requireActive bool) (*models.Assignment, error) {
	assignment, err := assignments.FindByID(ctx, nil, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.MentorID != mentorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another mentor")
	}
	if studentID != "" && assignment.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignment does not belong to this student")
	}
	if requireActive && assignment.Status != models.AssignmentActive {
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment is not active")
	}
	return assignment, nil
}

// GoalService manages mentee goals.
type GoalService struct {
	goals       goalStore
	assignments assignmentReader
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGoalService constructs a GoalService.
func NewGoalService(goals goalStore, assignments assignmentReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *GoalService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoalService{goals: goals, assignments: assignments, cache: cache, validator: validate, logger: logger}
}

// Create sets a goal under one of the mentor's active assignments.
func (s *GoalService) Create(ctx context.Context, mentorID string, req dto.CreateGoalRequest) (*models.Goal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal payload")
	}
	assignment, err := ownedAssignment(ctx, s.assignments, mentorID, req.AssignmentID, req.StudentID, true)
	if err != nil {
		return nil, err
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.GoalPriority(req.Priority)
	}
	goal := &models.Goal{
		AssignmentID: assignment.ID,
		MentorID:     mentorID,
		StudentID:    assignment.StudentID,
		Title:        strings.TrimSpace(req.Title),
		Description:  optionalString(strings.TrimSpace(req.Description)),
		TargetDate:   req.TargetDate,
		Status:       models.GoalOpen,
		Priority:     priority,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		s.logger.Error("failed to create goal", zap.String("mentor_id", mentorID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create goal")
	}
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(mentorID))
	return goal, nil
}

// ForStudentSelf lists the student's own goals.
func (s *GoalService) ForStudentSelf(ctx context.Context, studentID string) ([]models.GoalDetail, error) {
	goals, err := s.goals.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list goals")
	}
	return goals, nil
}

// ForStudent lists the goals the mentor set for a student.
func (s *GoalService) ForStudent(ctx context.Context, mentorID, studentID string) ([]models.GoalDetail, error) {
	goals, err := s.goals.ListByStudentForMentor(ctx, studentID, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list goals")
	}
	return goals, nil
}

// ForMentor lists the mentor's goals, optionally only unfinished ones.
func (s *GoalService) ForMentor(ctx context.Context, mentorID string, activeOnly bool) ([]models.GoalDetail, error) {
	goals, err := s.goals.ListByMentor(ctx, mentorID, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list goals")
	}
	return goals, nil
}

// Update applies a partial update to one of the mentor's goals.
func (s *GoalService) Update(ctx context.Context, mentorID, id string, req dto.UpdateGoalRequest) (*models.Goal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal payload")
	}

	patch := models.GoalPatch{Description: req.Description, TargetDate: req.TargetDate}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title cannot be blank")
		}
		patch.Title = &title
	}
	if req.Status != nil {
		status := models.GoalStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := models.GoalPriority(*req.Priority)
		patch.Priority = &priority
	}

	goal, err := s.goals.Update(ctx, id, mentorID, patch)
	if err != nil {
		return nil, storeError(err, "goal not found", "failed to update goal")
	}
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(mentorID))
	return goal, nil
}

// Mark lets a student move their own goal to a new status.
func (s *GoalService) Mark(ctx context.Context, studentID, id string, req dto.MarkGoalRequest) (*models.Goal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid goal status")
	}
	goal, err := s.goals.MarkStatus(ctx, id, studentID, models.GoalStatus(req.Status))
	if err != nil {
		return nil, storeError(err, "goal not found", "failed to update goal")
	}
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(goal.MentorID))
	return goal, nil
}

// Delete removes one of the mentor's goals.
func (s *GoalService) Delete(ctx context.Context, mentorID, id string) error {
	if err := s.goals.Delete(ctx, id, mentorID); err != nil {
		return storeError(err, "goal not found", "failed to delete goal")
	}
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(mentorID))
	return nil
}
