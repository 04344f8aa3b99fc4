package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

const defaultNoteType = "other"

type interventionStore interface {
	Create(ctx context.Context, intervention *models.Intervention) error
	ListByStudentForMentor(ctx context.Context, studentID, mentorID string) ([]models.InterventionDetail, error)
	ListActiveByMentor(ctx context.Context, mentorID string) ([]models.InterventionDetail, error)
	UpdateStatus(ctx context.Context, id, mentorID string, status models.InterventionStatus, outcome *string) (*models.Intervention, error)
}

// InterventionService records mentor interventions.
type InterventionService struct {
	interventions interventionStore
	assignments   assignmentReader
	cache         *CacheService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewInterventionService constructs an InterventionService.
func NewInterventionService(interventions interventionStore, assignments assignmentReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *InterventionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterventionService{interventions: interventions, assignments: assignments, cache: cache, validator: validate, logger: logger}
}

// Create logs a pending intervention under one of the mentor's assignments.
func (s *InterventionService) Create(ctx context.Context, mentorID string, req dto.CreateInterventionRequest) (*models.Intervention, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid intervention payload")
	}
	assignment, err := ownedAssignment(ctx, s.assignments, mentorID, req.AssignmentID, req.StudentID, false)
	if err != nil {
		return nil, err
	}

	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = defaultNoteType
	}
	intervention := &models.Intervention{
		AssignmentID: assignment.ID,
		MentorID:     mentorID,
		StudentID:    assignment.StudentID,
		Type:         kind,
		Description:  optionalString(strings.TrimSpace(req.Description)),
		ActionDate:   req.ActionDate,
		Status:       models.InterventionPending,
	}
	if err := s.interventions.Create(ctx, intervention); err != nil {
		s.logger.Error("failed to create intervention", zap.String("mentor_id", mentorID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create intervention")
	}
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(mentorID))
	return intervention, nil
}

// ForStudent lists the mentor's interventions for a student.
func (s *InterventionService) ForStudent(ctx context.Context, mentorID, studentID string) ([]models.InterventionDetail, error) {
	items, err := s.interventions.ListByStudentForMentor(ctx, studentID, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interventions")
	}
	return items, nil
}

// Active lists the mentor's pending and ongoing interventions.
func (s *InterventionService) Active(ctx context.Context, mentorID string) ([]models.InterventionDetail, error) {
	items, err := s.interventions.ListActiveByMentor(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interventions")
	}
	return items, nil
}

// UpdateStatus records progress on one of the mentor's interventions.
func (s *InterventionService) UpdateStatus(ctx context.Context, mentorID, id string, req dto.UpdateInterventionRequest) (*models.Intervention, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid intervention payload")
	}
	item, err := s.interventions.UpdateStatus(ctx, id, mentorID, models.InterventionStatus(req.Status), req.Outcome)
	if err != nil {
		return nil, storeError(err, "intervention not found", "failed to update intervention")
	}
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(mentorID))
	return item, nil
}
