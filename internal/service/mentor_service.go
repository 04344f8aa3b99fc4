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

type mentorProfileStore interface {
	Profile(ctx context.Context, id string) (*models.MentorProfile, error)
	UpdateProfile(ctx context.Context, id, name string, department, availability *string) error
}

type menteeLister interface {
	ListMentees(ctx context.Context, mentorID string) ([]models.Mentee, error)
	ListOverview(ctx context.Context) ([]models.StudentOverview, error)
}

// MentorService serves a mentor's own profile and caseload.
type MentorService struct {
	mentors   mentorProfileStore
	students  menteeLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorService constructs a MentorService.
func NewMentorService(mentors mentorProfileStore, students menteeLister, validate *validator.Validate, logger *zap.Logger) *MentorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorService{mentors: mentors, students: students, validator: validate, logger: logger}
}

// Mentees lists every student the mentor has been assigned.
func (s *MentorService) Mentees(ctx context.Context, mentorID string) ([]models.Mentee, error) {
	mentees, err := s.students.ListMentees(ctx, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentees")
	}
	return mentees, nil
}

// AllStudents lists every student with their current mentor, if any.
func (s *MentorService) AllStudents(ctx context.Context) ([]models.StudentOverview, error) {
	students, err := s.students.ListOverview(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Profile returns the mentor's profile with the active mentee count.
func (s *MentorService) Profile(ctx context.Context, mentorID string) (*models.MentorProfile, error) {
	profile, err := s.mentors.Profile(ctx, mentorID)
	if err != nil {
		return nil, storeError(err, "mentor profile not found", "failed to load mentor profile")
	}
	return profile, nil
}

// UpdateProfile edits the mentor's profile.
func (s *MentorService) UpdateProfile(ctx context.Context, mentorID string, req dto.UpdateMentorProfileRequest) (*models.MentorProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name cannot be blank")
	}
	if err := s.mentors.UpdateProfile(ctx, mentorID, name, req.Department, req.Availability); err != nil {
		return nil, storeError(err, "mentor profile not found", "failed to update mentor profile")
	}
	s.logger.Info("mentor profile updated", zap.String("mentor_id", mentorID))
	return s.Profile(ctx, mentorID)
}
