package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type stubMentorProfiles struct {
	profile *models.MentorProfile
	updated string
}

func (s *stubMentorProfiles) Profile(ctx context.Context, id string) (*models.MentorProfile, error) {
	if s.profile == nil || s.profile.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *s.profile
	return &copied, nil
}

func (s *stubMentorProfiles) UpdateProfile(ctx context.Context, id, name string, department, availability *string) error {
	if s.profile == nil || s.profile.ID != id {
		return sql.ErrNoRows
	}
	s.updated = name
	s.profile.Name = name
	s.profile.Department = department
	return nil
}

type stubMentees struct {
	mentees []models.Mentee
	err     error
}

func (s *stubMentees) ListMentees(ctx context.Context, mentorID string) ([]models.Mentee, error) {
	return s.mentees, s.err
}

func (s *stubMentees) ListOverview(ctx context.Context) ([]models.StudentOverview, error) {
	return nil, s.err
}

func TestMentorProfileUpdate(t *testing.T) {
	profiles := &stubMentorProfiles{profile: &models.MentorProfile{Mentor: models.Mentor{ID: mentorRao, Name: "Dr. Rao"}, MenteeCount: 3}}
	svc := NewMentorService(profiles, &stubMentees{}, nil, nil)

	dept := "Physics"
	profile, err := svc.UpdateProfile(context.Background(), mentorRao, dto.UpdateMentorProfileRequest{Name: "  Dr. A. Rao ", Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, "Dr. A. Rao", profile.Name)
	assert.Equal(t, 3, profile.MenteeCount)
	require.NotNil(t, profile.Department)
	assert.Equal(t, "Physics", *profile.Department)

	_, err = svc.UpdateProfile(context.Background(), mentorRao, dto.UpdateMentorProfileRequest{Name: "   "})
	assertCode(t, err, appErrors.ErrValidation)

	_, err = svc.UpdateProfile(context.Background(), mentorIto, dto.UpdateMentorProfileRequest{Name: "Ito"})
	assertCode(t, err, appErrors.ErrNotFound)
}

func TestMentorMenteesErrors(t *testing.T) {
	svc := NewMentorService(&stubMentorProfiles{}, &stubMentees{err: errors.New("db down")}, nil, nil)

	_, err := svc.Mentees(context.Background(), mentorRao)
	assertCode(t, err, appErrors.ErrInternal)

	_, err = svc.AllStudents(context.Background())
	assertCode(t, err, appErrors.ErrInternal)

	_, err = svc.Profile(context.Background(), mentorRao)
	assertCode(t, err, appErrors.ErrNotFound)
}
