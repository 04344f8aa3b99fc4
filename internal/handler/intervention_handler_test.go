package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type fakeInterventionSrv struct {
	lastMentor string
	lastID     string
	lastCreate dto.CreateInterventionRequest
	updateErr  error
}

func (f *fakeInterventionSrv) Create(_ context.Context, mentorID string, req dto.CreateInterventionRequest) (*models.Intervention, error) {
	f.lastMentor = mentorID
	f.lastCreate = req
	return &models.Intervention{ID: "int-1", MentorID: mentorID, Type: "other", Status: models.InterventionPending}, nil
}

func (f *fakeInterventionSrv) ForStudent(_ context.Context, mentorID, studentID string) ([]models.InterventionDetail, error) {
	f.lastMentor = mentorID
	return []models.InterventionDetail{}, nil
}

func (f *fakeInterventionSrv) Active(_ context.Context, mentorID string) ([]models.InterventionDetail, error) {
	f.lastMentor = mentorID
	return []models.InterventionDetail{}, nil
}

func (f *fakeInterventionSrv) UpdateStatus(_ context.Context, mentorID, id string, req dto.UpdateInterventionRequest) (*models.Intervention, error) {
	f.lastMentor = mentorID
	f.lastID = id
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &models.Intervention{ID: id, Status: models.InterventionStatus(req.Status)}, nil
}

func TestInterventionHandlerCreate(t *testing.T) {
	srv := &fakeInterventionSrv{}
	handler := NewInterventionHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/interventions", testMentor, map[string]interface{}{
		"assignment_id": "a1", "student_id": "student-1", "action_date": "2026-01-10",
	})
	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "mentor-1", srv.lastMentor)
	assert.Equal(t, "2026-01-10", srv.lastCreate.ActionDate)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"pending"`)
}

func TestInterventionHandlerRequiresMentor(t *testing.T) {
	srv := &fakeInterventionSrv{}
	handler := NewInterventionHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/interventions/active/all", testStudent, nil)
	handler.Active(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, srv.lastMentor)
}

func TestInterventionHandlerUpdateNotFound(t *testing.T) {
	srv := &fakeInterventionSrv{updateErr: appErrors.Clone(appErrors.ErrNotFound, "intervention not found")}
	handler := NewInterventionHandler(srv)

	c, rec := newTestContext(http.MethodPut, "/interventions/int-9", testMentor, map[string]interface{}{"status": "completed"})
	withParam(c, "id", "int-9")
	handler.Update(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "int-9", srv.lastID)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Error.Code)
}
