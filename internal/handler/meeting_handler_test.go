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

type fakeMeetingSrv struct {
	scheduleErr error
	lastActor   models.Actor
	lastReq     dto.ScheduleMeetingRequest
	lastMentor  string
	lastStudent string
}

func (f *fakeMeetingSrv) Schedule(_ context.Context, actor models.Actor, req dto.ScheduleMeetingRequest) (*models.MeetingDetail, error) {
	f.lastActor = actor
	f.lastReq = req
	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}
	return &models.MeetingDetail{Meeting: models.Meeting{ID: "meeting-1", MeetingDate: req.MeetingDate, MeetingTime: req.MeetingTime, Status: models.MeetingScheduled}}, nil
}

func (f *fakeMeetingSrv) UpcomingForMentor(_ context.Context, mentorID string) ([]models.MeetingDetail, error) {
	f.lastMentor = mentorID
	return []models.MeetingDetail{}, nil
}

func (f *fakeMeetingSrv) OverdueForMentor(_ context.Context, mentorID string) ([]models.MeetingDetail, error) {
	f.lastMentor = mentorID
	return []models.MeetingDetail{}, nil
}

func (f *fakeMeetingSrv) UpcomingForStudent(_ context.Context, studentID string) ([]models.MeetingDetail, error) {
	f.lastStudent = studentID
	return []models.MeetingDetail{}, nil
}

func (f *fakeMeetingSrv) ForStudent(_ context.Context, actor models.Actor, studentID string) ([]models.MeetingDetail, error) {
	f.lastActor = actor
	f.lastStudent = studentID
	return []models.MeetingDetail{}, nil
}

func (f *fakeMeetingSrv) Detail(_ context.Context, mentorID, id string) (*models.MeetingDetail, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
}

func (f *fakeMeetingSrv) UpdateStatus(_ context.Context, mentorID, id string, req dto.UpdateMeetingStatusRequest) (*models.MeetingDetail, error) {
	f.lastMentor = mentorID
	return &models.MeetingDetail{Meeting: models.Meeting{ID: id, Status: models.MeetingStatus(req.Status)}}, nil
}

func TestMeetingHandlerSchedule(t *testing.T) {
	srv := &fakeMeetingSrv{}
	handler := NewMeetingHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/meetings", testParent, map[string]interface{}{
		"student_id": "student-1", "meeting_date": "2025-11-28", "meeting_time": "09:30", "duration": 20,
	})
	handler.Schedule(c)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, testParent, srv.lastActor)
	require.NotNil(t, srv.lastReq.Duration)
	assert.Equal(t, 20, *srv.lastReq.Duration)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"meeting-1"`)
}

func TestMeetingHandlerScheduleConflict(t *testing.T) {
	handler := NewMeetingHandler(&fakeMeetingSrv{scheduleErr: appErrors.Clone(appErrors.ErrConflict, "mentor already has a meeting in that time slot")})

	c, rec := newTestContext(http.MethodPost, "/meetings", testMentor, map[string]interface{}{
		"student_id": "student-1", "meeting_date": "2025-11-28", "meeting_time": "09:15",
	})
	handler.Schedule(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrConflict.Code, envelope.Error.Code)
}

func TestMeetingHandlerScheduleBadJSON(t *testing.T) {
	handler := NewMeetingHandler(&fakeMeetingSrv{})
	c, rec := newTestContext(http.MethodPost, "/meetings", testStudent, "not-an-object")
	handler.Schedule(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeetingHandlerRoleScopedViews(t *testing.T) {
	srv := &fakeMeetingSrv{}
	handler := NewMeetingHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/meetings/upcoming", testMentor, nil)
	handler.Upcoming(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mentor-1", srv.lastMentor)

	c, rec = newTestContext(http.MethodGet, "/meetings/upcoming", testStudent, nil)
	handler.Upcoming(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/meetings/student/me", testStudent, nil)
	handler.StudentMine(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-1", srv.lastStudent)

	c, rec = newTestContext(http.MethodGet, "/meetings/student/student-9", testParent, nil)
	withParam(c, "student_id", "student-9")
	handler.ForStudent(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-9", srv.lastStudent)
	assert.Equal(t, testParent, srv.lastActor)

	c, rec = newTestContext(http.MethodGet, "/meetings/details/m1", testMentor, nil)
	withParam(c, "id", "m1")
	handler.Detail(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMeetingHandlerUpdateStatus(t *testing.T) {
	srv := &fakeMeetingSrv{}
	handler := NewMeetingHandler(srv)

	c, rec := newTestContext(http.MethodPut, "/meetings/m1", testMentor, map[string]string{"status": "done"})
	withParam(c, "id", "m1")
	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"done"`)
}
