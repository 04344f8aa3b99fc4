package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type stubNoteStore struct {
	meetingNotes []*models.MeetingNote
	generalNotes []*models.GeneralNote
	listedFor    string
}

func (s *stubNoteStore) CreateMeetingNote(ctx context.Context, note *models.MeetingNote) error {
	s.meetingNotes = append(s.meetingNotes, note)
	return nil
}

func (s *stubNoteStore) ListByMeeting(ctx context.Context, meetingID string) ([]models.MeetingNoteDetail, error) {
	return []models.MeetingNoteDetail{{MeetingNote: models.MeetingNote{MeetingID: meetingID}}}, nil
}

func (s *stubNoteStore) ListMeetingNotesByStudent(ctx context.Context, studentID, mentorID string) ([]models.MeetingNoteDetail, error) {
	s.listedFor = mentorID
	return nil, nil
}

func (s *stubNoteStore) CreateGeneralNote(ctx context.Context, note *models.GeneralNote) error {
	s.generalNotes = append(s.generalNotes, note)
	return nil
}

func (s *stubNoteStore) ListGeneralByStudent(ctx context.Context, studentID, mentorID string) ([]models.GeneralNote, error) {
	return nil, nil
}

func (s *stubNoteStore) UpdateGeneralNote(ctx context.Context, id, mentorID, noteType, content string) (*models.GeneralNote, error) {
	return &models.GeneralNote{ID: id, MentorID: mentorID, Type: noteType, Content: content}, nil
}

const meetingBen = "66666666-6666-4666-8666-000000000001"

func newNoteFixture() (*NoteService, *stubNoteStore) {
	meetings := &fakeMeetingStore{meetings: []models.Meeting{{ID: meetingBen, MentorID: mentorRao, StudentID: studentBen}}}
	assignments := &fakeAssignmentStore{assignments: []models.Assignment{{ID: assignmentBen, MentorID: mentorRao, StudentID: studentBen, Status: models.AssignmentEnded}}}
	store := &stubNoteStore{}
	return NewNoteService(store, meetings, assignments, nil, nil), store
}

func TestAddMeetingNoteDefaultsStudent(t *testing.T) {
	svc, store := newNoteFixture()

	note, err := svc.AddMeetingNote(context.Background(), mentorRao, dto.CreateMeetingNoteRequest{MeetingID: meetingBen, Content: "Discussed exam plan"})
	require.NoError(t, err)
	assert.Equal(t, studentBen, note.StudentID)
	assert.Len(t, store.meetingNotes, 1)

	_, err = svc.AddMeetingNote(context.Background(), mentorIto, dto.CreateMeetingNoteRequest{MeetingID: meetingBen, Content: "x"})
	assertCode(t, err, appErrors.ErrForbidden)

	_, err = svc.AddMeetingNote(context.Background(), mentorRao, dto.CreateMeetingNoteRequest{MeetingID: meetingBen, StudentID: studentAna, Content: "x"})
	assertCode(t, err, appErrors.ErrValidation)
	assert.Len(t, store.meetingNotes, 1)
}

func TestMeetingNotesVisibility(t *testing.T) {
	svc, store := newNoteFixture()
	ctx := context.Background()

	_, err := svc.ForMeeting(ctx, models.NewMentorActor("u", mentorRao, ""), meetingBen)
	require.NoError(t, err)
	_, err = svc.ForMeeting(ctx, models.NewStudentActor("u", studentBen, ""), meetingBen)
	require.NoError(t, err)
	_, err = svc.ForMeeting(ctx, models.NewStudentActor("u", studentAna, ""), meetingBen)
	assertCode(t, err, appErrors.ErrForbidden)
	_, err = svc.ForMeeting(ctx, models.NewParentActor("u", parentPat, ""), meetingBen)
	assertCode(t, err, appErrors.ErrForbidden)

	_, err = svc.MeetingNotesForStudent(ctx, models.NewMentorActor("u", mentorIto, ""), studentBen)
	require.NoError(t, err)
	assert.Equal(t, mentorIto, store.listedFor)

	_, err = svc.MeetingNotesForStudent(ctx, models.NewStudentActor("u", studentBen, ""), studentBen)
	require.NoError(t, err)
	assert.Empty(t, store.listedFor)

	_, err = svc.MeetingNotesForStudent(ctx, models.NewStudentActor("u", studentAna, ""), studentBen)
	assertCode(t, err, appErrors.ErrForbidden)
}

func TestAddGeneralNote(t *testing.T) {
	svc, store := newNoteFixture()

	note, err := svc.AddGeneralNote(context.Background(), mentorRao, dto.CreateGeneralNoteRequest{AssignmentID: assignmentBen, StudentID: studentBen, Content: "Prefers mornings"})
	require.NoError(t, err)
	assert.Equal(t, "other", note.Type)
	assert.Len(t, store.generalNotes, 1)

	_, err = svc.AddGeneralNote(context.Background(), mentorIto, dto.CreateGeneralNoteRequest{AssignmentID: assignmentBen, StudentID: studentBen, Content: "x"})
	assertCode(t, err, appErrors.ErrForbidden)
}
