package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type noteStore interface {
	CreateMeetingNote(ctx context.Context, note *models.MeetingNote) error
	ListByMeeting(ctx context.Context, meetingID string) ([]models.MeetingNoteDetail, error)
	ListMeetingNotesByStudent(ctx context.Context, studentID, mentorID string) ([]models.MeetingNoteDetail, error)
	CreateGeneralNote(ctx context.Context, note *models.GeneralNote) error
	ListGeneralByStudent(ctx context.Context, studentID, mentorID string) ([]models.GeneralNote, error)
	UpdateGeneralNote(ctx context.Context, id, mentorID, noteType, content string) (*models.GeneralNote, error)
}

type meetingReader interface {
	FindDetail(ctx context.Context, exec sqlx.ExtContext, id string) (*models.MeetingDetail, error)
}

// NoteService manages meeting notes and general notes.
type NoteService struct {
	notes       noteStore
	meetings    meetingReader
	assignments assignmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewNoteService constructs a NoteService.
func NewNoteService(notes noteStore, meetings meetingReader, assignments assignmentReader, validate *validator.Validate, logger *zap.Logger) *NoteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{notes: notes, meetings: meetings, assignments: assignments, validator: validate, logger: logger}
}

// AddMeetingNote attaches a note to one of the mentor's meetings.
func (s *NoteService) AddMeetingNote(ctx context.Context, mentorID string, req dto.CreateMeetingNoteRequest) (*models.MeetingNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	meeting, err := s.meetings.FindDetail(ctx, nil, req.MeetingID)
	if err != nil {
		return nil, storeError(err, "meeting not found", "failed to load meeting")
	}
	if meeting.MentorID != mentorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "meeting belongs to another mentor")
	}
	if req.StudentID != "" && req.StudentID != meeting.StudentID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student does not match the meeting")
	}

	note := &models.MeetingNote{
		MeetingID: meeting.ID,
		MentorID:  mentorID,
		StudentID: meeting.StudentID,
		Content:   strings.TrimSpace(req.Content),
	}
	if err := s.notes.CreateMeetingNote(ctx, note); err != nil {
		s.logger.Error("failed to create meeting note", zap.String("meeting_id", meeting.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create note")
	}
	return note, nil
}

// ForMeeting lists a meeting's notes for its mentor or its student.
func (s *NoteService) ForMeeting(ctx context.Context, actor models.Actor, meetingID string) ([]models.MeetingNoteDetail, error) {
	meeting, err := s.meetings.FindDetail(ctx, nil, meetingID)
	if err != nil {
		return nil, storeError(err, "meeting not found", "failed to load meeting")
	}
	switch a := actor.(type) {
	case models.MentorActor:
		if a.MentorID != meeting.MentorID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view these notes")
		}
	case models.StudentActor:
		if a.StudentID != meeting.StudentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view these notes")
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view these notes")
	}

	notes, err := s.notes.ListByMeeting(ctx, meetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	return notes, nil
}

// MeetingNotesForStudent lists a student's meeting notes. Students see every
// note about them; mentors see only the notes they wrote.
func (s *NoteService) MeetingNotesForStudent(ctx context.Context, actor models.Actor, studentID string) ([]models.MeetingNoteDetail, error) {
	var mentorID string
	switch a := actor.(type) {
	case models.StudentActor:
		if a.StudentID != studentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view these notes")
		}
	case models.MentorActor:
		mentorID = a.MentorID
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view these notes")
	}

	notes, err := s.notes.ListMeetingNotesByStudent(ctx, studentID, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	return notes, nil
}

// AddGeneralNote adds a note under one of the mentor's assignments.
func (s *NoteService) AddGeneralNote(ctx context.Context, mentorID string, req dto.CreateGeneralNoteRequest) (*models.GeneralNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	assignment, err := ownedAssignment(ctx, s.assignments, mentorID, req.AssignmentID, req.StudentID, false)
	if err != nil {
		return nil, err
	}

	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = defaultNoteType
	}
	note := &models.GeneralNote{
		AssignmentID: assignment.ID,
		MentorID:     mentorID,
		StudentID:    assignment.StudentID,
		Type:         kind,
		Content:      strings.TrimSpace(req.Content),
	}
	if err := s.notes.CreateGeneralNote(ctx, note); err != nil {
		s.logger.Error("failed to create general note", zap.String("assignment_id", assignment.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create note")
	}
	return note, nil
}

// GeneralNotesForStudent lists the mentor's general notes about a student.
func (s *NoteService) GeneralNotesForStudent(ctx context.Context, mentorID, studentID string) ([]models.GeneralNote, error) {
	notes, err := s.notes.ListGeneralByStudent(ctx, studentID, mentorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	return notes, nil
}

// UpdateGeneralNote edits one of the mentor's general notes.
func (s *NoteService) UpdateGeneralNote(ctx context.Context, mentorID, id string, req dto.UpdateGeneralNoteRequest) (*models.GeneralNote, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	note, err := s.notes.UpdateGeneralNote(ctx, id, mentorID, strings.TrimSpace(req.Type), strings.TrimSpace(req.Content))
	if err != nil {
		return nil, storeError(err, "note not found", "failed to update note")
	}
	return note, nil
}
