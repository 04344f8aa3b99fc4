package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/response"
)

type noteService interface {
	AddMeetingNote(ctx context.Context, mentorID string, req dto.CreateMeetingNoteRequest) (*models.MeetingNote, error)
	ForMeeting(ctx context.Context, actor models.Actor, meetingID string) ([]models.MeetingNoteDetail, error)
	MeetingNotesForStudent(ctx context.Context, actor models.Actor, studentID string) ([]models.MeetingNoteDetail, error)
	AddGeneralNote(ctx context.Context, mentorID string, req dto.CreateGeneralNoteRequest) (*models.GeneralNote, error)
	GeneralNotesForStudent(ctx context.Context, mentorID, studentID string) ([]models.GeneralNote, error)
	UpdateGeneralNote(ctx context.Context, mentorID, id string, req dto.UpdateGeneralNoteRequest) (*models.GeneralNote, error)
}

// NoteHandler serves meeting notes and general notes.
type NoteHandler struct {
	service noteService
}

// NewNoteHandler constructs a NoteHandler.
func NewNoteHandler(service noteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// AddMeetingNote godoc
// @Summary Add a meeting note
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateMeetingNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notes [post]
func (h *NoteHandler) AddMeetingNote(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateMeetingNoteRequest
	if !bindJSON(c, &req, "invalid note payload") {
		return
	}
	note, err := h.service.AddMeetingNote(c.Request.Context(), mentor.MentorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// ForMeeting godoc
// @Summary Notes on a meeting
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Param meeting_id path string true "Meeting ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notes/meeting/{meeting_id} [get]
func (h *NoteHandler) ForMeeting(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	notes, err := h.service.ForMeeting(c.Request.Context(), actor, c.Param("meeting_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}

// ForStudent godoc
// @Summary Meeting notes about a student
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notes/meeting/student/{student_id} [get]
func (h *NoteHandler) ForStudent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	notes, err := h.service.MeetingNotesForStudent(c.Request.Context(), actor, c.Param("student_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}

// AddGeneralNote godoc
// @Summary Add a general note
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateGeneralNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Router /notes/general/add [post]
func (h *NoteHandler) AddGeneralNote(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateGeneralNoteRequest
	if !bindJSON(c, &req, "invalid note payload") {
		return
	}
	note, err := h.service.AddGeneralNote(c.Request.Context(), mentor.MentorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// GeneralForStudent godoc
// @Summary General notes about a student
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /notes/general/student/{student_id} [get]
func (h *NoteHandler) GeneralForStudent(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	notes, err := h.service.GeneralNotesForStudent(c.Request.Context(), mentor.MentorID, c.Param("student_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}

// UpdateGeneralNote godoc
// @Summary Edit a general note
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Param payload body dto.UpdateGeneralNoteRequest true "Note payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notes/general/{id} [put]
func (h *NoteHandler) UpdateGeneralNote(c *gin.Context) {
	mentor, ok := mentorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateGeneralNoteRequest
	if !bindJSON(c, &req, "invalid note payload") {
		return
	}
	note, err := h.service.UpdateGeneralNote(c.Request.Context(), mentor.MentorID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note, nil)
}
