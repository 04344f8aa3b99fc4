package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/database"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

const maxMeetingMinutes = 720

type meetingStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, meeting *models.Meeting) error
	FindDetail(ctx context.Context, exec sqlx.ExtContext, id string) (*models.MeetingDetail, error)
	ListOccupying(ctx context.Context, exec sqlx.ExtContext, mentorID, from, to string) ([]models.Meeting, error)
	ListUpcomingForMentor(ctx context.Context, mentorID, today string) ([]models.MeetingDetail, error)
	ListOverdueForMentor(ctx context.Context, mentorID, today string) ([]models.MeetingDetail, error)
	ListUpcomingForStudent(ctx context.Context, studentID, today string) ([]models.MeetingDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.MeetingDetail, error)
	ListByStudentAndMentor(ctx context.Context, studentID, mentorID string) ([]models.MeetingDetail, error)
	UpdateStatus(ctx context.Context, id, mentorID string, status models.MeetingStatus) error
}

type bookingAssignments interface {
	Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Assignment, error)
	FindActiveByStudent(ctx context.Context, exec sqlx.ExtContext, studentID string) (*models.Assignment, error)
}

type parentLookup interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Parent, error)
}

// MeetingConfig tunes the scheduler.
type MeetingConfig struct {
	DefaultDuration int
	Location        *time.Location
}

// MeetingService books meetings and serves the meeting views.
type MeetingService struct {
	tx          txProvider
	meetings    meetingStore
	assignments bookingAssignments
	mentors     mentorLookup
	students    studentLookup
	parents     parentLookup
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	clock       clock
	duration    int
}

// NewMeetingService constructs a MeetingService.
func NewMeetingService(
	tx txProvider,
	meetings meetingStore,
	assignments bookingAssignments,
	mentors mentorLookup,
	students studentLookup,
	parents parentLookup,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg MeetingConfig,
) *MeetingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultDuration <= 0 || cfg.DefaultDuration > maxMeetingMinutes {
		cfg.DefaultDuration = 60
	}
	return &MeetingService{
		tx:          tx,
		meetings:    meetings,
		assignments: assignments,
		mentors:     mentors,
		students:    students,
		parents:     parents,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		clock:       newClock(cfg.Location),
		duration:    cfg.DefaultDuration,
	}
}

// slot is a half-open interval [start, start+minutes).
type slot struct {
	start   time.Time
	minutes int
}

func (s slot) end() time.Time {
	return s.start.Add(time.Duration(s.minutes) * time.Minute)
}

// overlaps reports whether two half-open intervals intersect. Back-to-back slots do not.
func (s slot) overlaps(other slot) bool {
	return s.start.Before(other.end()) && other.start.Before(s.end())
}

func parseSlot(date, clockTime string, minutes int) (slot, error) {
	start, err := time.Parse(dateLayout+" 15:04", date+" "+clockTime)
	if err != nil {
		return slot{}, err
	}
	return slot{start: start, minutes: minutes}, nil
}

// normalizeClock accepts HH:MM or HH:MM:00 and returns HH:MM. Meetings start on
// a whole minute, so a non-zero seconds part is rejected.
func normalizeClock(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if t.Second() != 0 {
			return "", fmt.Errorf("meeting_time %q must start on a whole minute", raw)
		}
		return t.Format("15:04"), nil
	}
	return "", fmt.Errorf("meeting_time %q must be HH:MM or HH:MM:SS", raw)
}

type bookingRequest struct {
	assignmentID string
	mentorID     string
	studentID    string
	slot         slot
	date         string
	clockTime    string
	mode         models.MeetingMode
	location     *string
}

// Schedule books a meeting for the actor. The assignment is resolved, or created
// when the student has none, and the slot is checked against the mentor's calendar
// inside one serializable transaction.
func (s *MeetingService) Schedule(ctx context.Context, actor models.Actor, req dto.ScheduleMeetingRequest) (*models.MeetingDetail, error) {
	booking, err := s.prepareBooking(actor, req)
	if err != nil {
		return nil, err
	}

	meeting, created, err := s.book(ctx, actor, booking)
	if err != nil {
		return nil, s.bookingFailure(err)
	}

	if created {
		s.metrics.RecordAssignmentAutoCreated()
	}
	s.metrics.RecordMeetingBooked(actor.Role())
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(meeting.MentorID))
	s.logger.Info("meeting booked",
		zap.String("meeting_id", meeting.ID),
		zap.String("mentor_id", meeting.MentorID),
		zap.String("student_id", meeting.StudentID),
		zap.String("requested_by", string(actor.Role())),
		zap.Bool("assignment_created", created),
	)
	return meeting, nil
}

func (s *MeetingService) prepareBooking(actor models.Actor, req dto.ScheduleMeetingRequest) (*bookingRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}

	booking := &bookingRequest{assignmentID: req.AssignmentID, mode: models.MeetingOnline, location: optionalString(strings.TrimSpace(req.Location))}
	switch a := actor.(type) {
	case models.MentorActor:
		if req.StudentID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
		}
		booking.mentorID = a.MentorID
		booking.studentID = req.StudentID
	case models.StudentActor:
		booking.studentID = a.StudentID
		booking.mentorID = req.MentorID
	case models.ParentActor:
		if req.StudentID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
		}
		booking.studentID = req.StudentID
		booking.mentorID = req.MentorID
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only mentors, students and parents can book meetings")
	}

	clockTime, err := normalizeClock(req.MeetingTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	minutes := s.duration
	if req.Duration != nil {
		minutes = *req.Duration
	}
	if minutes < 1 || minutes > maxMeetingMinutes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duration must be between 1 and %d minutes", maxMeetingMinutes))
	}
	booking.slot, err = parseSlot(req.MeetingDate, clockTime, minutes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "meeting_date must be YYYY-MM-DD")
	}
	booking.date = req.MeetingDate
	booking.clockTime = clockTime
	if req.Mode != "" {
		booking.mode = models.MeetingMode(req.Mode)
	}
	return booking, nil
}

func (s *MeetingService) book(ctx context.Context, actor models.Actor, booking *bookingRequest) (meeting *models.MeetingDetail, created bool, err error) {
	tx, err := s.tx.BeginTxx(ctx, serializable)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	student, err := s.loadStudent(ctx, tx, actor, booking.studentID)
	if err != nil {
		return nil, false, err
	}

	assignment, created, err := s.resolveOrCreateAssignment(ctx, tx, booking)
	if err != nil {
		return nil, false, err
	}

	name, err := s.requesterName(ctx, tx, actor, student)
	if err != nil {
		return nil, false, err
	}

	meeting, err = s.bookMeeting(ctx, tx, actor, name, assignment, booking)
	if err != nil {
		return nil, false, err
	}

	if err = tx.Commit(); err != nil {
		return nil, false, err
	}
	return meeting, created, nil
}

// loadStudent fetches the student being booked for. Parents may only book for
// students linked to their own profile.
func (s *MeetingService) loadStudent(ctx context.Context, exec sqlx.ExtContext, actor models.Actor, studentID string) (*models.Student, error) {
	parent, isParent := actor.(models.ParentActor)
	student, err := s.students.FindByID(ctx, exec, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if isParent {
				return nil, appErrors.Clone(appErrors.ErrForbidden, "student is not linked to this parent")
			}
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, err
	}
	if isParent && (student.ParentID == nil || *student.ParentID != parent.ParentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student is not linked to this parent")
	}
	return student, nil
}

// resolveOrCreateAssignment finds the assignment a booking belongs to. With no
// explicit id it reuses the student's active assignment or opens a new one
// starting today; the returned flag reports whether one was created.
func (s *MeetingService) resolveOrCreateAssignment(ctx context.Context, exec sqlx.ExtContext, booking *bookingRequest) (*models.Assignment, bool, error) {
	if booking.assignmentID != "" {
		assignment, err := s.assignments.FindByID(ctx, exec, booking.assignmentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, false, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
			}
			return nil, false, err
		}
		if booking.mentorID != "" && assignment.MentorID != booking.mentorID {
			return nil, false, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another mentor")
		}
		if assignment.StudentID != booking.studentID {
			return nil, false, appErrors.Clone(appErrors.ErrValidation, "assignment does not belong to this student")
		}
		if assignment.Status != models.AssignmentActive {
			return nil, false, rejection("inactive_assignment", "assignment is not active")
		}
		booking.mentorID = assignment.MentorID
		return assignment, false, nil
	}

	active, err := s.assignments.FindActiveByStudent(ctx, exec, booking.studentID)
	switch {
	case err == nil:
		if booking.mentorID != "" && active.MentorID != booking.mentorID {
			return nil, false, rejection("active_assignment", "student already has an active assignment with another mentor")
		}
		booking.mentorID = active.MentorID
		return active, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, err
	}

	if booking.mentorID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "mentor_id is required when the student has no active assignment")
	}
	if _, err := s.mentors.FindByID(ctx, exec, booking.mentorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, false, err
	}

	assignment := &models.Assignment{
		MentorID:  booking.mentorID,
		StudentID: booking.studentID,
		StartDate: s.clock.today(),
		Status:    models.AssignmentActive,
	}
	if err := s.assignments.Create(ctx, exec, assignment); err != nil {
		return nil, false, err
	}
	return assignment, true, nil
}

// bookMeeting checks the slot against the mentor's occupying meetings and inserts it.
// The window spans the neighbouring days so meetings crossing midnight are seen.
func (s *MeetingService) bookMeeting(ctx context.Context, exec sqlx.ExtContext, actor models.Actor, requesterName string, assignment *models.Assignment, booking *bookingRequest) (*models.MeetingDetail, error) {
	day := booking.slot.start
	existing, err := s.meetings.ListOccupying(ctx, exec, assignment.MentorID,
		day.AddDate(0, 0, -1).Format(dateLayout), day.AddDate(0, 0, 1).Format(dateLayout))
	if err != nil {
		return nil, err
	}
	if clash := findClash(booking.slot, existing); clash != nil {
		return nil, rejection("overlap", fmt.Sprintf("mentor already has a meeting on %s at %s for %d minutes", clash.MeetingDate, clash.MeetingTime, clash.Duration))
	}

	userID := actor.UserID()
	role := actor.Role()
	meeting := &models.Meeting{
		AssignmentID:      assignment.ID,
		MentorID:          assignment.MentorID,
		StudentID:         assignment.StudentID,
		MeetingDate:       booking.date,
		MeetingTime:       booking.clockTime,
		Duration:          booking.slot.minutes,
		Mode:              booking.mode,
		Location:          booking.location,
		Status:            models.MeetingScheduled,
		RequestedByUserID: &userID,
		RequestedByRole:   &role,
		RequestedByName:   optionalString(requesterName),
	}
	if err := s.meetings.Create(ctx, exec, meeting); err != nil {
		return nil, err
	}
	return s.meetings.FindDetail(ctx, exec, meeting.ID)
}

func findClash(candidate slot, existing []models.Meeting) *models.Meeting {
	for i := range existing {
		other, err := parseSlot(existing[i].MeetingDate, existing[i].MeetingTime, existing[i].Duration)
		if err != nil {
			continue
		}
		if candidate.overlaps(other) {
			return &existing[i]
		}
	}
	return nil
}

func (s *MeetingService) requesterName(ctx context.Context, exec sqlx.ExtContext, actor models.Actor, student *models.Student) (string, error) {
	switch a := actor.(type) {
	case models.StudentActor:
		return student.Name, nil
	case models.MentorActor:
		mentor, err := s.mentors.FindByID(ctx, exec, a.MentorID)
		if err == nil {
			return mentor.Name, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
	case models.ParentActor:
		parent, err := s.parents.FindByID(ctx, exec, a.ParentID)
		if err == nil {
			return parent.Name, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
	}
	return actor.DisplayName(), nil
}

// bookingRejection marks a conflict found by the scheduler itself.
type bookingRejection struct {
	reason string
	err    *appErrors.Error
}

func (r *bookingRejection) Error() string { return r.err.Error() }
func (r *bookingRejection) Unwrap() error { return r.err }

func rejection(reason, message string) error {
	return &bookingRejection{reason: reason, err: appErrors.Clone(appErrors.ErrConflict, message)}
}

// bookingFailure turns a failed booking into an API error, counting conflicts.
func (s *MeetingService) bookingFailure(err error) error {
	var rejected *bookingRejection
	if errors.As(err, &rejected) {
		s.metrics.RecordBookingRejection(rejected.reason)
		return rejected.err
	}
	if database.IsConflict(err) {
		reason := database.ConflictReason(err)
		s.metrics.RecordBookingRejection(reason)
		s.logger.Info("meeting booking lost a race", zap.String("reason", reason), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictMessage(err))
	}
	if isAppError(err) {
		return err
	}
	s.logger.Error("meeting booking failed", zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book meeting")
}

// UpcomingForMentor lists the mentor's open meetings from today on.
func (s *MeetingService) UpcomingForMentor(ctx context.Context, mentorID string) ([]models.MeetingDetail, error) {
	meetings, err := s.meetings.ListUpcomingForMentor(ctx, mentorID, s.clock.today())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming meetings")
	}
	return meetings, nil
}

// OverdueForMentor lists the mentor's past or closed meetings.
func (s *MeetingService) OverdueForMentor(ctx context.Context, mentorID string) ([]models.MeetingDetail, error) {
	meetings, err := s.meetings.ListOverdueForMentor(ctx, mentorID, s.clock.today())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overdue meetings")
	}
	return meetings, nil
}

// UpcomingForStudent lists the student's scheduled meetings from today on.
func (s *MeetingService) UpcomingForStudent(ctx context.Context, studentID string) ([]models.MeetingDetail, error) {
	meetings, err := s.meetings.ListUpcomingForStudent(ctx, studentID, s.clock.today())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming meetings")
	}
	return meetings, nil
}

// ForStudent lists a student's meetings as seen by the actor: a mentor sees only
// their own, a student sees all of theirs and a linked parent sees all.
func (s *MeetingService) ForStudent(ctx context.Context, actor models.Actor, studentID string) ([]models.MeetingDetail, error) {
	var (
		meetings []models.MeetingDetail
		err      error
	)
	switch a := actor.(type) {
	case models.MentorActor:
		meetings, err = s.meetings.ListByStudentAndMentor(ctx, studentID, a.MentorID)
	case models.StudentActor:
		meetings, err = s.meetings.ListByStudent(ctx, a.StudentID)
	case models.ParentActor:
		if _, lerr := s.loadStudent(ctx, nil, actor, studentID); lerr != nil {
			if isAppError(lerr) {
				return nil, lerr
			}
			return nil, appErrors.Wrap(lerr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
		meetings, err = s.meetings.ListByStudent(ctx, studentID)
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view these meetings")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list meetings")
	}
	return meetings, nil
}

// Detail returns one of the mentor's meetings.
func (s *MeetingService) Detail(ctx context.Context, mentorID, id string) (*models.MeetingDetail, error) {
	meeting, err := s.meetings.FindDetail(ctx, nil, id)
	if err != nil {
		return nil, storeError(err, "meeting not found", "failed to load meeting")
	}
	if meeting.MentorID != mentorID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
	}
	return meeting, nil
}

// UpdateStatus moves one of the mentor's meetings to a new status. Reopening a
// meeting into an occupied slot fails on the overlap constraint.
func (s *MeetingService) UpdateStatus(ctx context.Context, mentorID, id string, req dto.UpdateMeetingStatusRequest) (*models.MeetingDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting status payload")
	}
	if err := s.meetings.UpdateStatus(ctx, id, mentorID, models.MeetingStatus(req.Status)); err != nil {
		return nil, storeError(err, "meeting not found", "failed to update meeting")
	}
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(mentorID))
	return s.Detail(ctx, mentorID, id)
}
