package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/database"
)

var meetingRowColumns = []string{
	"id", "assignment_id", "mentor_id", "student_id", "meeting_date", "meeting_time", "duration", "mode",
	"location", "status", "requested_by_user_id", "requested_by_role", "requested_by_name", "created_at",
}

func TestListOccupyingWindow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	rows := sqlmock.NewRows(meetingRowColumns).
		AddRow("mt1", "a1", "m1", "s1", "2026-03-10", "09:00", 30, "online", nil, "scheduled", nil, nil, nil, time.Now())
	mock.ExpectQuery(`mt.meeting_date BETWEEN \$2 AND \$3 AND mt.status IN \('scheduled', 'requested'\)`).
		WithArgs("m1", "2026-03-09", "2026-03-11").
		WillReturnRows(rows)

	meetings, err := repo.ListOccupying(context.Background(), nil, "m1", "2026-03-09", "2026-03-11")
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, "09:00", meetings[0].MeetingTime)
	assert.Equal(t, 30, meetings[0].Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMeetingOverlapSurfacesExclusionViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectExec("INSERT INTO meetings").
		WillReturnError(&pq.Error{Code: database.CodeExclusionViolation, Constraint: database.ConstraintNoMentorOverlap})

	err := repo.Create(context.Background(), nil, &models.Meeting{
		AssignmentID: "a1", MentorID: "m1", StudentID: "s1",
		MeetingDate: "2026-03-10", MeetingTime: "09:15", Duration: 20,
		Mode: models.MeetingOnline, Status: models.MeetingScheduled,
	})
	require.Error(t, err)
	assert.True(t, database.IsConflict(err))
	assert.Equal(t, "overlap", database.ConflictReason(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMeetingDetail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	cols := append(append([]string{}, meetingRowColumns...), "student_name", "roll_number", "mentor_name")
	rows := sqlmock.NewRows(cols).
		AddRow("mt1", "a1", "m1", "s1", "2026-03-10", "09:30", 20, "offline", "Room 4", "requested", "u9", "student", "Ana", time.Now(), "Ana", "R-001", "Dr. Rao")
	mock.ExpectQuery(`(?s)FROM meetings mt\s+LEFT JOIN students s .+WHERE mt.id = \$1`).
		WithArgs("mt1").
		WillReturnRows(rows)

	meeting, err := repo.FindDetail(context.Background(), nil, "mt1")
	require.NoError(t, err)
	assert.Equal(t, models.MeetingRequested, meeting.Status)
	require.NotNil(t, meeting.RequestedByRole)
	assert.Equal(t, models.RoleStudent, *meeting.RequestedByRole)
	require.NotNil(t, meeting.MentorName)
	assert.Equal(t, "Dr. Rao", *meeting.MentorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMeetingStatusForeignMentor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMeetingRepository(db)

	mock.ExpectExec(`UPDATE meetings SET status = \$3 WHERE id = \$1 AND mentor_id = \$2`).
		WithArgs("mt1", "m2", models.MeetingDone).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "mt1", "m2", models.MeetingDone)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
