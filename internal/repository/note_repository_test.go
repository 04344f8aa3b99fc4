package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	meetingNoteRowColumns = []string{"id", "meeting_id", "mentor_id", "student_id", "content", "created_at", "meeting_date", "mentor_name"}
	generalNoteRowColumns = []string{"id", "assignment_id", "mentor_id", "student_id", "type", "content", "created_at", "updated_at"}
)

func TestListMeetingNotesByStudentAllMentors(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	rows := sqlmock.NewRows(meetingNoteRowColumns).
		AddRow("n1", "mt1", "m1", "s1", "Discussed thesis scope", time.Now(), "2026-01-05", "Dr. Rao")
	mock.ExpectQuery(`WHERE n.student_id = \$1 ORDER BY n.created_at DESC`).
		WithArgs("s1").
		WillReturnRows(rows)

	notes, err := repo.ListMeetingNotesByStudent(context.Background(), "s1", "")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.NotNil(t, notes[0].MentorName)
	assert.Equal(t, "Dr. Rao", *notes[0].MentorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMeetingNotesByStudentForMentor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	mock.ExpectQuery(`WHERE n.student_id = \$1 AND n.mentor_id = \$2 ORDER BY n.created_at DESC`).
		WithArgs("s1", "m1").
		WillReturnRows(sqlmock.NewRows(meetingNoteRowColumns))

	notes, err := repo.ListMeetingNotesByStudent(context.Background(), "s1", "m1")
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotesByMeeting(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	rows := sqlmock.NewRows(meetingNoteRowColumns).
		AddRow("n1", "mt1", "m1", "s1", "First", time.Now(), "2026-01-05", nil).
		AddRow("n2", "mt1", "m1", "s1", "Second", time.Now(), "2026-01-05", nil)
	mock.ExpectQuery(`WHERE n.meeting_id = \$1 ORDER BY n.created_at ASC`).
		WithArgs("mt1").
		WillReturnRows(rows)

	notes, err := repo.ListByMeeting(context.Background(), "mt1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "First", notes[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGeneralNoteKeepsTypeWhenEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(generalNoteRowColumns).
		AddRow("g1", "a1", "m1", "s1", "academic", "Updated", now, now)
	mock.ExpectQuery(`(?s)UPDATE general_notes SET content = \$3, type = COALESCE\(NULLIF\(\$4, ''\), type\).+WHERE id = \$1 AND mentor_id = \$2`).
		WithArgs("g1", "m1", "Updated", "", sqlmock.AnyArg()).
		WillReturnRows(rows)

	note, err := repo.UpdateGeneralNote(context.Background(), "g1", "m1", "", "Updated")
	require.NoError(t, err)
	assert.Equal(t, "academic", note.Type)
	assert.Equal(t, "Updated", note.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGeneralNoteOtherMentor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	mock.ExpectQuery(`UPDATE general_notes SET`).WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateGeneralNote(context.Background(), "g1", "m2", "", "x")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
