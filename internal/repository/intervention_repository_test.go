package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentortrack-api/internal/models"
)

var interventionRowColumns = []string{"id", "assignment_id", "mentor_id", "student_id", "type", "description", "action_date", "status", "outcome", "created_at"}

func TestCreateInterventionAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInterventionRepository(db)

	args := make([]driver.Value, len(interventionRowColumns))
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	mock.ExpectExec(`INSERT INTO interventions`).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))

	item := &models.Intervention{AssignmentID: "a1", MentorID: "m1", StudentID: "s1", Type: "other", ActionDate: "2026-01-10", Status: models.InterventionPending}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveInterventions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInterventionRepository(db)

	cols := append(append([]string{}, interventionRowColumns...), "student_name")
	rows := sqlmock.NewRows(cols).
		AddRow("i1", "a1", "m1", "s1", "academic", nil, "2026-01-10", "ongoing", nil, time.Now(), "Ana")
	mock.ExpectQuery(`WHERE i.mentor_id = \$1 AND i.status IN \('pending', 'ongoing'\)`).
		WithArgs("m1").
		WillReturnRows(rows)

	items, err := repo.ListActiveByMentor(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.InterventionOngoing, items[0].Status)
	require.NotNil(t, items[0].StudentName)
	assert.Equal(t, "Ana", *items[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListInterventionsByStudentScopesMentor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInterventionRepository(db)

	cols := append(append([]string{}, interventionRowColumns...), "student_name")
	mock.ExpectQuery(`WHERE i.student_id = \$1 AND i.mentor_id = \$2`).
		WithArgs("s1", "m1").
		WillReturnRows(sqlmock.NewRows(cols))

	items, err := repo.ListByStudentForMentor(context.Background(), "s1", "m1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInterventionStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInterventionRepository(db)

	outcome := "back on track"
	rows := sqlmock.NewRows(interventionRowColumns).
		AddRow("i1", "a1", "m1", "s1", "academic", nil, "2026-01-10", "completed", outcome, time.Now())
	mock.ExpectQuery(`(?s)UPDATE interventions i SET status = \$3, outcome = COALESCE\(\$4, outcome\).+WHERE i.id = \$1 AND i.mentor_id = \$2`).
		WithArgs("i1", "m1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	item, err := repo.UpdateStatus(context.Background(), "i1", "m1", models.InterventionCompleted, &outcome)
	require.NoError(t, err)
	assert.Equal(t, models.InterventionCompleted, item.Status)
	require.NotNil(t, item.Outcome)
	assert.Equal(t, outcome, *item.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInterventionOtherMentor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInterventionRepository(db)

	mock.ExpectQuery(`UPDATE interventions i SET`).WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateStatus(context.Background(), "i1", "m2", models.InterventionOngoing, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
