package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentortrack-api/internal/models"
)

var goalRowColumns = []string{"id", "assignment_id", "mentor_id", "student_id", "title", "description", "target_date", "status", "priority", "created_at", "updated_at"}

func TestUpdateGoalPassesPatchThrough(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	title := "Finish capstone draft"
	status := models.GoalInProgress
	rows := sqlmock.NewRows(goalRowColumns).
		AddRow("g1", "a1", "m1", "s1", title, nil, "2026-04-01", "in-progress", "medium", created, created)
	mock.ExpectQuery(`(?s)UPDATE goals g SET.+IS DISTINCT FROM.+WHERE g.id = \$1 AND g.mentor_id = \$2\s+RETURNING`).
		WithArgs("g1", "m1", title, nil, nil, "in-progress", nil, sqlmock.AnyArg()).
		WillReturnRows(rows)

	goal, err := repo.Update(context.Background(), "g1", "m1", models.GoalPatch{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.GoalInProgress, goal.Status)
	assert.Equal(t, created, goal.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateGoalOtherMentor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	mock.ExpectQuery(`UPDATE goals g SET`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), "g1", "m2", models.GoalPatch{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGoalsByMentorActiveOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	cols := append(append([]string{}, goalRowColumns...), "student_name", "mentor_name")
	rows := sqlmock.NewRows(cols).
		AddRow("g1", "a1", "m1", "s1", "Raise GPA", nil, "2026-05-01", "open", "high", time.Now(), time.Now(), "Ana", "Dr. Rao")
	mock.ExpectQuery(`WHERE g.mentor_id = \$1 AND g.status IN \('open', 'in-progress'\) ORDER BY g.target_date ASC`).
		WithArgs("m1").
		WillReturnRows(rows)

	goals, err := repo.ListByMentor(context.Background(), "m1", true)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, models.PriorityHigh, goals[0].Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteGoal(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewGoalRepository(db)

	mock.ExpectExec(`DELETE FROM goals WHERE id = \$1 AND mentor_id = \$2`).
		WithArgs("g1", "m1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "g1", "m1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
