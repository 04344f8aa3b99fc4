package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentortrack-api/internal/models"
)

var studentRowColumns = []string{"id", "user_id", "parent_id", "name", "roll_number", "email", "phone", "program", "year", "academic_status", "created_at"}

func TestStudentListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	year := 2
	rows := sqlmock.NewRows(studentRowColumns).
		AddRow("s1", "u1", nil, "Ana", "R-001", "ana@example.com", nil, "CS", 2, "regular", time.Now())
	mock.ExpectQuery(`SELECT .+ FROM students s WHERE .*LOWER\(s.name\) LIKE \$1.*s.program = \$4.*s.year = \$5.* ORDER BY s.name ASC LIMIT 10 OFFSET 10`).
		WithArgs("%ana%", "%ana%", "%ana%", "CS", 2).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students s WHERE`).
		WithArgs("%ana%", "%ana%", "%ana%", "CS", 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Search: " Ana ", Program: "CS", Year: &year, Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "R-001", students[0].RollNumber)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentListWithoutFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM students s ORDER BY s.name ASC LIMIT 20 OFFSET 0`).
		WillReturnRows(sqlmock.NewRows(studentRowColumns))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students s$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	students, total, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMenteesOrdersActiveFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	cols := append(append([]string{}, studentRowColumns...), "assignment_id", "assignment_status", "start_date", "end_date")
	rows := sqlmock.NewRows(cols).
		AddRow("s1", "u1", nil, "Ana", "R-001", "ana@example.com", nil, nil, nil, "regular", time.Now(), "a1", "active", "2026-01-10", nil).
		AddRow("s2", "u2", nil, "Ben", "R-002", "ben@example.com", nil, nil, nil, "regular", time.Now(), "a0", "ended", "2025-09-01", "2025-12-20")
	mock.ExpectQuery(`(?s)FROM assignments a\s+JOIN students s .+ORDER BY \(a.status = 'active'\) DESC`).
		WithArgs("m1").
		WillReturnRows(rows)

	mentees, err := repo.ListMentees(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, mentees, 2)
	assert.Equal(t, models.AssignmentActive, mentees[0].AssignmentStatus)
	require.NotNil(t, mentees[1].EndDate)
	assert.Equal(t, "2025-12-20", *mentees[1].EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
