package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type stubUserDeleter struct {
	deleted []string
	err     error
}

func (s *stubUserDeleter) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubDirectory struct {
	students   map[string]*models.Student
	mentors    map[string]*models.Mentor
	lastFilter models.StudentFilter
	total      int
	listErr    error
}

type stubDirectoryStudents struct{ d *stubDirectory }

func (s stubDirectoryStudents) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Student, error) {
	if student, ok := s.d.students[id]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

func (s stubDirectoryStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	s.d.lastFilter = filter
	if s.d.listErr != nil {
		return nil, 0, s.d.listErr
	}
	out := make([]models.Student, 0, len(s.d.students))
	for _, student := range s.d.students {
		out = append(out, *student)
	}
	return out, s.d.total, nil
}

type stubDirectoryMentors struct{ d *stubDirectory }

func (s stubDirectoryMentors) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Mentor, error) {
	if mentor, ok := s.d.mentors[id]; ok {
		return mentor, nil
	}
	return nil, sql.ErrNoRows
}

func (s stubDirectoryMentors) List(ctx context.Context) ([]models.Mentor, error) {
	out := make([]models.Mentor, 0, len(s.d.mentors))
	for _, mentor := range s.d.mentors {
		out = append(out, *mentor)
	}
	return out, nil
}

func newUserServiceFixture() (*UserService, *stubDirectory, *stubUserDeleter) {
	dir := &stubDirectory{
		students: map[string]*models.Student{"student-1": {ID: "student-1", UserID: "user-s1", Name: "Ana"}},
		mentors:  map[string]*models.Mentor{"mentor-1": {ID: "mentor-1", UserID: "user-m1", Name: "Dr. Rao"}},
		total:    41,
	}
	users := &stubUserDeleter{}
	return NewUserService(users, stubDirectoryStudents{dir}, stubDirectoryMentors{dir}, nil), dir, users
}

func TestUserServiceListStudentsPagination(t *testing.T) {
	svc, dir, _ := newUserServiceFixture()

	students, pagination, err := svc.ListStudents(context.Background(), models.StudentFilter{Search: "ana", Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, "ana", dir.lastFilter.Search)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, models.DefaultPageSize, pagination.PageSize)
	assert.Equal(t, 41, pagination.TotalCount)

	dir.listErr = errors.New("db down")
	_, _, err = svc.ListStudents(context.Background(), models.StudentFilter{})
	assertCode(t, err, appErrors.ErrInternal)
}

func TestUserServiceDeleteRemovesOwningUser(t *testing.T) {
	svc, _, users := newUserServiceFixture()

	require.NoError(t, svc.DeleteMentor(context.Background(), "mentor-1"))
	require.NoError(t, svc.DeleteStudent(context.Background(), "student-1"))
	assert.Equal(t, []string{"user-m1", "user-s1"}, users.deleted)
}

func TestUserServiceDeleteUnknown(t *testing.T) {
	svc, _, users := newUserServiceFixture()

	assertCode(t, svc.DeleteMentor(context.Background(), "mentor-x"), appErrors.ErrNotFound)
	assertCode(t, svc.DeleteStudent(context.Background(), "student-x"), appErrors.ErrNotFound)
	assert.Empty(t, users.deleted)

	users.err = sql.ErrNoRows
	assertCode(t, svc.DeleteMentor(context.Background(), "mentor-1"), appErrors.ErrNotFound)
}
