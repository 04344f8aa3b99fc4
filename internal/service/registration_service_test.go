package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	"github.com/noah-isme/mentortrack-api/pkg/database"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type memoryAccounts struct {
	users     map[string]*models.User
	parents   []*models.Parent
	students  []*models.Student
	mentors   []*models.Mentor
	createErr error
	seq       int
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{users: map[string]*models.User{}}
}

func (m *memoryAccounts) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memoryAccounts) GetByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memoryAccounts) Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = m.nextID("user")
	m.users[user.Email] = user
	return nil
}

type memoryParents struct{ m *memoryAccounts }

func (p memoryParents) Create(ctx context.Context, exec sqlx.ExtContext, parent *models.Parent) error {
	parent.ID = p.m.nextID("parent")
	p.m.parents = append(p.m.parents, parent)
	return nil
}

func (p memoryParents) FindByUserID(ctx context.Context, exec sqlx.ExtContext, userID string) (*models.Parent, error) {
	for _, parent := range p.m.parents {
		if parent.UserID == userID {
			return parent, nil
		}
	}
	return nil, sql.ErrNoRows
}

type memoryStudents struct{ m *memoryAccounts }

func (s memoryStudents) Create(ctx context.Context, exec sqlx.ExtContext, student *models.Student) error {
	student.ID = s.m.nextID("student")
	s.m.students = append(s.m.students, student)
	return nil
}

type memoryMentors struct{ m *memoryAccounts }

func (s memoryMentors) Create(ctx context.Context, exec sqlx.ExtContext, mentor *models.Mentor) error {
	mentor.ID = s.m.nextID("mentor")
	s.m.mentors = append(s.m.mentors, mentor)
	return nil
}

func newRegistrationFixture(t *testing.T) (*RegistrationService, *memoryAccounts, sqlmock.Sqlmock) {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	accounts := newMemoryAccounts()
	svc := NewRegistrationService(tx, accounts, memoryMentors{accounts}, memoryParents{accounts}, memoryStudents{accounts}, nil, nil)
	svc.hashCost = bcrypt.MinCost
	return svc, accounts, mock
}

func TestRegisterStudentCreatesParent(t *testing.T) {
	svc, accounts, mock := newRegistrationFixture(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.RegisterStudent(context.Background(), dto.RegisterStudentRequest{
		Email: "Ana@Example.com", Password: "secret1", Name: "Ana", RollNumber: "R-1",
		ParentEmail: "pat@example.com", ParentPassword: "secret2",
	})
	require.NoError(t, err)
	assert.True(t, result.ParentCreated)
	require.Len(t, accounts.parents, 1)
	assert.Equal(t, "Parent of Ana", accounts.parents[0].Name)
	require.Len(t, accounts.students, 1)
	require.NotNil(t, accounts.students[0].ParentID)
	assert.Equal(t, result.ParentID, *accounts.students[0].ParentID)

	user := accounts.users["ana@example.com"]
	require.NotNil(t, user)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterStudentReusesParent(t *testing.T) {
	svc, accounts, mock := newRegistrationFixture(t)
	accounts.users["pat@example.com"] = &models.User{ID: "user-pat", Email: "pat@example.com", Role: models.RoleParent}
	accounts.parents = []*models.Parent{{ID: "parent-pat", UserID: "user-pat", Name: "Pat"}}

	mock.ExpectBegin()
	mock.ExpectCommit()
	result, err := svc.RegisterStudent(context.Background(), dto.RegisterStudentRequest{
		Email: "ben@example.com", Password: "secret1", Name: "Ben", RollNumber: "R-2", ParentEmail: "pat@example.com",
	})
	require.NoError(t, err)
	assert.False(t, result.ParentCreated)
	assert.Equal(t, "parent-pat", result.ParentID)
	assert.Len(t, accounts.parents, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterStudentParentFailures(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*memoryAccounts)
		req   dto.RegisterStudentRequest
		want  *appErrors.Error
	}{
		{
			name: "new parent without password",
			req:  dto.RegisterStudentRequest{Email: "ben@example.com", Password: "secret1", Name: "Ben", RollNumber: "R-2", ParentEmail: "pat@example.com"},
			want: appErrors.ErrValidation,
		},
		{
			name: "parent email owned by mentor",
			setup: func(m *memoryAccounts) {
				m.users["pat@example.com"] = &models.User{ID: "user-pat", Email: "pat@example.com", Role: models.RoleMentor}
			},
			req:  dto.RegisterStudentRequest{Email: "ben@example.com", Password: "secret1", Name: "Ben", RollNumber: "R-2", ParentEmail: "pat@example.com"},
			want: appErrors.ErrConflict,
		},
		{
			name: "duplicate student email",
			setup: func(m *memoryAccounts) {
				m.users["ben@example.com"] = &models.User{ID: "user-ben", Email: "ben@example.com", Role: models.RoleStudent}
			},
			req:  dto.RegisterStudentRequest{Email: "ben@example.com", Password: "secret1", Name: "Ben", RollNumber: "R-2"},
			want: appErrors.ErrConflict,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, accounts, mock := newRegistrationFixture(t)
			if tc.setup != nil {
				tc.setup(accounts)
			}
			mock.ExpectBegin()
			mock.ExpectRollback()
			_, err := svc.RegisterStudent(context.Background(), tc.req)
			assertCode(t, err, tc.want)
			assert.Empty(t, accounts.students)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegisterMentorMapsEmailRace(t *testing.T) {
	svc, accounts, mock := newRegistrationFixture(t)
	accounts.createErr = fmt.Errorf("insert user: %w", &pq.Error{Code: database.CodeUniqueViolation, Constraint: database.ConstraintUsersEmail})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.RegisterMentor(context.Background(), dto.RegisterMentorRequest{Email: "rao@example.com", Password: "secret1", Name: "Dr. Rao"})
	assertCode(t, err, appErrors.ErrConflict)
	assert.Empty(t, accounts.mentors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterParent(t *testing.T) {
	svc, accounts, mock := newRegistrationFixture(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	result, err := svc.RegisterParent(context.Background(), dto.RegisterParentRequest{Email: "pat@example.com", Password: "secret1", Name: "Pat", Relation: "mother"})
	require.NoError(t, err)
	require.Len(t, accounts.parents, 1)
	assert.Equal(t, accounts.parents[0].ID, result.ProfileID)
	require.NotNil(t, accounts.parents[0].Relation)
	assert.Equal(t, "mother", *accounts.parents[0].Relation)
}

func TestRegisterRejectsInvalidPayload(t *testing.T) {
	svc, _, mock := newRegistrationFixture(t)
	_, err := svc.RegisterMentor(context.Background(), dto.RegisterMentorRequest{Email: "not-an-email", Password: "x", Name: ""})
	assertCode(t, err, appErrors.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
