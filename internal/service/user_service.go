package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type userDeleter interface {
	Delete(ctx context.Context, id string) error
}

type adminStudentStore interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type adminMentorStore interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Mentor, error)
	List(ctx context.Context) ([]models.Mentor, error)
}

// UserService covers the admin's view of student and mentor accounts.
type UserService struct {
	users    userDeleter
	students adminStudentStore
	mentors  adminMentorStore
	logger   *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(users userDeleter, students adminStudentStore, mentors adminMentorStore, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, students: students, mentors: mentors, logger: logger}
}

// ListStudents returns a page of students and pagination metadata.
func (s *UserService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page, pageSize := models.Normalize(filter.Page, filter.PageSize)
	return students, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// ListMentors returns all mentors.
func (s *UserService) ListMentors(ctx context.Context) ([]models.Mentor, error) {
	mentors, err := s.mentors.List(ctx)
	if err != nil {
		s.logger.Error("list mentors failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentors")
	}
	return mentors, nil
}

// DeleteMentor removes the mentor's account; the profile goes with it.
func (s *UserService) DeleteMentor(ctx context.Context, mentorID string) error {
	mentor, err := s.mentors.FindByID(ctx, nil, mentorID)
	if err != nil {
		return storeError(err, "mentor not found", "failed to load mentor")
	}
	if err := s.users.Delete(ctx, mentor.UserID); err != nil {
		return storeError(err, "mentor not found", "failed to delete mentor")
	}
	s.logger.Info("mentor deleted", zap.String("mentor_id", mentorID), zap.String("user_id", mentor.UserID))
	return nil
}

// DeleteStudent removes the student's account; the profile goes with it.
func (s *UserService) DeleteStudent(ctx context.Context, studentID string) error {
	student, err := s.students.FindByID(ctx, nil, studentID)
	if err != nil {
		return storeError(err, "student not found", "failed to load student")
	}
	if err := s.users.Delete(ctx, student.UserID); err != nil {
		return storeError(err, "student not found", "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", studentID), zap.String("user_id", student.UserID))
	return nil
}
