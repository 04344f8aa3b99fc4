package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type childLister interface {
	ListByParent(ctx context.Context, parentID string) ([]models.Student, error)
}

type parentProfileReader interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Parent, error)
}

// ParentService serves the parent views.
type ParentService struct {
	parents  parentProfileReader
	students childLister
}

// NewParentService constructs a ParentService.
func NewParentService(parents parentProfileReader, students childLister) *ParentService {
	return &ParentService{parents: parents, students: students}
}

// Children lists the students linked to the parent.
func (s *ParentService) Children(ctx context.Context, parentID string) ([]models.Student, error) {
	children, err := s.students.ListByParent(ctx, parentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list children")
	}
	return children, nil
}

// Profile returns the parent's own profile.
func (s *ParentService) Profile(ctx context.Context, parentID string) (*models.Parent, error) {
	parent, err := s.parents.FindByID(ctx, nil, parentID)
	if err != nil {
		return nil, storeError(err, "parent profile not found", "failed to load parent profile")
	}
	return parent, nil
}
