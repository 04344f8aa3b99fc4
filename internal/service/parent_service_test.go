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

type stubParentProfiles struct {
	parent *models.Parent
}

func (s *stubParentProfiles) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Parent, error) {
	if s.parent == nil || s.parent.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.parent, nil
}

type stubChildren struct {
	byParent map[string][]models.Student
	err      error
}

func (s *stubChildren) ListByParent(ctx context.Context, parentID string) ([]models.Student, error) {
	return s.byParent[parentID], s.err
}

func TestParentChildrenAndProfile(t *testing.T) {
	children := &stubChildren{byParent: map[string][]models.Student{"parent-1": {{ID: studentBen, Name: "Ben"}}}}
	svc := NewParentService(&stubParentProfiles{parent: &models.Parent{ID: "parent-1", Name: "Pat"}}, children)

	list, err := svc.Children(context.Background(), "parent-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, studentBen, list[0].ID)

	list, err = svc.Children(context.Background(), "parent-2")
	require.NoError(t, err)
	assert.Empty(t, list)

	parent, err := svc.Profile(context.Background(), "parent-1")
	require.NoError(t, err)
	assert.Equal(t, "Pat", parent.Name)

	_, err = svc.Profile(context.Background(), "parent-2")
	assertCode(t, err, appErrors.ErrNotFound)

	children.err = errors.New("db down")
	_, err = svc.Children(context.Background(), "parent-1")
	assertCode(t, err, appErrors.ErrInternal)
}
