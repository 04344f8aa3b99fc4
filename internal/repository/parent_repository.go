package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentortrack-api/internal/models"
)

const parentColumns = `id, user_id, name, email, phone, relation, created_at`

// ParentRepository manages parent profiles.
type ParentRepository struct {
	db *sqlx.DB
}

// NewParentRepository constructs a parent repository.
func NewParentRepository(db *sqlx.DB) *ParentRepository {
	return &ParentRepository{db: db}
}

// Create inserts a parent profile.
func (r *ParentRepository) Create(ctx context.Context, exec sqlx.ExtContext, parent *models.Parent) error {
	if parent.ID == "" {
		parent.ID = uuid.NewString()
	}
	parent.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO parents (id, user_id, name, email, phone, relation, created_at)
VALUES (:id, :user_id, :name, :email, :phone, :relation, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, parent); err != nil {
		return fmt.Errorf("insert parent: %w", err)
	}
	return nil
}

// FindByID returns a parent by id.
func (r *ParentRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Parent, error) {
	query := `SELECT ` + parentColumns + ` FROM parents WHERE id = $1`
	var parent models.Parent
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &parent, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find parent: %w", err)
	}
	return &parent, nil
}

// FindByUserID returns the parent profile owned by a user.
func (r *ParentRepository) FindByUserID(ctx context.Context, exec sqlx.ExtContext, userID string) (*models.Parent, error) {
	query := `SELECT ` + parentColumns + ` FROM parents WHERE user_id = $1`
	var parent models.Parent
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &parent, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find parent by user: %w", err)
	}
	return &parent, nil
}
