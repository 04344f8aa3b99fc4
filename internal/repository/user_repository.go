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

var errNoRows = sql.ErrNoRows

const userColumns = `id, email, password_hash, role, created_at, updated_at`

// UserRepository provides database access for user accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.GetByEmail(ctx, nil, email)
}

// GetByEmail looks a user up by email using the given executor.
func (r *UserRepository) GetByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var user models.User
	if err := sqlx.GetContext(ctx, pick(r.db, exec), &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Create inserts a user account.
func (r *UserRepository) Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
VALUES (:id, :email, :password_hash, :role, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	return r.setPassword(ctx, r.db, id, passwordHash, updatedAt)
}

// SetPasswordHash replaces the password hash using the given executor.
func (r *UserRepository) SetPasswordHash(ctx context.Context, exec sqlx.ExtContext, id, passwordHash string) error {
	return r.setPassword(ctx, pick(r.db, exec), id, passwordHash, time.Now().UTC())
}

func (r *UserRepository) setPassword(ctx context.Context, exec sqlx.ExtContext, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	res, err := exec.ExecContext(ctx, query, id, passwordHash, updatedAt)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password rows affected: %w", err)
	}
	return affectedOrNoRows(rows)
}

// UpdateRole changes a user's role.
func (r *UserRepository) UpdateRole(ctx context.Context, exec sqlx.ExtContext, id string, role models.UserRole) error {
	const query = `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`
	res, err := pick(r.db, exec).ExecContext(ctx, query, id, role, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update role rows affected: %w", err)
	}
	return affectedOrNoRows(rows)
}

// Delete removes a user. Profiles cascade; assignments and meetings are left in place.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	return affectedOrNoRows(rows)
}

// FindProfile returns the role-specific profile id and display name for a user.
// Admins have no profile and get empty values.
func (r *UserRepository) FindProfile(ctx context.Context, role models.UserRole, userID string) (string, string, error) {
	var table string
	switch role {
	case models.RoleMentor:
		table = "mentors"
	case models.RoleStudent:
		table = "students"
	case models.RoleParent:
		table = "parents"
	default:
		return "", "", nil
	}

	var profile struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE user_id = $1 LIMIT 1`, table)
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", err
		}
		return "", "", fmt.Errorf("find %s profile: %w", role, err)
	}
	return profile.ID, profile.Name, nil
}
