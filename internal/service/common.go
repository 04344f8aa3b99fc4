package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mentortrack-api/pkg/database"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

var serializable = &sql.TxOptions{Isolation: sql.LevelSerializable}

// clock yields the current calendar date in the application timezone.
type clock struct {
	now func() time.Time
	loc *time.Location
}

func newClock(loc *time.Location) clock {
	if loc == nil {
		loc = time.UTC
	}
	return clock{now: time.Now, loc: loc}
}

func (c clock) today() string {
	return c.now().In(c.loc).Format(dateLayout)
}

// storeError maps repository failures onto API errors: missing rows become
// NotFound and constraint races become Conflict.
func storeError(err error, notFound, internal string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	case database.IsConflict(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictMessage(err))
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
	}
}

func conflictMessage(err error) string {
	switch database.ConflictReason(err) {
	case "active_assignment":
		return "student already has an active assignment"
	case "overlap":
		return "mentor already has a meeting in that time slot"
	case "serialization":
		return "concurrent update detected, please retry"
	default:
		return "resource already exists"
	}
}

func isAppError(err error) bool {
	var appErr *appErrors.Error
	return errors.As(err, &appErr)
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
