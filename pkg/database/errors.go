package database

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL error codes the services react to.
const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeExclusionViolation   = "23P01"
	CodeSerializationFailure = "40001"
)

// Named constraints declared by the migrations.
const (
	ConstraintOneActiveAssignment = "assignments_one_active_per_student"
	ConstraintNoMentorOverlap     = "meetings_no_mentor_overlap"
	ConstraintUsersEmail          = "users_email_key"
)

func pqCode(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// IsUniqueViolation reports whether err is a unique violation, optionally on the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	pqErr, ok := pqCode(err)
	if !ok || string(pqErr.Code) != CodeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsForeignKeyViolation reports whether err references a missing parent row.
func IsForeignKeyViolation(err error) bool {
	pqErr, ok := pqCode(err)
	return ok && string(pqErr.Code) == CodeForeignKeyViolation
}

// IsConflict reports whether err came from a uniqueness, exclusion or serialization failure,
// i.e. a concurrent writer won a race the caller lost.
func IsConflict(err error) bool {
	pqErr, ok := pqCode(err)
	if !ok {
		return false
	}
	switch string(pqErr.Code) {
	case CodeUniqueViolation, CodeExclusionViolation, CodeSerializationFailure:
		return true
	default:
		return false
	}
}

// ConflictReason returns a short metric label for a conflict error.
func ConflictReason(err error) string {
	pqErr, ok := pqCode(err)
	if !ok {
		return "unknown"
	}
	switch string(pqErr.Code) {
	case CodeUniqueViolation:
		if pqErr.Constraint == ConstraintOneActiveAssignment {
			return "active_assignment"
		}
		return "unique"
	case CodeExclusionViolation:
		return "overlap"
	case CodeSerializationFailure:
		return "serialization"
	default:
		return "unknown"
	}
}
