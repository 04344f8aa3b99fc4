package repository

import "github.com/jmoiron/sqlx"

// pick returns exec when the caller runs inside a transaction, otherwise the pool.
func pick(db *sqlx.DB, exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return db
}

func affectedOrNoRows(rows int64) error {
	if rows == 0 {
		return errNoRows
	}
	return nil
}
