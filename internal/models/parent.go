package models

import "time"

// Parent is the profile attached to a parent account.
type Parent struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Relation  *string   `db:"relation" json:"relation,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
