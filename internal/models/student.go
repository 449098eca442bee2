package models

import "time"

// Student is a learner enrolled in one or more classes.
type Student struct {
	ID        string    `db:"id" json:"id"`
	UserID    *string   `db:"user_id" json:"user_id,omitempty"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	YearLevel int       `db:"year_level" json:"year_level"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter narrows student listing queries.
type StudentFilter struct {
	Search  string
	ClassID string
	Active  *bool
	Page    int
	Limit   int
}
