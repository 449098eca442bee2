package models

import "time"

// Announcement is a message posted by a professor or admin, optionally
// scoped to a single class.
type Announcement struct {
	ID        string    `db:"id" json:"id"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	ClassID   *string   `db:"class_id" json:"class_id,omitempty"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	AIAssist  bool      `db:"ai_assist" json:"ai_assist"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
