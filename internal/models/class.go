package models

import "time"

// Class is a section of a subject handled by one professor.
type Class struct {
	ID           string    `db:"id" json:"id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	ProfessorID  string    `db:"professor_id" json:"professor_id"`
	Name         string    `db:"name" json:"name"`
	Room         *string   `db:"room" json:"room,omitempty"`
	ScheduleInfo *string   `db:"schedule_info" json:"schedule_info,omitempty"`
	CourseRefID  *string   `db:"course_ref_id" json:"course_ref_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	SubjectName string `db:"subject_name" json:"subject_name,omitempty"`
}

// Enrollment ties a student to a class.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Status    string    `db:"status" json:"status"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}

// EnrollmentStatusActive marks a currently enrolled student.
const EnrollmentStatusActive = "active"
