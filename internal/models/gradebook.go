package models

import "time"

// AttendanceStatus enumerates attendance marks on attendance-type entries.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// GradeEntryType identifies where a grade entry came from.
type GradeEntryType string

const (
	EntryTypeManual   GradeEntryType = "manual"
	EntryTypeImported GradeEntryType = "imported"
)

// GradeComponent is a named, weighted grading category within a class.
type GradeComponent struct {
	ID               string    `db:"id" json:"id"`
	ClassID          string    `db:"class_id" json:"class_id"`
	Name             string    `db:"name" json:"name"`
	WeightPercentage *float64  `db:"weight_percentage" json:"weight_percentage"`
	IsAttendance     bool      `db:"is_attendance" json:"is_attendance"`
	IsVisible        bool      `db:"is_visible" json:"is_visible"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	SubjectID string `db:"subject_id" json:"subject_id,omitempty"`
}

// GradeEntry is a single recorded measurement for one student under one
// component: either a score/max_score pair or an attendance mark.
type GradeEntry struct {
	ID           string            `db:"id" json:"id"`
	StudentID    string            `db:"student_id" json:"student_id"`
	ComponentID  string            `db:"component_id" json:"component_id"`
	ClassID      string            `db:"class_id" json:"class_id"`
	Score        *float64          `db:"score" json:"score"`
	MaxScore     *float64          `db:"max_score" json:"max_score"`
	Attendance   *AttendanceStatus `db:"attendance" json:"attendance"`
	EntryType    GradeEntryType    `db:"entry_type" json:"entry_type"`
	DateRecorded time.Time         `db:"date_recorded" json:"date_recorded"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`

	SubjectID string `db:"subject_id" json:"subject_id,omitempty"`
}

// GradeEntryFilter narrows grade entry queries.
type GradeEntryFilter struct {
	StudentID   string
	ClassID     string
	ComponentID string
	SubjectID   string
}

// StudentSubjectGrade is the computed grade surfaced to dashboards and
// leaderboards.
type StudentSubjectGrade struct {
	StudentID   string   `json:"student_id"`
	StudentName string   `json:"student_name,omitempty"`
	SubjectID   string   `json:"subject_id"`
	Percentage  float64  `json:"percentage"`
	GPA         float64  `json:"gpa"`
	Rank        *int     `json:"rank,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// ClassGradeSummary aggregates a class gradebook view.
type ClassGradeSummary struct {
	ClassID      string                `json:"class_id"`
	SubjectID    string                `json:"subject_id"`
	ClassAverage float64               `json:"class_average"`
	Students     []StudentSubjectGrade `json:"students"`
}
