package models

import "time"

// DashboardSummary is the role-aware landing payload. Only the sections
// meaningful for the caller's role are populated.
type DashboardSummary struct {
	Role          UserRole              `json:"role"`
	GeneratedAt   time.Time             `json:"generated_at"`
	ClassCount    int                   `json:"class_count"`
	SubjectCount  int                   `json:"subject_count"`
	OverallGPA    *float64              `json:"overall_gpa,omitempty"`
	SubjectGrades []StudentSubjectGrade `json:"subject_grades,omitempty"`
	ClassAverages []ClassAverage        `json:"class_averages,omitempty"`
	Announcements []Announcement        `json:"announcements,omitempty"`
}

// ClassAverage is one professor-facing class summary row.
type ClassAverage struct {
	ClassID      string  `json:"class_id"`
	ClassName    string  `json:"class_name"`
	SubjectID    string  `json:"subject_id"`
	Average      float64 `json:"average"`
	StudentCount int     `json:"student_count"`
}
