package models

// ComponentBreakdown is one component's contribution within a grade view.
type ComponentBreakdown struct {
	ComponentID   string  `json:"component_id"`
	ComponentName string  `json:"component_name"`
	Weight        float64 `json:"weight_percentage"`
	Average       float64 `json:"average"`
	EntryCount    int     `json:"entry_count"`
}

// StudentSubjectGradeView is the detailed per-subject grade surfaced to a
// student, including the per-component breakdown behind the final number.
type StudentSubjectGradeView struct {
	StudentID   string               `json:"student_id"`
	SubjectID   string               `json:"subject_id"`
	SubjectName string               `json:"subject_name"`
	SubjectCode string               `json:"subject_code"`
	Percentage  float64              `json:"percentage"`
	GPA         float64              `json:"gpa"`
	Passing     bool                 `json:"passing"`
	Components  []ComponentBreakdown `json:"components"`
	Notes       []string             `json:"notes,omitempty"`
}

// StudentOverallStanding is one row of the cross-subject top performers
// leaderboard. GPA is the mean of the student's per-subject GPAs over the
// subjects where they have recorded work.
type StudentOverallStanding struct {
	StudentID    string  `json:"student_id"`
	StudentName  string  `json:"student_name"`
	GPA          float64 `json:"gpa"`
	SubjectCount int     `json:"subject_count"`
	Rank         int     `json:"rank"`
}
