package models

import "time"

// UpsertGradeEntryRequest records or replaces one measurement for a student.
type UpsertGradeEntryRequest struct {
	StudentID    string            `json:"student_id" validate:"required"`
	ComponentID  string            `json:"component_id" validate:"required"`
	Score        *float64          `json:"score" validate:"omitempty,gte=0"`
	MaxScore     *float64          `json:"max_score" validate:"omitempty,gt=0"`
	Attendance   *AttendanceStatus `json:"attendance" validate:"omitempty,oneof=present absent late"`
	DateRecorded *time.Time        `json:"date_recorded"`
}

// BulkUpsertMode selects the failure behaviour of a bulk write.
type BulkUpsertMode string

const (
	// BulkModeAtomic rejects the whole batch when any row fails.
	BulkModeAtomic BulkUpsertMode = "atomic"
	// BulkModePartial applies every valid row and reports the rest.
	BulkModePartial BulkUpsertMode = "partial_on_error"
)

// BulkUpsertRequest records a batch of measurements for one class.
type BulkUpsertRequest struct {
	Mode    BulkUpsertMode            `json:"mode" validate:"omitempty,oneof=atomic partial_on_error"`
	Entries []UpsertGradeEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// BulkRejection explains why a single row of a bulk write was not applied.
type BulkRejection struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BulkUpsertResult summarises the outcome of a bulk write.
type BulkUpsertResult struct {
	Accepted int             `json:"accepted"`
	Rejected []BulkRejection `json:"rejected,omitempty"`
}

// GradeComponentRequest creates or updates a grading component.
type GradeComponentRequest struct {
	Name             string   `json:"name" validate:"required"`
	WeightPercentage *float64 `json:"weight_percentage" validate:"omitempty,gte=0,lte=100"`
	IsAttendance     bool     `json:"is_attendance"`
	IsVisible        bool     `json:"is_visible"`
}

// AnnouncementRequest creates an announcement. When AIAssist is set and Body
// is empty the content service drafts the body from Prompt.
type AnnouncementRequest struct {
	ClassID  *string `json:"class_id"`
	Title    string  `json:"title" validate:"required"`
	Body     string  `json:"body"`
	AIAssist bool    `json:"ai_assist"`
	Prompt   string  `json:"prompt"`
}
