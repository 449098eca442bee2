package gradebook

import (
	"bytes"
	"encoding/json"
	"time"
)

// Entry is a normalized grade measurement: either a score/max pair or an
// attendance mark, never both resolved into one number here.
type Entry struct {
	StudentID    string    `json:"student_id"`
	SubjectID    string    `json:"subject_id"`
	ComponentID  string    `json:"component_id"`
	Score        *float64  `json:"score"`
	MaxScore     *float64  `json:"max_score"`
	Attendance   *string   `json:"attendance"`
	DateRecorded time.Time `json:"date_recorded"`
}

// Component is a normalized grading category. Weight is 0 when the source
// weight was null or negative.
type Component struct {
	ComponentID  string  `json:"component_id"`
	Name         string  `json:"component_name"`
	Weight       float64 `json:"weight_percentage"`
	IsAttendance bool    `json:"is_attendance"`
}

// StudentData groups a single student's entries by component id. It is
// rebuilt for every calculation and never persisted.
type StudentData map[string][]Entry

// RawEntry is a grade row as it arrives from the data store, with the joined
// component relation in whatever shape the join produced.
type RawEntry struct {
	StudentID    string       `json:"student_id"`
	SubjectID    string       `json:"subject_id"`
	ComponentID  string       `json:"component_id"`
	Score        *float64     `json:"score"`
	MaxScore     *float64     `json:"max_score"`
	Attendance   *string      `json:"attendance"`
	DateRecorded time.Time    `json:"date_recorded"`
	Component    ComponentRef `json:"grade_components"`
}

// RawComponent is a component row as fetched from the data store.
type RawComponent struct {
	ComponentID      string   `json:"component_id"`
	ComponentName    string   `json:"component_name"`
	WeightPercentage *float64 `json:"weight_percentage"`
	IsAttendance     bool     `json:"is_attendance"`
}

// ComponentRef absorbs the join-shape artifact where a related component
// arrives either as a single object, a one-element array, or null. It always
// flattens to a single component so calculation code never sees the
// wrapping.
type ComponentRef struct {
	Component *RawComponent
}

// UnmarshalJSON accepts `{...}`, `[{...}]`, `[]` and `null`. Shapes that fit
// none of these resolve to no component rather than an error.
func (r *ComponentRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.Component = nil
		return nil
	}
	if trimmed[0] == '[' {
		var many []RawComponent
		if err := json.Unmarshal(trimmed, &many); err != nil || len(many) == 0 {
			r.Component = nil
			return nil
		}
		r.Component = &many[0]
		return nil
	}
	var single RawComponent
	if err := json.Unmarshal(trimmed, &single); err != nil {
		r.Component = nil
		return nil
	}
	r.Component = &single
	return nil
}

// MarshalJSON writes the flattened single-object shape.
func (r ComponentRef) MarshalJSON() ([]byte, error) {
	if r.Component == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.Component)
}

// NormalizeEntries canonicalizes raw grade rows into a flat entry list.
// Entries with neither a usable score nor an attendance value are kept; they
// contribute zero during calculation but are never dropped here. The
// operation is idempotent: normalizing an already-normalized list yields the
// same values.
func NormalizeEntries(raw []RawEntry) []Entry {
	entries := make([]Entry, 0, len(raw))
	for _, row := range raw {
		componentID := row.ComponentID
		if componentID == "" && row.Component.Component != nil {
			componentID = row.Component.Component.ComponentID
		}
		entries = append(entries, Entry{
			StudentID:    row.StudentID,
			SubjectID:    row.SubjectID,
			ComponentID:  componentID,
			Score:        row.Score,
			MaxScore:     row.MaxScore,
			Attendance:   row.Attendance,
			DateRecorded: row.DateRecorded,
		})
	}
	return entries
}

// NormalizeComponents flattens raw component rows, treating null weights as
// zero and deduplicating by component id (the same component can appear on
// every joined row).
func NormalizeComponents(raw []RawComponent) []Component {
	components := make([]Component, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, row := range raw {
		if _, ok := seen[row.ComponentID]; ok {
			continue
		}
		seen[row.ComponentID] = struct{}{}
		weight := 0.0
		if row.WeightPercentage != nil && *row.WeightPercentage > 0 {
			weight = *row.WeightPercentage
		}
		components = append(components, Component{
			ComponentID:  row.ComponentID,
			Name:         row.ComponentName,
			Weight:       weight,
			IsAttendance: row.IsAttendance,
		})
	}
	return components
}

// ComponentsFromEntries extracts the unique components referenced by the
// joined relation on each raw entry row.
func ComponentsFromEntries(raw []RawEntry) []Component {
	refs := make([]RawComponent, 0, len(raw))
	for _, row := range raw {
		if row.Component.Component == nil {
			continue
		}
		refs = append(refs, *row.Component.Component)
	}
	return NormalizeComponents(refs)
}

// GroupByComponent builds the per-student grouping used by the calculator.
func GroupByComponent(entries []Entry) StudentData {
	data := make(StudentData, len(entries))
	for _, entry := range entries {
		data[entry.ComponentID] = append(data[entry.ComponentID], entry)
	}
	return data
}

// FilterByStudent returns the subset of entries recorded for one student.
func FilterByStudent(entries []Entry, studentID string) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.StudentID == studentID {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
