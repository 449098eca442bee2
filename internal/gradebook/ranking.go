package gradebook

import "sort"

// CalculatedSubjectGrade is the computed output for one student in one
// subject. Rank is 0 until assigned by SubjectRankings.
type CalculatedSubjectGrade struct {
	StudentID  string  `json:"student_id"`
	SubjectID  string  `json:"subject_id"`
	Percentage float64 `json:"percentage"`
	GPA        float64 `json:"gpa"`
	Rank       int     `json:"rank,omitempty"`
}

// SubjectGrade computes a single student's percentage and GPA for one
// subject. A student with no entries gets the failing defaults and is later
// excluded from rankings.
func (c *Calculator) SubjectGrade(studentID, subjectID string, entries []Entry, components []Component) CalculatedSubjectGrade {
	data := make(StudentData)
	for _, entry := range entries {
		if entry.StudentID != studentID || entry.SubjectID != subjectID {
			continue
		}
		data[entry.ComponentID] = append(data[entry.ComponentID], entry)
	}

	if len(data) == 0 {
		return CalculatedSubjectGrade{
			StudentID:  studentID,
			SubjectID:  subjectID,
			Percentage: 0,
			GPA:        FailingGPA,
		}
	}

	percentage := c.FinalGrade(data, components)
	return CalculatedSubjectGrade{
		StudentID:  studentID,
		SubjectID:  subjectID,
		Percentage: percentage,
		GPA:        sanitize(PreciseGPA(percentage), FailingGPA),
	}
}

// SubjectRankings computes every student's grade for a subject and returns
// the ranked list: ascending GPA (lower is better), dense 1-based ranks.
// Students with a zero percentage carry no recorded work and do not occupy a
// rank slot. Ties keep the caller-provided student order; no secondary key
// is applied.
func (c *Calculator) SubjectRankings(subjectID string, studentIDs []string, entries []Entry, components []Component) []CalculatedSubjectGrade {
	ranked := make([]CalculatedSubjectGrade, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		grade := c.SubjectGrade(studentID, subjectID, entries, components)
		if grade.Percentage > 0 {
			ranked = append(ranked, grade)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].GPA < ranked[j].GPA
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// AllSubjectGrades fans SubjectRankings out across subjects. Subjects where
// nobody has recorded work are omitted.
func (c *Calculator) AllSubjectGrades(studentIDs, subjectIDs []string, entries []Entry, components []Component) map[string][]CalculatedSubjectGrade {
	result := make(map[string][]CalculatedSubjectGrade, len(subjectIDs))
	for _, subjectID := range subjectIDs {
		rankings := c.SubjectRankings(subjectID, studentIDs, entries, components)
		if len(rankings) > 0 {
			result[subjectID] = rankings
		}
	}
	return result
}
