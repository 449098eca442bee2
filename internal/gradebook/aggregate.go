package gradebook

// ClassAverage is the mean of each rostered student's final grade. Students
// with no entries still count in the denominator: an ungraded student drags
// the class average down rather than vanishing from the statistics.
func (c *Calculator) ClassAverage(studentIDs []string, entries []Entry, components []Component) float64 {
	if len(studentIDs) == 0 {
		return 0
	}
	var sum float64
	for _, studentID := range studentIDs {
		data := GroupByComponent(FilterByStudent(entries, studentID))
		sum += c.FinalGrade(data, components)
	}
	return round2(sanitize(sum/float64(len(studentIDs)), 0))
}

// ClassAverageFromEntries derives the roster from the entries themselves,
// for call sites that only hold the entry list. Students absent from the
// entry list cannot be counted here; prefer ClassAverage with an explicit
// roster when one is available.
func (c *Calculator) ClassAverageFromEntries(entries []Entry, components []Component) float64 {
	seen := make(map[string]struct{})
	roster := make([]string, 0)
	for _, entry := range entries {
		if _, ok := seen[entry.StudentID]; ok {
			continue
		}
		seen[entry.StudentID] = struct{}{}
		roster = append(roster, entry.StudentID)
	}
	return c.ClassAverage(roster, entries, components)
}
