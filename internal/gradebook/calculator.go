package gradebook

import "math"

// DenominatorPolicy selects which component weights form the divisor of the
// weighted final grade.
type DenominatorPolicy string

const (
	// DenominatorAllComponents divides by the total weight of every
	// component defined for the subject, so an ungraded component drags the
	// average down instead of being ignored.
	DenominatorAllComponents DenominatorPolicy = "all_components"
	// DenominatorGradedOnly divides by the weight of components that have at
	// least one entry. Kept for compatibility with the legacy behaviour.
	DenominatorGradedOnly DenominatorPolicy = "graded_only"
)

// ParseDenominatorPolicy maps a config string onto a policy, defaulting to
// all_components.
func ParseDenominatorPolicy(raw string) DenominatorPolicy {
	if DenominatorPolicy(raw) == DenominatorGradedOnly {
		return DenominatorGradedOnly
	}
	return DenominatorAllComponents
}

// Policy carries the tunable parts of the calculation. LateCredit is the
// presence fraction awarded to a "late" attendance mark.
type Policy struct {
	LateCredit  float64
	Denominator DenominatorPolicy
}

// DefaultPolicy returns the institutional defaults: late counts as half
// present, ungraded components stay in the weight denominator.
func DefaultPolicy() Policy {
	return Policy{LateCredit: 0.5, Denominator: DenominatorAllComponents}
}

// Calculator applies a fixed policy to grade data. It holds no mutable
// state and is safe for concurrent use.
type Calculator struct {
	policy Policy
}

// NewCalculator constructs a Calculator with the given policy.
func NewCalculator(policy Policy) *Calculator {
	if policy.LateCredit < 0 || policy.LateCredit > 1 {
		policy.LateCredit = 0.5
	}
	if policy.Denominator == "" {
		policy.Denominator = DenominatorAllComponents
	}
	return &Calculator{policy: policy}
}

// ComponentAverage computes a component's 0–100 sub-score. Attendance-only
// components use a presence ratio; score components aggregate earned over
// possible points across all entries, so a 5/5 and a 0/20 average to 20, not
// 50.
func (c *Calculator) ComponentAverage(component Component, entries []Entry) float64 {
	if len(entries) == 0 {
		return 0
	}

	hasAttendance := false
	hasScore := false
	for _, entry := range entries {
		if entry.Attendance != nil {
			hasAttendance = true
		}
		if entry.Score != nil && entry.MaxScore != nil && *entry.MaxScore > 0 {
			hasScore = true
		}
	}

	if (hasAttendance || component.IsAttendance) && !hasScore {
		var present float64
		counted := 0
		for _, entry := range entries {
			if entry.Attendance == nil {
				continue
			}
			counted++
			switch *entry.Attendance {
			case "present":
				present++
			case "late":
				present += c.policy.LateCredit
			}
		}
		if counted == 0 {
			return 0
		}
		return round2(sanitize(present/float64(counted)*100, 0))
	}

	var earned, possible float64
	for _, entry := range entries {
		if entry.Score == nil || entry.MaxScore == nil || *entry.MaxScore <= 0 {
			continue
		}
		earned += *entry.Score
		possible += *entry.MaxScore
	}
	if possible == 0 {
		return 0
	}
	return round2(sanitize(earned/possible*100, 0))
}

// DenominatorWeight is the single authoritative weight divisor. Components
// with a null or non-positive weight never count; under the graded_only
// policy components without entries are dropped as well.
func (c *Calculator) DenominatorWeight(data StudentData, components []Component) float64 {
	var total float64
	for _, component := range components {
		if component.Weight <= 0 {
			continue
		}
		if c.policy.Denominator == DenominatorGradedOnly && len(data[component.ComponentID]) == 0 {
			continue
		}
		total += component.Weight
	}
	return total
}

// FinalGrade computes the weighted 0–100 percentage for one student's
// grouped entries. A student with nothing recorded gets 0, never NaN.
func (c *Calculator) FinalGrade(data StudentData, components []Component) float64 {
	denominator := c.DenominatorWeight(data, components)
	if denominator <= 0 {
		return 0
	}

	var weighted float64
	for _, component := range components {
		if component.Weight <= 0 {
			continue
		}
		entries := data[component.ComponentID]
		if len(entries) == 0 {
			continue
		}
		weighted += c.ComponentAverage(component, entries) * component.Weight
	}

	percentage := round2(sanitize(weighted/denominator, 0))
	return clampPercent(percentage)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sanitize(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
