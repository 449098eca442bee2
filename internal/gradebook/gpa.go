package gradebook

// GPA bounds on the institutional 1.0 (best) – 5.0 (fail) scale.
const (
	BestGPA    = 1.0
	FailingGPA = 5.0
)

// PreciseGPA maps a 0–100 percentage onto the 1.0–5.0 scale with linear
// interpolation inside each band, so two close percentages produce close
// GPAs instead of snapping to the same step. Monotonically non-increasing in
// the percentage.
func PreciseGPA(percentage float64) float64 {
	p := sanitize(percentage, 0)
	switch {
	case p >= 97.5:
		return 1.0
	case p >= 94.5:
		return 1.0 + ((97.5-p)/3.0)*0.25
	case p >= 91.5:
		return 1.25 + ((94.5-p)/3.0)*0.25
	case p >= 88.5:
		return 1.5 + ((91.5-p)/3.0)*0.25
	case p >= 85.5:
		return 1.75 + ((88.5-p)/3.0)*0.25
	case p >= 82.5:
		return 2.0 + ((85.5-p)/3.0)*0.25
	case p >= 79.5:
		return 2.25 + ((82.5-p)/3.0)*0.25
	case p >= 76.5:
		return 2.5 + ((79.5-p)/3.0)*0.25
	case p >= 74.5:
		return 2.75 + ((76.5-p)/2.0)*0.25
	case p >= 69.5:
		return 3.0 + ((74.5-p)/5.0)*0.5
	case p >= 64.5:
		return 3.5 + ((69.5-p)/5.0)*0.5
	case p >= 59.5:
		return 4.0 + ((64.5-p)/5.0)*0.5
	case p >= 50:
		return 4.5 + ((59.5-p)/9.5)*0.5
	default:
		return FailingGPA
	}
}

// SteppedGPA maps a percentage onto the coarse letter-grade steps used on
// printed report cards.
func SteppedGPA(percentage float64) float64 {
	p := sanitize(percentage, 0)
	switch {
	case p >= 97.5:
		return 1.0
	case p >= 94.5:
		return 1.25
	case p >= 91.5:
		return 1.5
	case p >= 88.5:
		return 1.75
	case p >= 85.5:
		return 2.0
	case p >= 82.5:
		return 2.25
	case p >= 79.5:
		return 2.5
	case p >= 76.5:
		return 2.75
	case p >= 74.5:
		return 3.0
	case p >= 69.5:
		return 3.5
	case p >= 64.5:
		return 4.0
	case p >= 59.5:
		return 4.5
	default:
		return FailingGPA
	}
}
