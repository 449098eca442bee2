// Package gradebook implements the grade computation engine: normalizing raw
// grade rows, weighting per-component averages into a final percentage,
// converting percentages to the 1.0–5.0 GPA scale and ranking students.
//
// Everything in this package is pure and deterministic. Malformed or missing
// data never produces an error; it resolves to the safest default (0%, 5.0
// GPA, exclusion from ranking) so a single bad row cannot take down a
// dashboard computation.
//
// Component visibility is a display preference, not a calculation input:
// hidden components still carry their weight. Only a nil or zero weight
// removes a component from the weighted sum.
package gradebook
