package srs

import (
	pkgerrors "studyforge/pkg/errors"
)

// Grade is the reviewer's quality-of-recall signal for a completed review.
// Grades are totally ordered by recall quality: Again < Hard < Good < Easy.
type Grade int

const (
	Again Grade = 1
	Hard  Grade = 2
	Good  Grade = 3
	Easy  Grade = 4
)

// ParseGrade converts a wire-level grade string into a Grade.
// Unrecognized input is rejected rather than defaulted.
func ParseGrade(s string) (Grade, error) {
	switch s {
	case "Again":
		return Again, nil
	case "Hard":
		return Hard, nil
	case "Good":
		return Good, nil
	case "Easy":
		return Easy, nil
	default:
		return 0, pkgerrors.NewInvalidGradeError(s)
	}
}

// String returns the canonical name of the grade
func (g Grade) String() string {
	switch g {
	case Again:
		return "Again"
	case Hard:
		return "Hard"
	case Good:
		return "Good"
	case Easy:
		return "Easy"
	default:
		return "Unknown"
	}
}

// IsValid reports whether the grade is in the enumerated set
func (g Grade) IsValid() bool {
	return g >= Again && g <= Easy
}

// IsLapse reports whether the grade triggers the non-increase stability branch
func (g Grade) IsLapse() bool {
	return g == Again
}

// difficultyDelta is the raw difficulty change applied before mean reversion
func (g Grade) difficultyDelta() float64 {
	switch g {
	case Again:
		return 1.0
	case Hard:
		return 0.2
	case Good:
		return 0.0
	case Easy:
		return -0.2
	default:
		return 0.0
	}
}

// stabilityScale is the grade coefficient on the stability growth factor:
// 0 for Again, 0.5 for Hard, 1 for Good and Easy.
func (g Grade) stabilityScale() float64 {
	switch g {
	case Again:
		return 0
	case Hard:
		return 0.5
	default:
		return 1
	}
}

// stabilityBonus is the grade multiplier on the stability growth factor:
// 1 for Hard and Good, 3 for Easy and Again.
func (g Grade) stabilityBonus() float64 {
	switch g {
	case Hard, Good:
		return 1
	default:
		return 3
	}
}
