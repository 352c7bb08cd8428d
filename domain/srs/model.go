// Package srs implements the memory model behind review scheduling: a
// forgetting-curve estimate of recall probability plus the stability and
// difficulty update rules applied after each graded review.
//
// All operations are pure functions of their arguments and the fixed
// Parameters owned by the Model. The package performs no I/O and holds no
// per-item state.
package srs

import (
	"math"

	pkgerrors "studyforge/pkg/errors"
)

const (
	// minDifficulty and maxDifficulty bound the difficulty scalar.
	minDifficulty = 1.0
	maxDifficulty = 10.0

	// difficultyReversion is the share of the raw difficulty kept after
	// mean-reverting toward the baseline (w4).
	difficultyReversion = 0.9
)

// Model evaluates and updates per-item memory state.
type Model struct {
	params Parameters
}

// NewModel creates a Model with the given weights.
func NewModel(params Parameters) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Model{params: params}, nil
}

// Parameters returns the weights the model was built with.
func (m *Model) Parameters() Parameters {
	return m.params
}

// Retrievability estimates the probability of recall after elapsedDays with
// memory stability s, using R = (1 + t/S)^-1. The result lies in (0, 1];
// immediately after a review (t == 0) it is defined as exactly 1.
func (m *Model) Retrievability(elapsedDays, s float64) (float64, error) {
	if s <= 0 {
		return 0, pkgerrors.NewDomainErrorf("stability must be positive, got %g", s)
	}
	if elapsedDays < 0 {
		return 0, pkgerrors.NewDomainErrorf("elapsed days must be non-negative, got %g", elapsedDays)
	}
	if elapsedDays == 0 {
		return 1, nil
	}
	return 1 / (1 + elapsedDays/s), nil
}

// PredictRecall estimates the probability of a successful next review from
// stability, difficulty and current retrievability. It is monotonically
// increasing in both s and r. The value is for reporting only; it plays no
// part in state updates.
func (m *Model) PredictRecall(s, d, r float64) (float64, error) {
	if err := checkState(s, d); err != nil {
		return 0, err
	}
	if err := checkRetrievability(r); err != nil {
		return 0, err
	}
	return 1 / (1 + (1/r-1)/math.Exp(s/10)), nil
}

// StabilityIncreaseFactor computes the multiplicative stability growth for a
// successful review. The factor combines a linear difficulty term (11 - D),
// a stability saturation term and a retrievability term, each floored at 1,
// scaled by the w1 weight and the grade coefficients. The result never falls
// below 1: stability does not shrink on a non-lapse grade.
func (m *Model) StabilityIncreaseFactor(s, d, r float64, grade Grade) (float64, error) {
	if err := checkState(s, d); err != nil {
		return 0, err
	}
	if err := checkRetrievability(r); err != nil {
		return 0, err
	}
	if !grade.IsValid() {
		return 0, pkgerrors.NewInvalidGradeError(grade.String())
	}

	fD := maxDifficulty + 1 - d
	fS := math.Max(1, 1/math.Log2(s+1))
	fR := math.Max(1, 1/math.Log2(r+1))

	inc := fD * fS * fR * m.params.W1 * grade.stabilityScale() * grade.stabilityBonus()
	return math.Max(1, inc), nil
}

// UpdateStability returns the post-review stability. A lapse (grade Again)
// takes the dedicated branch S' = min(S, S * D^-w12 * w11), so it can never
// increase stability; every other grade multiplies by the growth factor and
// so can never decrease it.
func (m *Model) UpdateStability(s, d, r float64, grade Grade) (float64, error) {
	if err := checkState(s, d); err != nil {
		return 0, err
	}
	if err := checkRetrievability(r); err != nil {
		return 0, err
	}
	if !grade.IsValid() {
		return 0, pkgerrors.NewInvalidGradeError(grade.String())
	}

	if grade.IsLapse() {
		return math.Min(s, s*math.Pow(d, -m.params.W12)*m.params.W11), nil
	}

	inc, err := m.StabilityIncreaseFactor(s, d, r, grade)
	if err != nil {
		return 0, err
	}
	return s * inc, nil
}

// UpdateDifficulty returns the post-review difficulty: the grade delta is
// applied first, then the result is mean-reverted 90/10 toward the w4
// baseline, then clamped to [1, 10]. The order is a fixed contract;
// clamping before reverting produces different numbers.
func (m *Model) UpdateDifficulty(d float64, grade Grade) (float64, error) {
	if err := checkDifficulty(d); err != nil {
		return 0, err
	}
	if !grade.IsValid() {
		return 0, pkgerrors.NewInvalidGradeError(grade.String())
	}

	next := d + grade.difficultyDelta()
	next = next*difficultyReversion + m.params.W4*(1-difficultyReversion)
	return clampDifficulty(next), nil
}

// checkState validates the stability/difficulty pair on entry. Violations
// mean the caller handed in corrupted state.
func checkState(s, d float64) error {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return pkgerrors.NewDomainErrorf("stability must be positive, got %g", s)
	}
	return checkDifficulty(d)
}

func checkDifficulty(d float64) error {
	if d < minDifficulty || d > maxDifficulty || math.IsNaN(d) {
		return pkgerrors.NewDomainErrorf("difficulty must lie in [%g, %g], got %g", minDifficulty, maxDifficulty, d)
	}
	return nil
}

func checkRetrievability(r float64) error {
	if r <= 0 || r > 1 || math.IsNaN(r) {
		return pkgerrors.NewDomainErrorf("retrievability must lie in (0, 1], got %g", r)
	}
	return nil
}

func clampDifficulty(d float64) float64 {
	return math.Max(minDifficulty, math.Min(maxDifficulty, d))
}
