package srs

import (
	pkgerrors "studyforge/pkg/errors"
)

// Parameters holds the weight coefficients of the forgetting-curve model.
// Weights are supplied, fixed configuration; a Parameters value is immutable
// for the lifetime of the Model that owns it.
type Parameters struct {
	// W1 scales the stability growth factor on successful reviews.
	W1 float64
	// W4 is the baseline difficulty that every update mean-reverts toward.
	W4 float64
	// W11 scales stability retained after a lapse.
	W11 float64
	// W12 is the difficulty exponent in the lapse formula.
	W12 float64
}

// DefaultParameters returns the stock weights. These are placeholder values;
// tuned weights come from external configuration.
func DefaultParameters() Parameters {
	return Parameters{
		W1:  1.0,
		W4:  1.0,
		W11: 1.0,
		W12: 1.0,
	}
}

// Validate checks that the weights can produce well-defined updates
func (p Parameters) Validate() error {
	if p.W1 <= 0 {
		return pkgerrors.NewDomainErrorf("weight w1 must be positive, got %g", p.W1)
	}
	if p.W4 < minDifficulty || p.W4 > maxDifficulty {
		return pkgerrors.NewDomainErrorf("weight w4 must lie in [%g, %g], got %g", minDifficulty, maxDifficulty, p.W4)
	}
	if p.W11 <= 0 {
		return pkgerrors.NewDomainErrorf("weight w11 must be positive, got %g", p.W11)
	}
	if p.W12 < 0 {
		return pkgerrors.NewDomainErrorf("weight w12 must be non-negative, got %g", p.W12)
	}
	return nil
}
