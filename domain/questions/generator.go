// Package questions generates the physics word problems presented during a
// study session. The scheduler core never calls into this package; the
// surrounding application pairs a selected item's category with a generated
// problem.
package questions

import (
	"fmt"
	"math"
	"math/rand"

	pkgerrors "studyforge/pkg/errors"
)

// AnswerTolerance is the accepted relative error on a numeric answer.
const AnswerTolerance = 0.1

// Problem is a presentable prompt with its expected answer
type Problem struct {
	Category      string   `json:"category"`
	Question      string   `json:"question"`
	Answer        float64  `json:"answer"`
	SolutionSteps []string `json:"solution_steps"`
}

// IsCorrect reports whether the given answer falls within tolerance
func (p Problem) IsCorrect(answer float64) bool {
	return math.Abs(answer-p.Answer) <= AnswerTolerance*math.Abs(p.Answer)
}

// Categories returns the category tags the generator knows, in stable order
func Categories() []string {
	return []string{"kinematics", "dynamics", "energy", "circular_motion"}
}

// Generator produces randomized problems per category
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the given source
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces a problem for the given category tag
func (g *Generator) Generate(category string) (Problem, error) {
	switch category {
	case "kinematics":
		return g.kinematics(), nil
	case "dynamics":
		return g.dynamics(), nil
	case "energy":
		return g.energy(), nil
	case "circular_motion":
		return g.circularMotion(), nil
	default:
		return Problem{}, pkgerrors.NewNotFoundError("question category " + category)
	}
}

func (g *Generator) kinematics() Problem {
	v0 := round2(g.uniform(0, 20))
	a := round2(g.uniform(0.5, 5))
	t := round2(g.uniform(1, 10))

	v := v0 + a*t

	return Problem{
		Category: "kinematics",
		Question: fmt.Sprintf(
			"An object starts with an initial velocity of %g m/s. If it accelerates at %g m/s², what is its velocity after %g seconds?",
			v0, a, t),
		Answer: round2(v),
		SolutionSteps: []string{
			"v = v₀ + at",
			fmt.Sprintf("v = %g + %g × %g", v0, a, t),
			fmt.Sprintf("v = %g m/s", round2(v)),
		},
	}
}

func (g *Generator) dynamics() Problem {
	m := round2(g.uniform(1, 100))
	a := round2(g.uniform(0.5, 10))

	f := m * a

	return Problem{
		Category: "dynamics",
		Question: fmt.Sprintf(
			"A %g kg object experiences an acceleration of %g m/s². What is the net force acting on it?",
			m, a),
		Answer: round2(f),
		SolutionSteps: []string{
			"F = ma",
			fmt.Sprintf("F = %g × %g", m, a),
			fmt.Sprintf("F = %g N", round2(f)),
		},
	}
}

func (g *Generator) energy() Problem {
	const gravity = 9.8
	m := round2(g.uniform(1, 50))
	h := round2(g.uniform(1, 20))

	pe := m * gravity * h

	return Problem{
		Category: "energy",
		Question: fmt.Sprintf(
			"An object with a mass of %g kg is raised to a height of %g m. Calculate its gravitational potential energy.",
			m, h),
		Answer: round2(pe),
		SolutionSteps: []string{
			"PE = mgh",
			fmt.Sprintf("PE = %g × %g × %g", m, gravity, h),
			fmt.Sprintf("PE = %g J", round2(pe)),
		},
	}
}

func (g *Generator) circularMotion() Problem {
	r := round2(g.uniform(1, 10))
	v := round2(g.uniform(5, 30))

	ac := v * v / r

	return Problem{
		Category: "circular_motion",
		Question: fmt.Sprintf(
			"An object moves in a circular path with a radius of %g m and a velocity of %g m/s. What is its centripetal acceleration?",
			r, v),
		Answer: round2(ac),
		SolutionSteps: []string{
			"a = v²/r",
			fmt.Sprintf("a = %g²/%g", v, r),
			fmt.Sprintf("a = %g m/s²", round2(ac)),
		},
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
