package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples episode starting states uniformly at random
// from a hyper-rectangle of state space. Degenerate intervals (with
// Min == Max) pin the corresponding state variable to a fixed value,
// which is useful for evaluation runs that should always begin from
// the same reference point.
type UniformStarter struct {
	features int
	rand     *distmv.Uniform
}

// NewUniformStarter returns a UniformStarter sampling uniformly
// within bounds, with one interval per state dimension
func NewUniformStarter(bounds []r1.Interval, seed uint64) UniformStarter {
	for _, bound := range bounds {
		if bound.Min > bound.Max {
			panic("newUniformStarter: interval min exceeds max")
		}
	}

	source := rand.NewSource(seed)
	return UniformStarter{len(bounds), distmv.NewUniform(bounds, source)}
}

// Start samples and returns a starting state
func (u UniformStarter) Start() mat.Vector {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}
