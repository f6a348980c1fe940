// Package normalizer implements standardization of state vectors
// using fixed, precomputed per-dimension statistics
package normalizer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Normalizer rescales raw state vectors to zero mean and unit
// variance using per-dimension mean and standard deviation constants
// supplied at construction. The statistics are fixed for the lifetime
// of the Normalizer, so normalization is a pure function of its input.
type Normalizer struct {
	mean *mat.VecDense
	std  *mat.VecDense
}

// New creates a new Normalizer from per-dimension means and standard
// deviations. The two arguments must have the same length and all
// standard deviations must be positive.
func New(mean, std []float64) (*Normalizer, error) {
	if len(mean) != len(std) {
		return nil, fmt.Errorf("new: mean has %d dimensions but std has %d",
			len(mean), len(std))
	}
	if len(mean) == 0 {
		return nil, fmt.Errorf("new: statistics cannot be empty")
	}
	for i, s := range std {
		if s <= 0 {
			return nil, fmt.Errorf("new: standard deviation %v at "+
				"dimension %d is not positive", s, i)
		}
	}

	meanVec := mat.NewVecDense(len(mean), mean)
	stdVec := mat.NewVecDense(len(std), std)
	return &Normalizer{meanVec, stdVec}, nil
}

// Dims returns the number of state dimensions the Normalizer operates
// on
func (n *Normalizer) Dims() int {
	return n.mean.Len()
}

// Normalize standardizes a single state vector, returning a newly
// allocated vector. Normalize panics if the state does not have the
// same number of dimensions as the statistics the Normalizer was
// constructed with.
func (n *Normalizer) Normalize(state mat.Vector) *mat.VecDense {
	if state.Len() != n.mean.Len() {
		panic(fmt.Sprintf("normalize: state has %d dimensions, "+
			"expected %d", state.Len(), n.mean.Len()))
	}

	normalized := mat.NewVecDense(state.Len(), nil)
	for i := 0; i < state.Len(); i++ {
		value := (state.AtVec(i) - n.mean.AtVec(i)) / n.std.AtVec(i)
		normalized.SetVec(i, value)
	}
	return normalized
}

// NormalizeBatch standardizes a batch of state vectors, one state per
// row, returning a newly allocated matrix.
func (n *Normalizer) NormalizeBatch(states *mat.Dense) *mat.Dense {
	rows, cols := states.Dims()
	if cols != n.mean.Len() {
		panic(fmt.Sprintf("normalizeBatch: states have %d dimensions, "+
			"expected %d", cols, n.mean.Len()))
	}

	normalized := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		normalized.SetRow(i, mat.Col(nil, 0,
			n.Normalize(states.RowView(i))))
	}
	return normalized
}
