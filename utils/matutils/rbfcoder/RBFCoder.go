// Package rbfcoder implements radial basis function coding of vectors
package rbfcoder

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/rbfq/utils/floatutils"
)

// RBFCoder implements functionality for encoding a low-dimensional
// vector as a dense vector of radial basis function activations. A
// grid of Gaussian kernels is laid over the (bounded) input space,
// with a configurable number of kernel centers along each input
// dimension. The encoding of a vector x is then one feature per
// kernel:
//
//	feature(x) = exp(-0.5 * Σ_d ((x_d - c_d) / σ_d)²)
//
// where c is the kernel center and σ_d is the center spacing along
// dimension d. The total number of features is the product of the
// per-dimension kernel counts.
//
// Kernel placement is deterministic, so encoding is a pure function
// of the input vector: encoding the same vector twice produces
// bit-identical feature vectors.
type RBFCoder struct {
	kernels  []int      // kernel count along each dimension
	centers  *mat.Dense // one kernel center per row
	widths   []float64  // σ along each dimension
	features int
}

// NewRBFCoder creates and returns a new RBFCoder. The bounds argument
// gives the interval along each input dimension over which kernel
// centers are spread; it should cover the support of the vectors to
// be encoded. The kernels argument determines how many kernel centers
// are placed along each dimension and must have one entry per bound.
func NewRBFCoder(bounds []r1.Interval, kernels []int) (*RBFCoder, error) {
	if len(bounds) != len(kernels) {
		return nil, fmt.Errorf("newRBFCoder: got %d bounds for %d "+
			"dimensions", len(bounds), len(kernels))
	}
	if len(kernels) == 0 {
		return nil, fmt.Errorf("newRBFCoder: need at least one dimension")
	}

	// Per-dimension center coordinates and kernel widths
	grid := make([][]float64, len(kernels))
	widths := make([]float64, len(kernels))
	features := 1
	for d, count := range kernels {
		if count < 1 {
			return nil, fmt.Errorf("newRBFCoder: kernel count %d along "+
				"dimension %d is not positive", count, d)
		}
		grid[d] = floatutils.Linspace(bounds[d].Min, bounds[d].Max, count)

		if count > 1 {
			widths[d] = grid[d][1] - grid[d][0]
		} else {
			widths[d] = bounds[d].Max - bounds[d].Min
		}
		features *= count
	}

	// Kernel centers are the cartesian product of the per-dimension
	// coordinates, enumerated with the last dimension varying fastest
	centers := mat.NewDense(features, len(kernels), nil)
	for i := 0; i < features; i++ {
		index := i
		for d := len(kernels) - 1; d >= 0; d-- {
			centers.Set(i, d, grid[d][index%kernels[d]])
			index /= kernels[d]
		}
	}

	return &RBFCoder{kernels, centers, widths, features}, nil
}

// NumFeatures returns the length of encoded feature vectors
func (r *RBFCoder) NumFeatures() int {
	return r.features
}

// Encode encodes a single vector as its radial basis function
// activations, returning a newly allocated feature vector. Encode
// panics if the vector does not have the same number of dimensions
// as the coder was constructed with.
func (r *RBFCoder) Encode(v mat.Vector) *mat.VecDense {
	if v.Len() != len(r.kernels) {
		panic(fmt.Sprintf("encode: vector has %d dimensions, expected %d",
			v.Len(), len(r.kernels)))
	}

	encoded := mat.NewVecDense(r.features, nil)
	for i := 0; i < r.features; i++ {
		var dist float64
		for d := 0; d < len(r.kernels); d++ {
			z := (v.AtVec(d) - r.centers.At(i, d)) / r.widths[d]
			dist += z * z
		}
		encoded.SetVec(i, math.Exp(-0.5*dist))
	}
	return encoded
}

// EncodeBatch encodes a batch of vectors, one vector per row,
// returning a newly allocated matrix with one feature vector per row.
func (r *RBFCoder) EncodeBatch(b *mat.Dense) *mat.Dense {
	rows, _ := b.Dims()
	encoded := mat.NewDense(rows, r.features, nil)
	for i := 0; i < rows; i++ {
		encoded.SetRow(i, mat.Col(nil, 0, r.Encode(b.RowView(i))))
	}
	return encoded
}
