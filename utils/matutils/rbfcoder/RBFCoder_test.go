package rbfcoder

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/rbfq/utils/matutils"
)

func testBounds() []r1.Interval {
	return []r1.Interval{{Min: -2, Max: 2}, {Min: -2, Max: 2}}
}

func TestNumFeaturesIsProductOfKernelCounts(t *testing.T) {
	coder, err := NewRBFCoder(testBounds(), []int{7, 5})
	if err != nil {
		t.Fatalf("could not create coder: %v", err)
	}

	if got := coder.NumFeatures(); got != 35 {
		t.Errorf("got %d features, expected 35", got)
	}
}

func TestEncodeLengthMatchesNumFeatures(t *testing.T) {
	coder, err := NewRBFCoder(testBounds(), []int{4, 3})
	if err != nil {
		t.Fatalf("could not create coder: %v", err)
	}

	encoded := coder.Encode(mat.NewVecDense(2, []float64{0.5, -0.5}))
	if encoded.Len() != coder.NumFeatures() {
		t.Errorf("encoded length %d does not match feature count %d",
			encoded.Len(), coder.NumFeatures())
	}
}

func TestEncodePeaksAtKernelCenter(t *testing.T) {
	coder, err := NewRBFCoder(testBounds(), []int{3, 3})
	if err != nil {
		t.Fatalf("could not create coder: %v", err)
	}

	// The grid midpoint (0, 0) is a kernel center, so exactly one
	// feature saturates at 1 and it is the largest
	encoded := coder.Encode(mat.NewVecDense(2, []float64{0, 0}))

	peak := matutils.MaxVec(encoded)
	if encoded.AtVec(peak) != 1.0 {
		t.Errorf("kernel activation at its own center is %v, expected 1",
			encoded.AtVec(peak))
	}
	for i := 0; i < encoded.Len(); i++ {
		if i != peak && encoded.AtVec(i) >= 1.0 {
			t.Errorf("off-center kernel %d saturated at %v", i,
				encoded.AtVec(i))
		}
	}
}

func TestEncodeActivationsDecayWithDistance(t *testing.T) {
	coder, err := NewRBFCoder(testBounds(), []int{3, 3})
	if err != nil {
		t.Fatalf("could not create coder: %v", err)
	}

	// Centers along each dimension sit at -2, 0, 2 with width 2, so
	// the activation of the (0, 0) kernel at distance (1, 0) is
	// exp(-0.5 * 0.25) and smaller further out
	near := coder.Encode(mat.NewVecDense(2, []float64{1, 0}))
	far := coder.Encode(mat.NewVecDense(2, []float64{2, 2}))

	center := 4 // index of the (0, 0) kernel in a 3x3 grid
	expected := math.Exp(-0.5 * 0.25)
	if math.Abs(near.AtVec(center)-expected) > 1e-12 {
		t.Errorf("got activation %v, expected %v", near.AtVec(center),
			expected)
	}
	if far.AtVec(center) >= near.AtVec(center) {
		t.Errorf("activation did not decay with distance: %v >= %v",
			far.AtVec(center), near.AtVec(center))
	}
}

func TestEncodeIsPure(t *testing.T) {
	coder, err := NewRBFCoder(testBounds(), []int{5, 4})
	if err != nil {
		t.Fatalf("could not create coder: %v", err)
	}

	v := mat.NewVecDense(2, []float64{0.7, -1.3})
	if !mat.Equal(coder.Encode(v), coder.Encode(v)) {
		t.Error("two encodings of the same vector differ")
	}
}

func TestEncodePanicsOnDimensionMismatch(t *testing.T) {
	coder, err := NewRBFCoder(testBounds(), []int{3, 3})
	if err != nil {
		t.Fatalf("could not create coder: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a mis-sized vector")
		}
	}()
	coder.Encode(mat.NewVecDense(3, []float64{0, 0, 0}))
}

func TestNewRejectsIllegalArguments(t *testing.T) {
	if _, err := NewRBFCoder(testBounds(), []int{3}); err == nil {
		t.Error("expected an error for mismatched bounds and kernels")
	}
	if _, err := NewRBFCoder(testBounds(), []int{3, 0}); err == nil {
		t.Error("expected an error for a non-positive kernel count")
	}
	if _, err := NewRBFCoder(nil, nil); err == nil {
		t.Error("expected an error for zero dimensions")
	}
}
