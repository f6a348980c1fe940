// Package solver implements linear semi-gradient Q-learning over a
// fixed radial basis function feature encoding.
//
// The Solver owns a weight matrix with one row of feature weights per
// discrete action. Action values are linear in the features of a
// state, the policy is greedy in the action values, and learning is
// the off-policy semi-gradient Q-learning update: the bootstrap
// target always uses the maximum action value in the next state,
// regardless of which action the behaviour policy goes on to take.
package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/rbfq/timestep"
	"github.com/samuelfneumann/rbfq/utils/matutils"
	"github.com/samuelfneumann/rbfq/utils/matutils/initializers/weights"
	"github.com/samuelfneumann/rbfq/utils/matutils/normalizer"
	"github.com/samuelfneumann/rbfq/utils/matutils/rbfcoder"
)

// Solver learns action values for a continuous-state, discrete-action
// task using linear function approximation. Raw states are
// standardized by a Normalizer and encoded by an RBFCoder; the
// resulting feature vectors are combined with the weight matrix to
// produce action values.
//
// The weight matrix has one row per action and one column per
// feature. It is allocated and initialized once at construction and
// afterwards mutated only by Update.
type Solver struct {
	weights      *mat.Dense // actions × features
	actions      int
	features     int
	gamma        float64
	learningRate float64
	norm         *normalizer.Normalizer
	coder        *rbfcoder.RBFCoder
}

// New creates a new Solver. The discount factor gamma must lie in
// (0, 1) and the learning rate must be positive. The init argument
// provides the one-time weight initialization.
func New(norm *normalizer.Normalizer, coder *rbfcoder.RBFCoder,
	actions int, gamma, learningRate float64,
	init weights.Initializer) (*Solver, error) {
	if actions < 1 {
		return nil, fmt.Errorf("new: need at least one action, got %d",
			actions)
	}
	if gamma <= 0 || gamma >= 1 {
		return nil, fmt.Errorf("new: discount factor %v ∉ (0, 1)", gamma)
	}
	if learningRate <= 0 {
		return nil, fmt.Errorf("new: learning rate %v is not positive",
			learningRate)
	}

	features := coder.NumFeatures()
	w := mat.NewDense(actions, features, nil)
	init.Initialize(w)

	return &Solver{w, actions, features, gamma, learningRate, norm,
		coder}, nil
}

// ActionCount returns the number of discrete actions the Solver
// estimates values for
func (s *Solver) ActionCount() int {
	return s.actions
}

// NumFeatures returns the length of the feature vectors the Solver
// operates on
func (s *Solver) NumFeatures() int {
	return s.features
}

// Weights returns the Solver's weight matrix. The returned matrix is
// the Solver's own storage, not a copy.
func (s *Solver) Weights() *mat.Dense {
	return s.weights
}

// Features computes the feature vector of a raw state: the state is
// standardized and then encoded with radial basis functions. Features
// is a pure function of its input; feature vectors are recomputed on
// every call and never cached.
func (s *Solver) Features(state mat.Vector) *mat.VecDense {
	return s.coder.Encode(s.norm.Normalize(state))
}

// ActionValue returns the estimated value of an action given the
// feature vector of a state: the dot product of the features with the
// weight row for the action. ActionValue panics if the action index
// or the feature dimensionality is illegal.
func (s *Solver) ActionValue(features mat.Vector, action int) float64 {
	s.validateAction(action)
	if features.Len() != s.features {
		panic(fmt.Sprintf("actionValue: feature vector has length %d, "+
			"expected %d", features.Len(), s.features))
	}

	return mat.Dot(s.weights.RowView(action), features)
}

// AllActionValues returns the estimated value of every action given
// the feature vector of a state
func (s *Solver) AllActionValues(features mat.Vector) *mat.VecDense {
	if features.Len() != s.features {
		panic(fmt.Sprintf("allActionValues: feature vector has length "+
			"%d, expected %d", features.Len(), s.features))
	}

	values := mat.NewVecDense(s.actions, nil)
	values.MulVec(s.weights, features)
	return values
}

// GreedyAction returns the action with the highest estimated value in
// the argument state. Ties are broken in favour of the lowest action
// index.
func (s *Solver) GreedyAction(state mat.Vector) int {
	return matutils.MaxVec(s.AllActionValues(s.Features(state)))
}

// EstimateValue returns the estimated value of the argument state
// under the greedy policy, i.e. the maximum action value in the state
func (s *Solver) EstimateValue(state mat.Vector) float64 {
	values := s.AllActionValues(s.Features(state))
	return values.AtVec(matutils.MaxVec(values))
}

// Update performs one semi-gradient Q-learning update for the
// argument transition and returns the temporal-difference error.
//
// When the transition is terminal the target is the reward alone:
// terminal states have value 0 by convention, so no bootstrap term
// contributes. Otherwise the target bootstraps from the maximum
// action value in the next state. Only the weight row of the taken
// action is touched; all other rows have zero gradient.
func (s *Solver) Update(t timestep.Transition) float64 {
	s.validateAction(t.Action)
	if math.IsNaN(t.Reward) || math.IsInf(t.Reward, 0) {
		panic(fmt.Sprintf("update: non-finite reward %v", t.Reward))
	}

	phi := s.Features(t.State)
	estimate := s.ActionValue(phi, t.Action)

	target := t.Reward
	if !t.Terminal {
		nextValues := s.AllActionValues(s.Features(t.NextState))
		target += s.gamma * mat.Max(nextValues)
	}

	tdError := target - estimate

	// In-place gradient step on the taken action's weight row
	row := s.weights.RowView(t.Action).(*mat.VecDense)
	row.AddScaledVec(row, s.learningRate*tdError, phi)

	return tdError
}

// String returns a string representation of the Solver's weights
func (s *Solver) String() string {
	return matutils.Format(s.weights)
}

func (s *Solver) validateAction(action int) {
	if action < 0 || action >= s.actions {
		panic(fmt.Sprintf("illegal action %d ∉ [0, %d)", action,
			s.actions))
	}
}
