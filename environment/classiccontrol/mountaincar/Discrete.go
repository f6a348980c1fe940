// Package mountaincar implements the discrete action classic control
// environment "Mountain Car"
package mountaincar

import (
	"fmt"

	env "github.com/samuelfneumann/rbfq/environment"
	ts "github.com/samuelfneumann/rbfq/timestep"
)

const ActionCount int = 3

// Discrete implements the classic control Mountain Car environment.
// In this environment, the agent controls a car in a valley between
// two hills. The car is underpowered and cannot drive up the hill
// unless it rocks back and forth from hill to hill, using its
// momentum to gradually climb higher.
//
// State observations consist of the x position of the car and its
// velocity. These are bounded by the MinPosition, MaxPosition, and
// MaxSpeed constants defined in this package. The sign of the
// velocity denotes direction, negative meaning that the car is
// travelling left. Upon reaching the minimum position, the velocity
// of the car is set to 0.
//
// Actions are discrete in {0, 1, 2} and determine in which direction
// to apply full accelerating force to the car:
//
//	Action	Meaning
//	  0		Accelerate left
//	  1		Do nothing
//	  2		Accelerate right
//
// Actions outside {0, 1, 2} result in a panic.
//
// Discrete implements the environment.Environment interface.
type Discrete struct {
	*base
}

// NewDiscrete creates a new discrete action Mountain Car environment
// with the argument task and starter
func NewDiscrete(t env.Task, s env.Starter, discount float64) (*Discrete,
	ts.TimeStep) {
	baseEnv, firstStep := newBase(t, s, discount)
	return &Discrete{baseEnv}, firstStep
}

// ActionCount returns the number of available discrete actions
func (m *Discrete) ActionCount() int {
	return ActionCount
}

// Step takes one environmental step given action a and returns the
// next timestep and a bool indicating whether or not the episode has
// ended. Legal actions are in the set {0, 1, 2}; actions outside this
// range cause a panic.
func (m *Discrete) Step(a int) (ts.TimeStep, bool) {
	if a < MinDiscreteAction || a > MaxDiscreteAction {
		panic(fmt.Sprintf("illegal action %v ∉ {0, 1, 2}", a))
	}

	// Actions determine the direction of the applied force
	force := float64(a) - 1.0

	newState := m.nextState(force)

	return m.update(a, newState)
}
