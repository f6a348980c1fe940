// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/rbfq/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines whether a timestep is the last in an episode,
// modifying the timestep's StepType accordingly. Enders only signal
// environmental termination. Episode step budgets are not Enders:
// they are owned by whatever drives the environment and never mark a
// timestep as Last.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment
type Task interface {
	// GetReward returns the raw reward for the transition from state
	// to nextState under action
	GetReward(state mat.Vector, action int, nextState mat.Vector) float64

	// AtGoal returns whether the argument state is a goal state
	AtGoal(state mat.Vector) bool

	// Min and Max return the minimum and maximum attainable rewards
	// over all timesteps
	Min() float64
	Max() float64
}

// Environment implements a simulated environment with a Task to
// complete. State observations are continuous vectors and actions are
// discrete, identified by their index in [0, ActionCount()).
//
// An Environment signals episode termination through the returned
// TimeStep (and the bool returned by Step) only when the environment
// itself is terminal. Callers enforcing a step budget must count
// steps themselves.
type Environment interface {
	Task

	// Reset resets the environment between episodes, drawing the
	// starting state from the environment's Starter
	Reset() timestep.TimeStep

	// ResetAt resets the environment to the given position and
	// velocity. ResetAt panics if the state is outside the
	// environmental bounds.
	ResetAt(position, velocity float64) timestep.TimeStep

	// Step takes one environmental step given an action, returning
	// the next timestep and whether that timestep is the last in the
	// episode
	Step(action int) (timestep.TimeStep, bool)

	// ActionCount returns the number of available discrete actions
	ActionCount() int

	// PositionBounds returns the interval to which the position
	// state variable is clipped
	PositionBounds() r1.Interval

	// SpeedBound returns the largest attainable speed. Velocity is
	// clipped to [-SpeedBound(), SpeedBound()].
	SpeedBound() float64

	// GoalPosition returns the position at or beyond which the goal
	// is considered reached
	GoalPosition() float64

	// Render draws the current environmental state
	Render()
}
