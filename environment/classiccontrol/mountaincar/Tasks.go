package mountaincar

import (
	"gonum.org/v1/gonum/mat"
)

// Goal implements the classic control task of reaching a goal
// position on Mountain Car. The agent must learn to drive the car up
// the hill and reach the goal. Since the car is underpowered, it must
// rock back and forth from hill to hill until it gets there.
//
// Rewards are 0 on each timestep and 1 for the action which
// transitions the car into the goal region. Downstream reward shaping
// relies on this raw convention to distinguish the goal transition
// from ordinary steps.
type Goal struct {
	goalX float64 // x position of goal
}

// NewGoal creates and returns a new Goal task with the argument goal
// x position
func NewGoal(goalX float64) *Goal {
	return &Goal{goalX}
}

// AtGoal returns whether the argument state is a goal state
func (g *Goal) AtGoal(state mat.Vector) bool {
	return state.AtVec(0) >= g.goalX
}

// GetReward returns the raw reward for a transition into nextState:
// 1.0 when nextState is in the goal region and 0.0 otherwise
func (g *Goal) GetReward(_ mat.Vector, _ int, nextState mat.Vector) float64 {
	if nextState.AtVec(0) >= g.goalX {
		return 1.0
	}
	return 0.0
}

// Min returns the minimum attainable reward over all timesteps
func (g *Goal) Min() float64 { return 0.0 }

// Max returns the maximum attainable reward over all timesteps
func (g *Goal) Max() float64 { return 1.0 }
