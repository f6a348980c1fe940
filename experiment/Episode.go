// Package experiment implements episode execution and the training
// loop for a linear semi-gradient Q-learning run
package experiment

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat"

	env "github.com/samuelfneumann/rbfq/environment"
	"github.com/samuelfneumann/rbfq/solver"
	ts "github.com/samuelfneumann/rbfq/timestep"
)

// Mode determines whether an episode trains the solver or only
// evaluates its greedy policy
type Mode int

const (
	// Train episodes follow the ε-greedy behaviour policy and apply
	// the solver's update on every step
	Train Mode = iota

	// Evaluate episodes act fully greedily and never update weights
	Evaluate
)

// renderDelay paces rendered episodes so they are watchable
const renderDelay = 100 * time.Millisecond

// EpisodeOptions configures a single episode run
type EpisodeOptions struct {
	Mode Mode

	// Epsilon is the probability of taking a uniformly random action
	// on each step of a Train episode. NaN means always act greedily.
	// Evaluate episodes ignore Epsilon and always act greedily.
	Epsilon float64

	// MaxSteps is the episode step budget. Reaching it ends the
	// episode but is not an environmental terminal: the final update
	// of a budget-exhausted Train episode still bootstraps.
	MaxSteps int

	Render bool
}

// RunEpisode executes exactly one episode of interaction between the
// solver's policy and the environment, starting from a state drawn
// from start. It returns the episode's accumulated shaped return and,
// for Train episodes, the mean of the per-step TD errors (NaN for
// Evaluate episodes, which perform no updates).
func RunEpisode(environment env.Environment, s *solver.Solver,
	start env.Starter, rng *rand.Rand, opts EpisodeOptions) (float64,
	float64) {
	startState := start.Start()
	step := environment.ResetAt(startState.AtVec(0), startState.AtVec(1))

	if opts.Render {
		environment.Render()
		time.Sleep(renderDelay)
	}

	var gain float64
	var deltas []float64
	state := step.Observation
	stepCount := 0

	for {
		var action int
		explore := opts.Mode == Train && !math.IsNaN(opts.Epsilon) &&
			rng.Float64() < opts.Epsilon
		if explore {
			action = rng.Intn(environment.ActionCount())
		} else {
			action = s.GreedyAction(state)
		}

		if opts.Render {
			environment.Render()
			time.Sleep(renderDelay)
		}

		next, terminal := environment.Step(action)
		reward := ShapeReward(next.Reward)
		stepCount++
		gain += reward

		if opts.Mode == Train {
			delta := s.Update(ts.Transition{
				State:     state,
				Action:    action,
				Reward:    reward,
				NextState: next.Observation,
				Terminal:  terminal,
			})
			deltas = append(deltas, delta)
		}

		if terminal || stepCount == opts.MaxSteps {
			break
		}
		state = next.Observation
	}

	if opts.Mode != Train {
		return gain, math.NaN()
	}
	return gain, stat.Mean(deltas, nil)
}

// ShapeReward transforms the raw environmental reward into the shaped
// learning signal: the raw reward is decremented, and a resulting 0
// (the raw goal-reached signal of 1) is replaced with a large goal
// bonus. A cost-free step thus becomes a -1 step cost, and reaching
// the goal becomes a +100 terminal attractor.
func ShapeReward(raw float64) float64 {
	shaped := raw - 1
	if shaped == 0 {
		return 100
	}
	return shaped
}

// TrainStarter returns the start-state distribution for training
// episodes: positions uniform across the valid range up to a small
// margin before the goal, and velocities uniform within the speed
// bound. Starting training episodes everywhere broadens the visited
// state distribution well beyond what the natural dynamics produce,
// which the linear approximator needs to learn a useful value surface
// away from the valley floor.
func TrainStarter(e env.Environment, seed uint64) env.UniformStarter {
	bounds := []r1.Interval{
		{Min: e.PositionBounds().Min, Max: e.GoalPosition() - 0.01},
		{Min: -e.SpeedBound(), Max: e.SpeedBound()},
	}
	return env.NewUniformStarter(bounds, seed)
}

// EvalStarter returns the start-state distribution for evaluation
// episodes: the canonical start position with a small random velocity
// jitter, so evaluation measures policy quality from a consistent
// reference point.
func EvalStarter(e env.Environment, seed uint64) env.UniformStarter {
	bounds := []r1.Interval{
		{Min: EvalStartPosition, Max: EvalStartPosition},
		{Min: -e.SpeedBound() / 100, Max: e.SpeedBound() / 100},
	}
	return env.NewUniformStarter(bounds, seed)
}

// EvalStartPosition is the canonical evaluation start position, the
// bottom of the valley
const EvalStartPosition float64 = -0.5
