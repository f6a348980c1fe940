package mountaincar

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/rbfq/environment"
)

func newTestEnv(t *testing.T) *Discrete {
	t.Helper()

	start := env.NewUniformStarter([]r1.Interval{
		{Min: -0.6, Max: -0.4},
		{Min: -0.01, Max: 0.01},
	}, 13)
	m, firstStep := NewDiscrete(NewGoal(GoalPosition), start, 1.0)

	if !firstStep.First() {
		t.Fatalf("environment did not start on a First timestep")
	}
	return m
}

func TestResetAtSetsExactState(t *testing.T) {
	m := newTestEnv(t)

	step := m.ResetAt(-0.5, 0.01)
	if step.Observation.AtVec(0) != -0.5 ||
		step.Observation.AtVec(1) != 0.01 {
		t.Errorf("got start state %v, expected (-0.5, 0.01)",
			step.Observation)
	}
	if !step.First() {
		t.Errorf("reset did not produce a First timestep")
	}
}

func TestResetAtPanicsOutsideBounds(t *testing.T) {
	m := newTestEnv(t)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an out-of-bounds position")
		}
	}()
	m.ResetAt(1.0, 0)
}

func TestStepFollowsPhysics(t *testing.T) {
	m := newTestEnv(t)
	m.ResetAt(-0.5, 0)

	// Coasting at the valley bottom: only gravity acts
	step, last := m.Step(1)
	expectedVelocity := -Gravity * math.Cos(3*-0.5)
	expectedPosition := -0.5 + expectedVelocity

	if got := step.Observation.AtVec(1); got != expectedVelocity {
		t.Errorf("got velocity %v, expected %v", got, expectedVelocity)
	}
	if got := step.Observation.AtVec(0); got != expectedPosition {
		t.Errorf("got position %v, expected %v", got, expectedPosition)
	}
	if last {
		t.Error("episode ended without reaching the goal")
	}
	if step.Reward != 0 {
		t.Errorf("got raw reward %v, expected 0 off the goal", step.Reward)
	}
}

func TestStepClipsVelocityAndPosition(t *testing.T) {
	m := newTestEnv(t)
	m.ResetAt(MinPosition, -MaxSpeed)

	// Pushing left at the left wall: the car stops dead
	step, _ := m.Step(0)
	if got := step.Observation.AtVec(0); got != MinPosition {
		t.Errorf("got position %v, expected the wall at %v", got,
			MinPosition)
	}
	if got := step.Observation.AtVec(1); got != 0 {
		t.Errorf("got velocity %v, expected 0 at the wall", got)
	}
}

func TestGoalTransitionIsTerminalWithUnitReward(t *testing.T) {
	m := newTestEnv(t)
	m.ResetAt(0.49, MaxSpeed)

	step, last := m.Step(2)
	if !last || !step.Last() {
		t.Fatalf("transition into the goal region did not end the episode")
	}
	if step.Reward != 1 {
		t.Errorf("got raw reward %v, expected 1 at the goal", step.Reward)
	}
	if !m.AtGoal(step.Observation) {
		t.Errorf("state %v not recognized as a goal state",
			step.Observation)
	}
}

func TestStepPanicsOnIllegalAction(t *testing.T) {
	m := newTestEnv(t)
	m.ResetAt(-0.5, 0)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an illegal action")
		}
	}()
	m.Step(3)
}

func TestEnvironmentalConstants(t *testing.T) {
	m := newTestEnv(t)

	if m.ActionCount() != 3 {
		t.Errorf("got %d actions, expected 3", m.ActionCount())
	}
	if m.GoalPosition() != GoalPosition {
		t.Errorf("got goal position %v, expected %v", m.GoalPosition(),
			GoalPosition)
	}
	if bounds := m.PositionBounds(); bounds.Min != MinPosition ||
		bounds.Max != MaxPosition {
		t.Errorf("got position bounds %v, expected [%v, %v]", bounds,
			MinPosition, MaxPosition)
	}
	if m.SpeedBound() != MaxSpeed {
		t.Errorf("got speed bound %v, expected %v", m.SpeedBound(),
			MaxSpeed)
	}
}

func TestRewardBoundsComeFromTask(t *testing.T) {
	m := newTestEnv(t)

	if m.Min() != 0 || m.Max() != 1 {
		t.Errorf("got reward bounds [%v, %v], expected [0, 1]", m.Min(),
			m.Max())
	}
}
