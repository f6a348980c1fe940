package experiment

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/rbfq/config"
	"github.com/samuelfneumann/rbfq/experiment/tracker"
	"github.com/samuelfneumann/rbfq/solver"
	ts "github.com/samuelfneumann/rbfq/timestep"
	"github.com/samuelfneumann/rbfq/utils/matutils/initializers/weights"
	"github.com/samuelfneumann/rbfq/utils/matutils/normalizer"
	"github.com/samuelfneumann/rbfq/utils/matutils/rbfcoder"
)

// rampWorld is a two-variable environment that drifts toward its goal
// by a fixed position increment on every step, regardless of the
// action taken. Any policy finishes an episode within a handful of
// steps, which pins down the behaviour of the surrounding training
// loop independently of policy quality.
type rampWorld struct {
	position float64
	velocity float64
}

const (
	rampIncrement float64 = 0.25
	rampGoal      float64 = 0.5
)

func (r *rampWorld) state() *mat.VecDense {
	return mat.NewVecDense(2, []float64{r.position, r.velocity})
}

func (r *rampWorld) GetReward(_ mat.Vector, _ int,
	nextState mat.Vector) float64 {
	if nextState.AtVec(0) >= rampGoal {
		return 1
	}
	return 0
}

func (r *rampWorld) AtGoal(state mat.Vector) bool {
	return state.AtVec(0) >= rampGoal
}

func (r *rampWorld) Min() float64 { return 0 }
func (r *rampWorld) Max() float64 { return 1 }

func (r *rampWorld) Reset() ts.TimeStep {
	return r.ResetAt(-0.5, 0)
}

func (r *rampWorld) ResetAt(position, velocity float64) ts.TimeStep {
	r.position = position
	r.velocity = velocity
	return ts.New(ts.First, 0, 1, r.state(), 0)
}

func (r *rampWorld) Step(_ int) (ts.TimeStep, bool) {
	r.position += rampIncrement

	stepType := ts.Mid
	if r.position >= rampGoal {
		stepType = ts.Last
	}
	step := ts.New(stepType, r.GetReward(nil, 0, r.state()), 1, r.state(), 0)
	return step, step.Last()
}

func (r *rampWorld) ActionCount() int { return 3 }

func (r *rampWorld) PositionBounds() r1.Interval {
	return r1.Interval{Min: -1.2, Max: 0.6}
}

func (r *rampWorld) SpeedBound() float64 { return 0.07 }

func (r *rampWorld) GoalPosition() float64 { return rampGoal }

func (r *rampWorld) Render() {}

func newSessionSolver(t *testing.T) *solver.Solver {
	t.Helper()

	norm, err := normalizer.New([]float64{0, 0}, []float64{1, 0.1})
	if err != nil {
		t.Fatalf("could not create normalizer: %v", err)
	}
	coder, err := rbfcoder.NewRBFCoder([]r1.Interval{
		{Min: -2, Max: 2},
		{Min: -2, Max: 2},
	}, []int{3, 3})
	if err != nil {
		t.Fatalf("could not create coder: %v", err)
	}
	s, err := solver.New(norm, coder, 3, 0.999, 0.05,
		weights.NewLinearUV(weights.NewZeroUV()))
	if err != nil {
		t.Fatalf("could not create solver: %v", err)
	}
	return s
}

func TestSessionRun(t *testing.T) {
	Convey("Given a session on an environment every policy solves",
		t, func() {
		conf := config.Default()
		conf.Seed = 42
		conf.MaxEpisodes = 50
		conf.Epsilon = 0.5
		conf.MinEpsilon = 0.05
		conf.EpsilonDecay = 0.5
		conf.Verbose = false
		conf.DataDir = t.TempDir()
		So(conf.Validate(), ShouldBeNil)

		session := NewSession(&rampWorld{}, newSessionSolver(t), conf)
		So(session.Status(), ShouldEqual, Training)

		Convey("When the session runs", func() {
			status := session.Run()

			Convey("It converges at the first evaluation block", func() {
				So(status, ShouldEqual, Converged)
				So(session.Status(), ShouldEqual, Converged)
				So(session.Episodes(), ShouldEqual, conf.EvalEvery-1)
			})

			Convey("The exploration rate has decayed to its floor", func() {
				So(session.Epsilon(), ShouldEqual, conf.MinEpsilon)
			})

			Convey("The recorded curves cover the run", func() {
				archive := session.Curves().Snapshot()
				So(len(archive.Returns), ShouldEqual, session.Episodes())
				So(len(archive.ReferenceValues), ShouldEqual,
					session.Episodes())
				So(len(archive.SuccessRates), ShouldEqual, 1)
				So(archive.SuccessRates[0], ShouldEqual, 1.0)

				// Every episode ends in the goal bonus, so the
				// estimated start-state value climbs over the run
				last := len(archive.ReferenceValues) - 1
				So(archive.ReferenceValues[last], ShouldBeGreaterThan,
					archive.ReferenceValues[0])
			})
		})
	})
}

func TestSessionExhaustsBudget(t *testing.T) {
	Convey("Given a session whose threshold no policy can meet", t, func() {
		conf := config.Default()
		conf.Seed = 42
		conf.MaxEpisodes = 20
		conf.SolvedThreshold = 101
		conf.Verbose = false
		conf.DataDir = t.TempDir()

		session := NewSession(&rampWorld{}, newSessionSolver(t), conf)

		Convey("The run ends by exhausting the episode budget", func() {
			So(session.Run(), ShouldEqual, ExhaustedBudget)
			So(session.Episodes(), ShouldEqual, conf.MaxEpisodes)
		})
	})
}

func TestSessionArchiveRoundTrip(t *testing.T) {
	Convey("Given a finished session", t, func() {
		conf := config.Default()
		conf.Seed = 42
		conf.MaxEpisodes = 50
		conf.Verbose = false
		conf.DataDir = t.TempDir()

		session := NewSession(&rampWorld{}, newSessionSolver(t), conf)
		session.Run()

		Convey("Its curves save and load back identically", func() {
			So(session.Curves().Save(), ShouldBeNil)

			archive, err := tracker.Load(session.Curves().Path())
			So(err, ShouldBeNil)
			So(archive, ShouldResemble, session.Curves().Snapshot())
		})
	})
}
