package experiment

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/logrusorgru/aurora"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/rbfq/config"
	env "github.com/samuelfneumann/rbfq/environment"
	"github.com/samuelfneumann/rbfq/experiment/tracker"
	"github.com/samuelfneumann/rbfq/solver"
)

// Status is the state of a training Session
type Status int

const (
	// Training means the Session is still running episodes
	Training Status = iota

	// Converged means an evaluation block met the solved threshold
	Converged

	// ExhaustedBudget means the episode budget ran out before any
	// evaluation block met the solved threshold. This is a defined
	// outcome of a run, not an error.
	ExhaustedBudget
)

func (s Status) String() string {
	switch s {
	case Training:
		return "Training"
	case Converged:
		return "Converged"
	default:
		return "ExhaustedBudget"
	}
}

// Session drives a complete training run: repeated training episodes
// with a decaying ε-greedy behaviour policy, periodic evaluation
// blocks of greedy episodes, and a convergence decision based on the
// mean evaluation return.
//
// A Session owns all mutable training state: the solver (and through
// it the weights), the current exploration rate, and a single seeded
// random source from which every stochastic decision of the run is
// drawn. Independent Sessions therefore never share state and can be
// run side by side.
type Session struct {
	environment    env.Environment
	solver         *solver.Solver
	conf           config.Config
	rng            *rand.Rand
	trainStarter   env.Starter
	evalStarter    env.Starter
	epsilon        float64
	referenceState mat.Vector
	curves         *tracker.Curves
	status         Status
	episodes       int
}

// NewSession creates a new Session for the argument environment and
// solver
func NewSession(environment env.Environment, s *solver.Solver,
	conf config.Config) *Session {
	reference := mat.NewVecDense(2, []float64{EvalStartPosition, 0})

	return &Session{
		environment:    environment,
		solver:         s,
		conf:           conf,
		rng:            rand.New(rand.NewSource(conf.Seed)),
		trainStarter:   TrainStarter(environment, conf.Seed+1),
		evalStarter:    EvalStarter(environment, conf.Seed+2),
		epsilon:        conf.Epsilon,
		referenceState: reference,
		curves:         tracker.NewCurves(conf.RunID(), conf.DataDir),
		status:         Training,
	}
}

// Status returns the Session's current state
func (s *Session) Status() Status {
	return s.status
}

// Epsilon returns the current exploration rate
func (s *Session) Epsilon() float64 {
	return s.epsilon
}

// Episodes returns the number of training episodes run so far
func (s *Session) Episodes() int {
	return s.episodes
}

// Curves returns the diagnostic series recorded by the Session
func (s *Session) Curves() *tracker.Curves {
	return s.curves
}

// Run executes training episodes until an evaluation block meets the
// solved threshold or the episode budget is exhausted, returning the
// terminal Status.
//
// After every training episode the exploration rate is decayed
// multiplicatively toward its floor and the episode's diagnostics are
// recorded. Every EvalEvery-th episode, EvalTrials greedy episodes
// estimate policy quality; a mean evaluation return at or above the
// solved threshold ends the run as Converged.
func (s *Session) Run() Status {
	for episode := 1; episode <= s.conf.MaxEpisodes; episode++ {
		gain, meanDelta := RunEpisode(s.environment, s.solver,
			s.trainStarter, s.rng, EpisodeOptions{
				Mode:     Train,
				Epsilon:  s.epsilon,
				MaxSteps: s.conf.MaxEpisodeSteps,
			})

		s.epsilon = math.Max(s.conf.MinEpsilon,
			s.epsilon*s.conf.EpsilonDecay)
		s.curves.RecordEpisode(gain, meanDelta,
			s.solver.EstimateValue(s.referenceState))
		s.episodes = episode

		if s.conf.Verbose {
			fmt.Printf("after %d, reward = %v, epsilon %v, average "+
				"error %v\n", episode, aurora.Green(gain),
				aurora.Yellow(s.epsilon), aurora.Cyan(meanDelta))
		}

		if episode%s.conf.EvalEvery == s.conf.EvalEvery-1 {
			meanGain, successRate := s.evaluate()
			s.curves.RecordSuccessRate(successRate)

			if s.conf.Verbose {
				fmt.Println(aurora.Blue(fmt.Sprintf("tested %d "+
					"episodes: mean gain is %v, success rate %v",
					s.conf.EvalTrials, meanGain, successRate)))
			}

			if meanGain >= s.conf.SolvedThreshold {
				if s.conf.Verbose {
					fmt.Println(aurora.Green(fmt.Sprintf(
						"solved in %d episodes", episode)))
				}
				s.status = Converged
				return s.status
			}
		}
	}

	s.status = ExhaustedBudget
	return s.status
}

// evaluate runs one evaluation block of greedy episodes and returns
// the mean shaped return and the success rate of the block
func (s *Session) evaluate() (float64, float64) {
	gains := make([]float64, s.conf.EvalTrials)
	for i := range gains {
		gains[i], _ = RunEpisode(s.environment, s.solver, s.evalStarter,
			s.rng, EpisodeOptions{
				Mode:     Evaluate,
				Epsilon:  0,
				MaxSteps: s.conf.MaxEpisodeSteps,
			})
	}

	return stat.Mean(gains, nil),
		SuccessRate(gains, FailureGain(s.conf.MaxEpisodeSteps))
}

// Showcase runs one final greedy episode with rendering enabled and,
// if the environment supports it, writes a PNG snapshot of the final
// state next to the curve archive.
func (s *Session) Showcase() error {
	RunEpisode(s.environment, s.solver, s.evalStarter, s.rng,
		EpisodeOptions{
			Mode:     Evaluate,
			Epsilon:  math.NaN(),
			MaxSteps: s.conf.MaxEpisodeSteps,
			Render:   true,
		})

	if snap, ok := s.environment.(interface{ Snapshot(string) error }); ok {
		path := filepath.Join(s.conf.DataDir, s.conf.RunID()+".png")
		return snap.Snapshot(path)
	}
	return nil
}

// FailureGain returns the shaped return of an episode that exhausts
// its step budget without ever reaching the goal: one step cost per
// budgeted step.
func FailureGain(maxSteps int) float64 {
	return -float64(maxSteps)
}

// SuccessRate returns the fraction of evaluation episodes that did
// not end with the failure return, i.e. that reached the goal within
// the step budget
func SuccessRate(gains []float64, failureGain float64) float64 {
	successes := 0
	for _, gain := range gains {
		if gain != failureGain {
			successes++
		}
	}
	return float64(successes) / float64(len(gains))
}
