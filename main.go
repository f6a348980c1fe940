package main

import (
	"flag"
	"log"
	"path/filepath"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/rbfq/config"
	"github.com/samuelfneumann/rbfq/environment"
	"github.com/samuelfneumann/rbfq/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/rbfq/experiment"
	"github.com/samuelfneumann/rbfq/plot"
	"github.com/samuelfneumann/rbfq/solver"
	"github.com/samuelfneumann/rbfq/utils/matutils/initializers/weights"
	"github.com/samuelfneumann/rbfq/utils/matutils/normalizer"
	"github.com/samuelfneumann/rbfq/utils/matutils/rbfcoder"
)

// Precomputed Mountain Car state statistics, estimated offline from
// states visited under a random policy. They standardize raw states
// before radial basis function encoding.
var (
	stateMean = []float64{-3.00283763e-01, 5.61618575e-05}
	stateStd  = []float64{0.51981243, 0.04024895}
)

// rbfBounds returns the normalized-state support over which kernel
// centers are spread: two standard deviations either side of the mean
// along every dimension
func rbfBounds(dims int) []r1.Interval {
	bounds := make([]r1.Interval, dims)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -2, Max: 2}
	}
	return bounds
}

func main() {
	configPath := flag.String("config", "config.yaml",
		"path to the run configuration")
	flag.Parse()

	conf, err := config.FromYaml(*configPath)
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	// Create the environment. The environment's own starter is the
	// canonical start region at the bottom of the valley; training
	// and evaluation episodes override it with their own start-state
	// distributions.
	start := environment.NewUniformStarter([]r1.Interval{
		{Min: -0.6, Max: -0.4},
		{Min: -0.01, Max: 0.01},
	}, conf.Seed)
	task := mountaincar.NewGoal(mountaincar.GoalPosition)
	m, _ := mountaincar.NewDiscrete(task, start, conf.Gamma)

	// Create the feature pipeline
	norm, err := normalizer.New(stateMean, stateStd)
	if err != nil {
		log.Fatalf("could not create normalizer: %v", err)
	}
	coder, err := rbfcoder.NewRBFCoder(rbfBounds(len(conf.KernelsPerDim)),
		conf.KernelsPerDim)
	if err != nil {
		log.Fatalf("could not create RBF coder: %v", err)
	}

	// Create the solver with small negative initial weights
	init := weights.NewLinearUV(distuv.Uniform{
		Min: -0.001,
		Max: 0,
		Src: rand.NewSource(conf.Seed),
	})
	solv, err := solver.New(norm, coder, m.ActionCount(), conf.Gamma,
		conf.LearningRate, init)
	if err != nil {
		log.Fatalf("could not create solver: %v", err)
	}

	// Run the training session
	session := experiment.NewSession(m, solv, *conf)
	status := session.Run()
	log.Printf("finished with status %v after %d episodes", status,
		session.Episodes())

	// Persist the curve archive and its plots
	if err := session.Curves().Save(); err != nil {
		log.Fatalf("could not save training curves: %v", err)
	}
	htmlPath := filepath.Join(conf.DataDir, conf.RunID()+".html")
	if err := plot.Render(session.Curves().Snapshot(), htmlPath); err != nil {
		log.Fatalf("could not plot training curves: %v", err)
	}

	// Show off the learned policy
	if status == experiment.Converged {
		if err := session.Showcase(); err != nil {
			log.Fatalf("could not render final episode: %v", err)
		}
	}
}
