// Package tracker accumulates and persists the diagnostic series of
// a training run
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// BellmanErrorWindow is the moving-average window applied to the
// per-episode mean TD error series before it is saved
const BellmanErrorWindow int = 100

// Curves accumulates the training curves of one run: the shaped
// return of every training episode, the success rate of every
// evaluation block, the estimated value of a fixed reference state
// after every episode, and the mean TD error of every episode. The
// series are kept in memory for the duration of the run and saved as
// a single archive keyed by the run identifier.
type Curves struct {
	runID           string
	dir             string
	returns         []float64
	successRates    []float64
	referenceValues []float64
	bellmanErrors   []float64
}

// Archive is the on-disk form of a Curves. The BellmanErrors series
// is smoothed with a BellmanErrorWindow moving average on save; all
// other series are saved as recorded.
type Archive struct {
	Returns         []float64
	SuccessRates    []float64
	ReferenceValues []float64
	BellmanErrors   []float64
}

// NewCurves creates a new Curves whose archive will be saved in dir
// under the name runID + ".bin"
func NewCurves(runID, dir string) *Curves {
	return &Curves{runID: runID, dir: dir}
}

// RecordEpisode records the diagnostics of one training episode: its
// shaped return, its mean TD error, and the estimated reference-state
// value after the episode's updates
func (c *Curves) RecordEpisode(gain, meanTDError, referenceValue float64) {
	c.returns = append(c.returns, gain)
	c.bellmanErrors = append(c.bellmanErrors, meanTDError)
	c.referenceValues = append(c.referenceValues, referenceValue)
}

// RecordSuccessRate records the success rate of one evaluation block
func (c *Curves) RecordSuccessRate(rate float64) {
	c.successRates = append(c.successRates, rate)
}

// Episodes returns the number of training episodes recorded so far
func (c *Curves) Episodes() int {
	return len(c.returns)
}

// Snapshot returns the current series as an Archive, with the TD
// error series smoothed
func (c *Curves) Snapshot() Archive {
	return Archive{
		Returns:         append([]float64(nil), c.returns...),
		SuccessRates:    append([]float64(nil), c.successRates...),
		ReferenceValues: append([]float64(nil), c.referenceValues...),
		BellmanErrors:   MovingAverage(c.bellmanErrors, BellmanErrorWindow),
	}
}

// Path returns the file the archive is saved to
func (c *Curves) Path() string {
	return filepath.Join(c.dir, c.runID+".bin")
}

// Save writes the archive to disk
func (c *Curves) Save() error {
	file, err := os.Create(c.Path())
	if err != nil {
		return fmt.Errorf("save: could not create archive: %v", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(c.Snapshot()); err != nil {
		return fmt.Errorf("save: could not encode curves: %v", err)
	}
	return nil
}

// Load reads a saved archive back from disk
func Load(path string) (Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return Archive{}, fmt.Errorf("load: could not open archive: %v",
			err)
	}
	defer file.Close()

	var archive Archive
	dec := gob.NewDecoder(file)
	if err := dec.Decode(&archive); err != nil {
		return Archive{}, fmt.Errorf("load: could not decode curves: %v",
			err)
	}
	return archive, nil
}

// MovingAverage smooths a series with a window-w moving average,
// keeping only fully covered windows. Series shorter than the window
// are returned unsmoothed rather than empty, a deliberate departure
// from a strict valid-window convolution so that short runs still
// produce a TD error curve.
func MovingAverage(x []float64, w int) []float64 {
	if w < 1 {
		panic(fmt.Sprintf("movingAverage: illegal window %d", w))
	}
	if len(x) < w {
		return append([]float64(nil), x...)
	}

	smoothed := make([]float64, len(x)-w+1)
	var sum float64
	for i, value := range x {
		sum += value
		if i >= w {
			sum -= x[i-w]
		}
		if i >= w-1 {
			smoothed[i-w+1] = sum / float64(w)
		}
	}
	return smoothed
}
