package mountaincar

import (
	"math"

	"github.com/fogleman/gg"
)

const (
	snapshotWidth  = 640
	snapshotHeight = 400
	snapshotMargin = 40.0
)

// Snapshot draws the current environmental state to a PNG file at
// path. The hill is the curve y = sin(3x) over the position bounds,
// with the car drawn at its current position and a flag at the goal.
func (m *base) Snapshot(path string) error {
	dc := gg.NewContext(snapshotWidth, snapshotHeight)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Draw the hill
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(2)
	steps := 200
	for i := 0; i <= steps; i++ {
		position := m.positionBounds.Min + float64(i)/float64(steps)*
			(m.positionBounds.Max-m.positionBounds.Min)
		x, y := m.snapshotPoint(position)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	// Draw the goal flag
	goalX, goalY := m.snapshotPoint(GoalPosition)
	dc.SetRGB(0.1, 0.6, 0.1)
	dc.SetLineWidth(2)
	dc.DrawLine(goalX, goalY, goalX, goalY-30)
	dc.Stroke()
	dc.MoveTo(goalX, goalY-30)
	dc.LineTo(goalX+18, goalY-24)
	dc.LineTo(goalX, goalY-18)
	dc.ClosePath()
	dc.Fill()

	// Draw the car
	carX, carY := m.snapshotPoint(m.lastStep.Observation.AtVec(0))
	dc.SetRGB(0.8, 0.1, 0.1)
	dc.DrawCircle(carX, carY-8, 8)
	dc.Fill()

	return dc.SavePNG(path)
}

// snapshotPoint maps an environmental position to canvas coordinates
// on the hill curve
func (m *base) snapshotPoint(position float64) (float64, float64) {
	height := math.Sin(3 * position)

	x := snapshotMargin + (position-m.positionBounds.Min)/
		(m.positionBounds.Max-m.positionBounds.Min)*
		(snapshotWidth-2*snapshotMargin)

	// Canvas y grows downward; hill heights are in [-1, 1]
	y := snapshotHeight - snapshotMargin -
		(height+1)/2*(snapshotHeight-2*snapshotMargin)

	return x, y
}
