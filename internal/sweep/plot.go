package sweep

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var trajectoryColors = []color.RGBA{
	{R: 220, G: 60, B: 60, A: 255},
	{R: 60, G: 140, B: 220, A: 255},
	{R: 60, G: 180, B: 90, A: 255},
}

// WriteTrajectoryPNG plots each group's circumcenter trajectory in the
// XY plane, in millimeters.
func WriteTrajectoryPNG(path string, envelopes []*Envelope) error {
	p := plot.New()
	p.Title.Text = "Group Centre Trajectories"
	p.X.Label.Text = "X (mm)"
	p.Y.Label.Text = "Y (mm)"

	for i, env := range envelopes {
		traj := env.Path()
		if len(traj) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(traj))
		for j, c := range traj {
			pts[j].X = c.X
			pts[j].Y = c.Y
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %s trajectory: %w", env.Group, err)
		}
		line.Color = trajectoryColors[i%len(trajectoryColors)]
		p.Add(line)
		p.Legend.Add(env.Group.String(), line)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save trajectory plot: %w", err)
	}
	return nil
}
