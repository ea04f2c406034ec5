package export

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/san-kum/grfm/internal/grfm"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	rightColor = color.RGBA{R: 0, G: 140, B: 220, A: 255}
	leftColor  = color.RGBA{R: 220, G: 60, B: 140, A: 255}
	totalColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

// Figure describes one time-series panel.
type Figure struct {
	Title  string
	YLabel string
	Value  func(r grfm.Reaction) float64
	Total  bool
}

var (
	VerticalForce = Figure{
		Title:  "Vertical ground reaction force",
		YLabel: "force [N]",
		Value:  func(r grfm.Reaction) float64 { return r.Force.Y },
		Total:  true,
	}
	AnteriorForce = Figure{
		Title:  "Anterior-posterior ground reaction force",
		YLabel: "force [N]",
		Value:  func(r grfm.Reaction) float64 { return r.Force.X },
	}
	CoPAnterior = Figure{
		Title:  "Centre of pressure, anterior position",
		YLabel: "x [m]",
		Value:  func(r grfm.Reaction) float64 { return r.Point.X },
	}
)

// Figures maps the names accepted on the command line.
var Figures = map[string]Figure{
	"vertical": VerticalForce,
	"anterior": AnteriorForce,
	"cop":      CoPAnterior,
}

// series samples value at every frame where the picked foot is loaded.
func series(outputs []grfm.Output, pick func(grfm.Output) grfm.Reaction, value func(grfm.Reaction) float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(outputs))
	for _, o := range outputs {
		r := pick(o)
		if r.IsZero() {
			continue
		}
		pts = append(pts, plotter.XY{X: o.T, Y: value(r)})
	}
	return pts
}

// Plot builds the figure for outputs.
func (f Figure) Plot(title string, outputs []grfm.Output) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	if title != "" {
		p.Title.Text += " - " + title
	}
	p.X.Label.Text = "time [s]"
	p.Y.Label.Text = f.YLabel
	p.Add(plotter.NewGrid())

	add := func(name string, pts plotter.XYs, c color.Color, dashed bool) error {
		if len(pts) == 0 {
			return nil
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s series: %w", name, err)
		}
		line.Color = c
		line.Width = vg.Points(1)
		if dashed {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)
		p.Legend.Add(name, line)
		return nil
	}

	right := series(outputs, func(o grfm.Output) grfm.Reaction { return o.Right }, f.Value)
	left := series(outputs, func(o grfm.Output) grfm.Reaction { return o.Left }, f.Value)
	if err := add("right", right, rightColor, false); err != nil {
		return nil, err
	}
	if err := add("left", left, leftColor, false); err != nil {
		return nil, err
	}
	if f.Total {
		total := make(plotter.XYs, len(outputs))
		for i, o := range outputs {
			total[i] = plotter.XY{X: o.T, Y: f.Value(o.Right) + f.Value(o.Left)}
		}
		if err := add("total", total, totalColor, true); err != nil {
			return nil, err
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// Formats lists the file extensions Save understands.
var Formats = []string{".png", ".svg", ".pdf"}

// Save writes the figure to path; the format follows the extension.
func (f Figure) Save(path, title string, outputs []grfm.Output) error {
	ext := strings.ToLower(filepath.Ext(path))
	supported := false
	for _, e := range Formats {
		supported = supported || e == ext
	}
	if !supported {
		return fmt.Errorf("unsupported figure format %q", ext)
	}
	if len(outputs) == 0 {
		return fmt.Errorf("no outputs to plot")
	}

	p, err := f.Plot(title, outputs)
	if err != nil {
		return err
	}
	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save figure: %w", err)
	}
	return nil
}
