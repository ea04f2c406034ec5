package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
	"github.com/san-kum/grfm/internal/viz"
	"gonum.org/v1/gonum/spatial/r3"
)

func gaitOutputs() []grfm.Output {
	outs := make([]grfm.Output, 200)
	for i := range outs {
		tm := float64(i) / 100
		outs[i].T = tm
		if i%100 < 60 {
			outs[i].Right = grfm.Reaction{Force: r3.Vec{X: 20, Y: 650}, Point: r3.Vec{X: tm, Z: 0.1}}
		}
		if i%100 >= 50 || i%100 < 10 {
			outs[i].Left = grfm.Reaction{Force: r3.Vec{X: -20, Y: 550}, Point: r3.Vec{X: tm + 0.3, Z: -0.1}}
		}
	}
	return outs
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(3, 5)
	c.Set(7, 7)

	svg := CanvasToSVG(c, 3)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete SVG document")
	}
	if n := strings.Count(svg, "<circle"); n != 3 {
		t.Errorf("expected 3 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="24" height="24"`) {
		t.Error("expected 24x24 document for an 8x8 sub-pixel canvas at scale 3")
	}

	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestCoPPathSVG(t *testing.T) {
	svg := CoPPathSVG(gaitOutputs(), 400, 200)
	// right: two stances; left: [0,10), [50,110), [150,200)
	if n := strings.Count(svg, "<polyline"); n != 5 {
		t.Errorf("expected 5 stance polylines, got %d", n)
	}
	for _, leg := range []gait.Leg{gait.Right, gait.Left} {
		if !strings.Contains(svg, legColors[leg]) {
			t.Errorf("expected %v foot colour", leg)
		}
	}
}

func TestFigureSave(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"force.png", "force.svg"} {
		path := filepath.Join(dir, name)
		if err := VerticalForce.Save(path, "walk", gaitOutputs()); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestFigureSaveErrors(t *testing.T) {
	dir := t.TempDir()
	if err := CoPAnterior.Save(filepath.Join(dir, "cop.bmp"), "", gaitOutputs()); err == nil {
		t.Error("expected unsupported format error")
	}
	if err := CoPAnterior.Save(filepath.Join(dir, "cop.png"), "", nil); err == nil {
		t.Error("expected error for no outputs")
	}
}

func TestFigurePlot(t *testing.T) {
	for name, fig := range Figures {
		p, err := fig.Plot("walk", gaitOutputs())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.HasSuffix(p.Title.Text, " - walk") {
			t.Errorf("%s: unexpected title %q", name, p.Title.Text)
		}
	}
}
