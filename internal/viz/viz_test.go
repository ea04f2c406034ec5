package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.Size(); w != 8 || h != 8 {
		t.Fatalf("expected 8x8 sub-pixels, got %dx%d", w, h)
	}

	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Error("expected pixel to be set")
	}
	if c.Grid[1][1] != brailleBlank|0x10 {
		t.Errorf("expected braille dot 5 in cell (1,1), got %U", c.Grid[1][1])
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	if c.IsSet(-1, 0) || c.IsSet(100, 100) {
		t.Error("off-canvas pixels must be ignored")
	}

	c.Clear()
	if c.IsSet(3, 5) {
		t.Error("expected clear canvas")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 19, 0)
	for x := 0; x < 20; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("expected pixel %d on the line", x)
		}
	}

	c.Clear()
	c.DrawLine(0, 0, 5, 5)
	for i := 0; i <= 5; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("expected diagonal pixel %d", i)
		}
	}
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 rows, got %d", len(lines))
	}
}

func TestCanvasMarker(t *testing.T) {
	c := NewCanvas(5, 3)
	c.DrawMarker(4, 4, 1)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if !c.IsSet(4+dx, 4+dy) {
				t.Errorf("expected marker pixel at %d,%d", 4+dx, 4+dy)
			}
		}
	}
	if c.IsSet(6, 4) {
		t.Error("marker too wide")
	}
}

func walk(n int) []grfm.Output {
	outs := make([]grfm.Output, n)
	for i := range outs {
		tm := float64(i) / 100
		outs[i].T = tm
		if i%100 < 60 {
			outs[i].Right = grfm.Reaction{Force: r3.Vec{Y: 600}, Point: r3.Vec{X: tm, Z: 0.1}}
		}
		if i%100 >= 50 || i%100 < 10 {
			outs[i].Left = grfm.Reaction{Force: r3.Vec{Y: 500}, Point: r3.Vec{X: tm + 0.3, Z: -0.1}}
		}
	}
	return outs
}

func TestFitViewport(t *testing.T) {
	v := FitViewport(walk(200), 0.05)
	if math.Abs(v.MinX+0.05) > 1e-12 || math.Abs(v.MaxZ-0.15) > 1e-12 || math.Abs(v.MinZ+0.15) > 1e-12 {
		t.Errorf("unexpected viewport %+v", v)
	}

	empty := FitViewport([]grfm.Output{{T: 0}}, 0.05)
	if empty != (Viewport{-0.5, 0.5, -0.5, 0.5}) {
		t.Errorf("expected default viewport, got %+v", empty)
	}
}

func TestProjectCorners(t *testing.T) {
	c := NewCanvas(10, 5)
	v := Viewport{MinX: 0, MaxX: 1, MinZ: -1, MaxZ: 1}
	if x, y := v.Project(c, r3.Vec{X: 0, Z: -1}); x != 0 || y != 0 {
		t.Errorf("expected origin corner, got %d,%d", x, y)
	}
	if x, y := v.Project(c, r3.Vec{X: 1, Z: 1}); x != 19 || y != 19 {
		t.Errorf("expected far corner 19,19, got %d,%d", x, y)
	}
}

func TestTopViewDrawsBothFeet(t *testing.T) {
	outs := walk(100)
	c := TopView(outs, 40, 10)
	v := FitViewport(outs, 0.05)

	for _, leg := range []gait.Leg{gait.Right, gait.Left} {
		for _, o := range outs {
			r := reactionOf(o, leg)
			if r.IsZero() {
				continue
			}
			if x, y := v.Project(c, r.Point); !c.IsSet(x, y) {
				t.Fatalf("%v CoP at t=%f not drawn", leg, o.T)
			}
		}
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(r Replay, msg tea.Msg) Replay {
	next, _ := r.Update(msg)
	return next.(Replay)
}

func TestReplayKeys(t *testing.T) {
	r := NewReplay("walk", walk(300), 700)
	if r.Running() || r.PlayHead() != 0 {
		t.Fatal("expected a paused replay at the first frame")
	}

	r = update(r, key("]"))
	r = update(r, key("]"))
	if r.PlayHead() != 2 {
		t.Errorf("expected frame 2, got %d", r.PlayHead())
	}
	r = update(r, key("["))
	if r.PlayHead() != 1 {
		t.Errorf("expected frame 1, got %d", r.PlayHead())
	}
	r = update(r, key("}"))
	if r.PlayHead() != 101 {
		t.Errorf("expected one second later at frame 101, got %d", r.PlayHead())
	}
	r = update(r, key("{"))
	r = update(r, key("{"))
	if r.PlayHead() != 0 {
		t.Errorf("expected clamp at frame 0, got %d", r.PlayHead())
	}

	r = update(r, key("+"))
	r = update(r, key("+"))
	if r.Speed() != 4 {
		t.Errorf("expected speed 4, got %g", r.Speed())
	}
	for i := 0; i < 10; i++ {
		r = update(r, key("-"))
	}
	if r.Speed() != minSpeed {
		t.Errorf("expected speed floor %g, got %g", minSpeed, r.Speed())
	}

	r = update(r, key("t"))
	if r.ThemeName() != "retro" {
		t.Errorf("expected retro theme, got %s", r.ThemeName())
	}

	if _, cmd := r.Update(key("q")); cmd == nil {
		t.Error("expected quit command")
	}
}

func TestReplayPlayback(t *testing.T) {
	r := NewReplay("walk", walk(300), 700)
	r = update(r, tea.KeyMsg{Type: tea.KeySpace})
	if !r.Running() {
		t.Fatal("expected space to start playback")
	}

	// 100 Hz data at 30 ticks/s
	for i := 0; i < 3; i++ {
		r = update(r, TickMsg(time.Now()))
	}
	if h := r.PlayHead(); h < 9 || h > 10 {
		t.Errorf("expected frame 10 after three ticks, got %d", h)
	}

	for i := 0; i < 200; i++ {
		r = update(r, TickMsg(time.Now()))
	}
	if r.Running() || r.PlayHead() != 299 {
		t.Errorf("expected playback to stop at the last frame, got %d running=%v", r.PlayHead(), r.Running())
	}

	r = update(r, tea.KeyMsg{Type: tea.KeySpace})
	if !r.Running() || r.PlayHead() != 0 {
		t.Error("expected play at the end to restart")
	}
}

func TestReplayView(t *testing.T) {
	r := NewReplay("walk", walk(300), 700)
	r = update(r, key("}"))
	view := r.View()
	for _, want := range []string{"WALK", "RIGHT", "LEFT", "101/300"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := NewReplay("none", nil, 0)
	if !strings.Contains(empty.View(), "no frames") {
		t.Error("expected placeholder for an empty run")
	}
}
