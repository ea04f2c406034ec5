package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/grfm/internal/gait"
	"github.com/san-kum/grfm/internal/grfm"
)

const (
	canvasWidth  = 48
	canvasHeight = 16
	fps          = 30
	trailSeconds = 2.0
	chartSamples = 150
	maxSpeed     = 8.0
	minSpeed     = 0.125
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Replay plays back the outputs of one run.
type Replay struct {
	title    string
	outputs  []grfm.Output
	weight   float64
	rate     float64
	playHead int
	running  bool
	speed    float64
	carry    float64
	theme    Theme
	styles   styles
	canvas   *Canvas
	showHelp bool
}

// NewReplay prepares a paused replay. weight scales the load bars; zero
// hides them.
func NewReplay(title string, outputs []grfm.Output, weight float64) Replay {
	rate := 100.0
	if n := len(outputs); n > 1 {
		if span := outputs[n-1].T - outputs[0].T; span > 0 {
			rate = float64(n-1) / span
		}
	}
	return Replay{
		title:   title,
		outputs: outputs,
		weight:  weight,
		rate:    rate,
		speed:   1,
		theme:   ThemeDefault,
		styles:  newStyles(ThemeDefault),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
	}
}

// WithTheme returns r drawn with the named theme.
func (r Replay) WithTheme(name string) Replay {
	r.theme = GetTheme(name)
	r.styles = newStyles(r.theme)
	return r
}

func (r Replay) PlayHead() int     { return r.playHead }
func (r Replay) Running() bool     { return r.running }
func (r Replay) Speed() float64    { return r.speed }
func (r Replay) ThemeName() string { return r.theme.Name }

func (r Replay) Init() tea.Cmd {
	return tick()
}

func (r Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return r, tea.Quit
		case " ":
			if !r.running && r.atEnd() {
				r.playHead = 0
			}
			r.running = !r.running
		case "r":
			r.playHead, r.carry = 0, 0
		case "[":
			r.running = false
			r.seek(-1)
		case "]":
			r.running = false
			r.seek(1)
		case "{":
			r.seek(-r.second())
		case "}":
			r.seek(r.second())
		case "+", "=":
			r.speed = min(r.speed*2, maxSpeed)
		case "-", "_":
			r.speed = max(r.speed/2, minSpeed)
		case "t":
			r.theme = nextTheme(r.theme.Name)
			r.styles = newStyles(r.theme)
		case "?":
			r.showHelp = !r.showHelp
		}
	case TickMsg:
		if r.running {
			r.advance()
		}
		return r, tick()
	}
	return r, nil
}

func (r Replay) atEnd() bool {
	return r.playHead >= len(r.outputs)-1
}

// second is the number of frames in one second of data.
func (r Replay) second() int {
	return int(math.Round(r.rate))
}

func (r *Replay) seek(n int) {
	r.playHead += n
	if r.playHead >= len(r.outputs) {
		r.playHead = len(r.outputs) - 1
	}
	if r.playHead < 0 {
		r.playHead = 0
	}
}

// advance moves the play head by one tick of wall time at the current speed.
func (r *Replay) advance() {
	frames := r.speed*r.rate/fps + r.carry
	n := int(frames)
	r.carry = frames - float64(n)
	r.seek(n)
	if r.atEnd() {
		r.running = false
		r.carry = 0
	}
}

// window returns the outputs of the trail ending at the play head.
func (r Replay) window(seconds float64) []grfm.Output {
	if len(r.outputs) == 0 {
		return nil
	}
	start := r.playHead - int(seconds*r.rate)
	if start < 0 {
		start = 0
	}
	return r.outputs[start : r.playHead+1]
}

func (r Replay) drawTopView() string {
	trail := r.window(trailSeconds)
	r.canvas.Clear()
	v := FitViewport(trail, 0.1)
	DrawCoPPath(r.canvas, v, trail, gait.Right)
	DrawCoPPath(r.canvas, v, trail, gait.Left)
	if len(trail) > 0 {
		cur := trail[len(trail)-1]
		for _, leg := range []gait.Leg{gait.Right, gait.Left} {
			if rc := reactionOf(cur, leg); !rc.IsZero() {
				x, y := v.Project(r.canvas, rc.Point)
				r.canvas.DrawMarker(x, y, 1)
			}
		}
	}
	return r.canvas.String()
}

func (r Replay) chart() string {
	win := r.window(float64(chartSamples) / r.rate)
	if len(win) < 2 {
		return ""
	}
	right := make([]float64, len(win))
	left := make([]float64, len(win))
	for i, o := range win {
		right[i], left[i] = o.Right.Force.Y, o.Left.Force.Y
	}
	return asciigraph.PlotMany([][]float64{right, left},
		asciigraph.Height(6),
		asciigraph.Width(36),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(r.theme.RightSeries, r.theme.LeftSeries),
		asciigraph.Caption("vertical force [N]"),
	)
}

func (r Replay) footLines(s *strings.Builder, name string, style lipgloss.Style, rc grfm.Reaction) {
	s.WriteString(style.Render(name) + "\n")
	if rc.IsZero() {
		s.WriteString(r.styles.label.Render("  swing") + "\n")
		return
	}
	s.WriteString(r.styles.label.Render("  Fy") + r.styles.value.Render(fmt.Sprintf("%7.1f N ", rc.Force.Y)))
	if r.weight > 0 {
		s.WriteString(style.Render(LoadBar(rc.Force.Y, r.weight, 10)))
	}
	s.WriteString("\n")
	s.WriteString(r.styles.label.Render("  CoP") + r.styles.value.Render(fmt.Sprintf("%.3f, %.3f m", rc.Point.X, rc.Point.Z)) + "\n")
}

func (r Replay) View() string {
	if len(r.outputs) == 0 {
		return r.styles.header.Render(strings.ToUpper(r.title)) + "\nno frames\n"
	}
	cur := r.outputs[r.playHead]

	var s strings.Builder
	s.WriteString(r.styles.header.Render(strings.ToUpper(r.title)) + "\n")
	switch {
	case r.running:
		s.WriteString(r.styles.status.Render(fmt.Sprintf("PLAYING x%g", r.speed)))
	case r.atEnd():
		s.WriteString(r.styles.paused.Render("END"))
	default:
		s.WriteString(r.styles.paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	if chart := r.chart(); chart != "" {
		s.WriteString(r.styles.graph.Render(chart) + "\n")
	}

	s.WriteString(r.styles.label.Render("Time") + r.styles.value.Render(fmt.Sprintf("%.2fs", cur.T)) + "\n")
	s.WriteString(r.styles.label.Render("Frame") + r.styles.value.Render(fmt.Sprintf("%d/%d", r.playHead+1, len(r.outputs))) + "\n")
	progress := float64(r.playHead) / float64(max(len(r.outputs)-1, 1))
	s.WriteString(r.styles.label.Render("") + ProgressBar(progress, 20) + "\n\n")

	r.footLines(&s, "RIGHT", r.styles.right, cur.Right)
	r.footLines(&s, "LEFT", r.styles.left, cur.Left)

	s.WriteString(r.styles.help.Render("─────────────────────\nSP:Play R:Restart Q:Quit\n[ ]:Step { }:Jump +/-:Speed\nT:Theme ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		r.styles.canvas.Render(r.drawTopView()),
		r.styles.stats.Render(s.String()),
	)
	if r.showHelp {
		return helpText + "\n\n" + main
	}
	return main
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Play/Pause               ║
║  R        - Restart                  ║
║  Q        - Quit                     ║
║  [ / ]    - Step one frame           ║
║  { / }    - Jump one second          ║
║  + / -    - Playback speed           ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunReplay opens the replay in the terminal and blocks until it quits.
func RunReplay(title string, outputs []grfm.Output, weight float64, theme string) error {
	p := tea.NewProgram(NewReplay(title, outputs, weight).WithTheme(theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
