package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/interact"
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/render/ascii"
	"github.com/matzehuels/algoflow/pkg/scene"
	"github.com/matzehuels/algoflow/pkg/visual"
)

// Playground layout: one header line above the canvas, three below.
const (
	playHeaderRows = 1
	playFooterRows = 3
	handStep       = 20.0 // px per arrow key press
	handOpen       = 0.12 // thumb-index distance of an open hand
	handPinched    = 0.03 // thumb-index distance of a pinch
)

// Playground styles
var (
	playModeStyle  = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	playErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	playHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// inputMode selects how the playground drives the scene.
type inputMode int

const (
	modePointer inputMode = iota
	modeHand
)

func (m inputMode) String() string {
	if m == modeHand {
		return "hand"
	}
	return "pointer"
}

// frameMsg advances the scene by one frame.
type frameMsg time.Time

// playModel is the bubbletea model for the terminal playground.
type playModel struct {
	sc       *scene.Scene
	interval time.Duration
	cols     int
	rows     int

	mode    inputMode
	hand    geom.Vec // synthetic hand position in viewport space
	pinched bool
	err     string
}

func newPlayModel(sc *scene.Scene, fps int) playModel {
	if fps <= 0 {
		fps = 30
	}
	return playModel{
		sc:       sc,
		interval: time.Second / time.Duration(fps),
		cols:     80,
		rows:     24 - playHeaderRows - playFooterRows,
		hand:     sc.Viewport().Center(),
	}
}

func (m playModel) grid() ascii.Grid {
	return ascii.Grid{Cols: m.cols, Rows: m.rows, Viewport: m.sc.Viewport()}
}

func (m playModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m playModel) Init() tea.Cmd {
	return m.tick()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.mode == modeHand {
			if err := m.sc.SetHand(syntheticHand(m.hand, m.sc.Viewport(), m.pinched)); err != nil {
				m.err = err.Error()
				m.mode = modePointer
			}
		}
		m.sc.Frame(time.Time(msg))
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-playHeaderRows-playFooterRows, 1)

	case tea.MouseMsg:
		if m.mode != modePointer {
			return m, nil
		}
		p := m.grid().Point(msg.X, msg.Y-playHeaderRows)
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button != tea.MouseButtonLeft {
				return m, nil
			}
			if _, err := m.sc.PointerDown(p); err != nil {
				m.err = err.Error()
			}
		case tea.MouseActionMotion:
			m.sc.PointerMove(p)
		case tea.MouseActionRelease:
			m.sc.PointerUp()
		}

	case tea.KeyMsg:
		return m.key(msg.String())
	}
	return m, nil
}

// key handles one key press.
func (m playModel) key(k string) (tea.Model, tea.Cmd) {
	m.err = ""
	tl := m.sc.Timeline()
	switch k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m = m.toggleMode()
	case " ":
		if m.mode == modeHand {
			m.pinched = !m.pinched
		}
	case "up", "k":
		m.hand = m.moveHand(0, -handStep)
	case "down", "j":
		m.hand = m.moveHand(0, handStep)
	case "left", "h":
		m.hand = m.moveHand(-handStep, 0)
	case "right", "l":
		m.hand = m.moveHand(handStep, 0)
	case "n":
		if tl != nil {
			tl.Next()
		}
	case "b":
		if tl != nil {
			tl.Prev()
		}
	case "p":
		if tl != nil {
			if tl.Playing() {
				tl.Pause()
			} else {
				tl.Play()
			}
		}
	}
	return m, nil
}

func (m playModel) toggleMode() playModel {
	if m.mode == modeHand {
		m.mode = modePointer
		m.pinched = false
		if err := m.sc.SetHand(nil); err != nil {
			m.err = err.Error()
		}
		return m
	}
	m.sc.PointerUp()
	if err := m.sc.SetCamera(scene.CameraActive); err != nil {
		m.err = err.Error()
		return m
	}
	m.mode = modeHand
	return m
}

func (m playModel) moveHand(dx, dy float64) geom.Vec {
	if m.mode != modeHand {
		return m.hand
	}
	vp := m.sc.Viewport()
	return geom.V(
		max(0, min(vp.Width, m.hand.X+dx)),
		max(0, min(vp.Height, m.hand.Y+dy)),
	)
}

func (m playModel) View() string {
	f := m.sc.Snapshot()
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName+" play") + "  " +
		StyleHighlight.Render(string(f.Type)) + "  " +
		playModeStyle.Render(m.mode.String()))
	b.WriteString("\n")
	b.WriteString(styledCanvas(ascii.Render(f, m.grid())))
	b.WriteString("\n")
	b.WriteString(statusLine(f))
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(playErrorStyle.Render(m.err))
	} else if f.Explanation != "" {
		b.WriteString(StyleDim.Render(f.Explanation))
	}
	b.WriteString("\n")
	b.WriteString(playHelpStyle.Render("drag to move  tab hand mode  ←↑↓→ move hand  space pinch  n/b/p steps  q quit"))
	return b.String()
}

// statusLine summarizes interaction state and timeline position.
func statusLine(f *scene.Frame) string {
	parts := []string{fmt.Sprintf("energy %.3f", f.Status.Energy)}
	if f.Status.Hovered != "" {
		parts = append(parts, "hover "+f.Status.Hovered)
	}
	if f.Status.Grabbed != "" {
		parts = append(parts, "held "+f.Status.Grabbed)
	}
	if f.Status.Pinching {
		parts = append(parts, StyleWarning.Render("pinch"))
	}
	if s := f.Step; s != nil {
		step := fmt.Sprintf("step %d/%d", s.Index+1, s.Count)
		if s.Playing {
			step += " ▶"
		}
		parts = append(parts, step)
		if s.Message != "" {
			parts = append(parts, s.Message)
		}
	}
	return StyleDim.Render(strings.Join(parts, " · "))
}

// styledCanvas renders canvas lines, styling runs of cells that share
// color and weight.
func styledCanvas(c *ascii.Canvas) string {
	lines := c.Lines()
	out := make([]string, len(lines))
	for row, line := range lines {
		var b strings.Builder
		var run []rune
		var style ascii.Cell
		flush := func() {
			if len(run) == 0 {
				return
			}
			s := lipgloss.NewStyle().Bold(style.Bold)
			if style.Color != "" {
				s = s.Foreground(lipgloss.Color(style.Color))
			}
			b.WriteString(s.Render(string(run)))
			run = run[:0]
		}
		for col := range []rune(line) {
			cell := c.At(col, row)
			if cell.Color != style.Color || cell.Bold != style.Bold {
				flush()
				style = ascii.Cell{Color: cell.Color, Bold: cell.Bold}
			}
			run = append(run, cell.Ch)
		}
		flush()
		out[row] = b.String()
	}
	return strings.Join(out, "\n")
}

// syntheticHand builds landmarks whose pinch midpoint lands on p. The
// camera image is mirrored, so x is flipped.
func syntheticHand(p geom.Vec, vp layout.Viewport, pinched bool) *interact.Hand {
	d := handOpen
	if pinched {
		d = handPinched
	}
	mx := 1 - p.X/vp.Width
	my := p.Y / vp.Height
	lm := make([]interact.Landmark, interact.Landmarks)
	for i := range lm {
		lm[i] = interact.Landmark{X: mx, Y: my}
	}
	lm[interact.ThumbTip] = interact.Landmark{X: mx - d/2, Y: my}
	lm[interact.IndexTip] = interact.Landmark{X: mx + d/2, Y: my}
	return &interact.Hand{Landmarks: lm}
}

// playCommand creates the interactive terminal playground.
func (c *CLI) playCommand() *cobra.Command {
	var (
		steps    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play [state.json|state.yaml]",
		Short: "Drag nodes around in an interactive terminal playground",
		Long: `Open a structure in an interactive terminal playground.

Drag blocks with the mouse. Press tab to switch to a simulated hand: move it
with the arrow keys and press space to pinch and release. With --steps the
input is a timeline; n and b step through it and p plays or pauses.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlay(cmd.Context(), args[0], steps, interval)
		},
	}

	cmd.Flags().BoolVar(&steps, "steps", false, "treat the input as a timeline of steps")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "delay between steps during playback")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, input string, steps bool, interval time.Duration) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	sc := scene.New(ctx, c.sceneOptions(cfg, 0, 0))

	if steps {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open %s: %w", input, err)
		}
		defer f.Close()
		list, err := visual.ReadTimeline(f, visual.FormatFromPath(input))
		if err != nil {
			return err
		}
		if err := sc.LoadTimeline(list, interval); err != nil {
			return err
		}
	} else {
		s, err := visual.ReadFile(input)
		if err != nil {
			return err
		}
		if err := sc.Load(s); err != nil {
			return err
		}
	}

	p := tea.NewProgram(newPlayModel(sc, cfg.Gesture.FPS),
		tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
