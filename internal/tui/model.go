// Package tui is a terminal editor for reflections. It drives a
// session: one orientation control, offset and opacity sliders, and a
// half-block preview of the rendered surface.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gogpu/ggreflect"
	"github.com/gogpu/ggreflect/session"
)

const (
	stepCoarse = 5
	stepFine   = 1

	defaultCols = 60
	defaultRows = 15
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	previewBackground = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

type control int

const (
	controlPosition control = iota
	controlOffset
	controlOpacity
	controlCount
)

func (c control) label() string {
	switch c {
	case controlPosition:
		return "Position"
	case controlOffset:
		return "Offset"
	case controlOpacity:
		return "Opacity"
	default:
		return ""
	}
}

type loadedMsg struct{ err error }

type addedMsg struct {
	err  error
	note *session.Notification
}

// Notifications collects insertion outcomes for the editor. Pass
// Notify to session.WithNotifier.
type Notifications struct {
	ch chan session.Notification
}

// NewNotifications returns an empty notification buffer.
func NewNotifications() *Notifications {
	return &Notifications{ch: make(chan session.Notification, 8)}
}

// Notify records n, dropping it when the buffer is full.
func (n *Notifications) Notify(note session.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

func (n *Notifications) poll() *session.Notification {
	if n == nil {
		return nil
	}
	select {
	case note := <-n.ch:
		return &note
	default:
		return nil
	}
}

// Model is the bubbletea model of the editor.
type Model struct {
	ctx   context.Context
	sess  *session.Session
	notes *Notifications

	keys   keyMap
	help   help.Model
	bar    progress.Model
	caser  cases.Caser
	focus  control
	cols   int
	rows   int
	status string
	err    error
	adding bool
}

// New returns an editor model for sess. notes may be nil.
func New(ctx context.Context, sess *session.Session, notes *Notifications) *Model {
	return &Model{
		ctx:   ctx,
		sess:  sess,
		notes: notes,
		keys:  defaultKeys(),
		help:  help.New(),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		caser: cases.Title(language.English),
		cols:  defaultCols,
		rows:  defaultRows,
	}
}

// Run starts the editor and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session, notes *Notifications) error {
	p := tea.NewProgram(New(ctx, sess, notes), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts loading the selection when one is ready.
func (m *Model) Init() tea.Cmd {
	if m.sess.State().CanCreate {
		return m.create()
	}
	return nil
}

func (m *Model) create() tea.Cmd {
	m.err = nil
	m.status = ""
	done := m.sess.Create(m.ctx)
	return func() tea.Msg {
		return loadedMsg{err: <-done}
	}
}

func (m *Model) add() tea.Cmd {
	m.adding = true
	m.status = "Adding to design..."
	ctx, sess, notes := m.ctx, m.sess, m.notes
	return func() tea.Msg {
		err := sess.AddToDesign(ctx)
		return addedMsg{err: err, note: notes.poll()}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = clamp(msg.Width-4, 8, 120)
		m.rows = clamp(msg.Height-14, 4, 40)
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case addedMsg:
		m.adding = false
		switch {
		case msg.err != nil:
			m.err = msg.err
			m.status = ""
		case msg.note != nil && msg.note.Err != nil:
			m.err = msg.note.Err
			m.status = ""
		case msg.note != nil:
			m.status = fmt.Sprintf("Added %dx%d reflection to design.", msg.note.Width, msg.note.Height)
		default:
			m.status = "Added reflection to design."
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	editor := m.sess.Editor()
	if editor == nil {
		if key.Matches(msg, m.keys.Create) {
			st := m.sess.State()
			if st.Loading {
				return m, nil
			}
			if !st.CanCreate {
				m.status = st.Guidance
				return m, nil
			}
			return m, m.create()
		}
		return m, nil
	}
	if m.adding {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % controlCount
	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus + controlCount - 1) % controlCount
	case key.Matches(msg, m.keys.Dec):
		m.adjust(editor, -stepCoarse)
	case key.Matches(msg, m.keys.Inc):
		m.adjust(editor, stepCoarse)
	case key.Matches(msg, m.keys.FineDec):
		m.adjust(editor, -stepFine)
	case key.Matches(msg, m.keys.FineInc):
		m.adjust(editor, stepFine)
	case key.Matches(msg, m.keys.Add):
		return m, m.add()
	case key.Matches(msg, m.keys.Back):
		m.sess.Exit()
		m.status = ""
		m.err = nil
	}
	return m, nil
}

// adjust moves the focused control by delta. The position control steps
// through the orientations in display order.
func (m *Model) adjust(editor ggreflect.Commands, delta int) {
	pv := m.sess.Preview()
	if pv == nil {
		return
	}
	opts := pv.Options()

	var err error
	switch m.focus {
	case controlPosition:
		all := ggreflect.Orientations()
		i := indexOf(all, opts.Orientation)
		step := 1
		if delta < 0 {
			step = -1
		}
		err = editor.SetPosition(all[(i+step+len(all))%len(all)])
	case controlOffset:
		err = editor.SetOffset(opts.Offset + delta)
	case controlOpacity:
		err = editor.SetOpacity(opts.Opacity + delta)
	}
	m.err = err
}

// View renders the editor.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Reflection"))
	b.WriteString("\n\n")

	st := m.sess.State()
	pv := m.sess.Preview()
	switch {
	case st.Loading:
		b.WriteString("Loading image...\n")
	case st.Phase != session.PhaseEdit || pv == nil:
		guidance := st.Guidance
		if st.CanCreate {
			guidance = "Press c to create a reflection of " + string(st.Ref) + "."
		}
		b.WriteString(guidance)
		b.WriteString("\n")
	default:
		b.WriteString(renderCells(pv.Surface().RGBA(), m.cols, m.rows, previewBackground))
		b.WriteString("\n")
		m.writeControls(&b, pv.Options())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(faintStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) writeControls(b *strings.Builder, opts ggreflect.RenderOptions) {
	for c := control(0); c < controlCount; c++ {
		marker := "  "
		name := fmt.Sprintf("%-9s", c.label())
		if c == m.focus {
			marker = selStyle.Render("> ")
			name = selStyle.Render(name)
		}
		b.WriteString(marker)
		b.WriteString(name)

		switch c {
		case controlPosition:
			for _, o := range ggreflect.Orientations() {
				label := m.caser.String(o.String())
				if o == opts.Orientation {
					b.WriteString(selStyle.Render("[" + label + "]"))
				} else {
					b.WriteString(faintStyle.Render(" " + label + " "))
				}
			}
		case controlOffset:
			fmt.Fprintf(b, "%s %3d%%", m.bar.ViewAs(float64(opts.Offset)/100), opts.Offset)
		case controlOpacity:
			fmt.Fprintf(b, "%s %3d%%", m.bar.ViewAs(float64(opts.Opacity)/100), opts.Opacity)
		}
		b.WriteString("\n")
	}
}

func indexOf(all []ggreflect.Orientation, o ggreflect.Orientation) int {
	for i, v := range all {
		if v == o {
			return i
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
