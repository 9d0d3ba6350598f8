package tui

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ggreflect"
	"github.com/gogpu/ggreflect/session"
)

type memResolver struct{}

func (memResolver) TemporaryURL(_ context.Context, ref session.ImageRef) (session.TemporaryURL, error) {
	return session.TemporaryURL{URL: "mem://" + string(ref)}, nil
}

type memFetcher struct{ data []byte }

func (f memFetcher) Fetch(context.Context, session.TemporaryURL) ([]byte, error) {
	return f.data, nil
}

type countingInserter struct {
	n   int
	err error
}

func (c *countingInserter) Insert(context.Context, session.Element) error {
	c.n++
	return c.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 30, G: 120, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyPress(k))
	}
	return cmd
}

// editing returns a model whose session has finished loading an 8x4 image.
func editing(t *testing.T, ins *countingInserter) (*Model, *session.Session) {
	t.Helper()
	notes := NewNotifications()
	sess := session.New(memResolver{}, memFetcher{data: pngBytes(t, 8, 4)}, ins,
		session.WithContainer(40, 20), session.WithNotifier(notes.Notify))
	sess.OnSelectionChange(session.SelectionEvent{Elements: []session.ImageRef{"photo.png"}})

	m := New(context.Background(), sess, notes)
	cmd := m.Init()
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Equal(t, session.PhaseEdit, sess.State().Phase)
	require.NotNil(t, sess.Preview())
	return m, sess
}

func TestAdjustControls(t *testing.T) {
	m, sess := editing(t, &countingInserter{})
	pv := sess.Preview()
	assert.Equal(t, ggreflect.DefaultRenderOptions(), pv.Options())

	press(m, "right")
	assert.Equal(t, ggreflect.Above, pv.Options().Orientation)
	press(m, "right")
	assert.Equal(t, ggreflect.Left, pv.Options().Orientation, "position wraps around")
	press(m, "left")
	assert.Equal(t, ggreflect.Above, pv.Options().Orientation)

	press(m, "tab", "right", "right", "-")
	assert.Equal(t, 59, pv.Options().Offset)

	press(m, "tab", "left", "=")
	assert.Equal(t, 46, pv.Options().Opacity)

	press(m, "tab", "right")
	opts := pv.Options()
	assert.Equal(t, ggreflect.Left, opts.Orientation)
	assert.Equal(t, 50, opts.Offset, "position change resets offset")
	assert.Equal(t, 50, opts.Opacity, "position change resets opacity")
}

func TestSlidersClamp(t *testing.T) {
	m, sess := editing(t, &countingInserter{})
	press(m, "tab")
	for range 15 {
		press(m, "right")
	}
	assert.Equal(t, 100, sess.Preview().Options().Offset)
}

func TestAddToDesign(t *testing.T) {
	ins := &countingInserter{}
	m, _ := editing(t, ins)

	cmd := press(m, "a")
	require.NotNil(t, cmd)
	assert.True(t, m.adding)
	press(m, "right")

	m.Update(cmd())
	assert.False(t, m.adding)
	assert.Equal(t, 1, ins.n)
	assert.Equal(t, "Added 8x4 reflection to design.", m.status)
	assert.NoError(t, m.err)
}

func TestAddToDesignFailure(t *testing.T) {
	ins := &countingInserter{err: errors.New("document locked")}
	m, _ := editing(t, ins)

	cmd := press(m, "a")
	m.Update(cmd())
	assert.Empty(t, m.status)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "document locked")
}

func TestGoBack(t *testing.T) {
	m, sess := editing(t, &countingInserter{})
	press(m, "esc")
	assert.Nil(t, sess.Editor())
	assert.Equal(t, session.PhaseSelect, sess.State().Phase)
	assert.Contains(t, m.View(), "Press c to create a reflection of photo.png.")
}

func TestCreateWithoutSelection(t *testing.T) {
	sess := session.New(memResolver{}, memFetcher{}, &countingInserter{})
	m := New(context.Background(), sess, nil)
	assert.Nil(t, m.Init())

	cmd := press(m, "c")
	assert.Nil(t, cmd)
	assert.Equal(t, session.MsgSelectElement, m.status)
	assert.Contains(t, m.View(), session.MsgSelectElement)
}

func TestViewShowsControls(t *testing.T) {
	m, _ := editing(t, &countingInserter{})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})

	view := m.View()
	for _, want := range []string{"Position", "Offset", "Opacity", "[Below]", "Left", "Right", "Above", " 50%"} {
		assert.Contains(t, view, want)
	}
	assert.Contains(t, view, halfBlock)
}

func TestQuit(t *testing.T) {
	sess := session.New(memResolver{}, memFetcher{}, &countingInserter{})
	m := New(context.Background(), sess, nil)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderCells(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	out := renderCells(img, 4, 2, previewBackground)
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Equal(t, 8, strings.Count(out, halfBlock))

	wide := image.NewRGBA(image.Rect(0, 0, 100, 10))
	out = renderCells(wide, 10, 10, previewBackground)
	assert.Equal(t, 1, strings.Count(out, "\n"), "aspect ratio is kept")
	assert.Equal(t, 10, strings.Count(out, halfBlock))

	assert.Empty(t, renderCells(nil, 4, 2, previewBackground))
	assert.Empty(t, renderCells(img, 0, 2, previewBackground))
}

func TestOver(t *testing.T) {
	bg := color.RGBA{R: 32, G: 32, B: 32, A: 255}
	assert.Equal(t, bg, over(color.RGBA{}, bg))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, over(color.RGBA{R: 255, A: 255}, bg))
	assert.Equal(t, color.RGBA{R: 144, G: 16, B: 16, A: 255}, over(color.RGBA{R: 128, A: 128}, bg))
}
