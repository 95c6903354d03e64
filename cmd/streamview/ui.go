package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/Simon-He95/stream-monaco/buffer"
	"github.com/Simon-He95/stream-monaco/reveal"
	"github.com/Simon-He95/stream-monaco/streamsync"
)

// fadeDuration is how long freshly streamed lines keep their highlight.
const fadeDuration = 800 * time.Millisecond

// view renders the buffer and implements reveal.ScrollPort over terminal
// rows (one row per "pixel", line height 1).
type view struct {
	mu     sync.Mutex
	screen tcell.Screen
	buf    *buffer.TextBuffer
	engine *streamsync.Engine
	ctrl   *reveal.Controller

	top        int
	freshStart uint32
	freshAt    time.Time

	removeListener func()
}

func newView(screen tcell.Screen, buf *buffer.TextBuffer, engine *streamsync.Engine) *view {
	v := &view{
		screen: screen,
		buf:    buf,
		engine: engine,
	}

	prevLines := buf.LineCount()
	v.removeListener = buf.OnContentChanged(func() {
		cur := buf.LineCount()
		v.mu.Lock()
		start := prevLines
		if cur < start {
			start = cur
		}
		v.freshStart = start
		v.freshAt = time.Now()
		prevLines = cur
		v.mu.Unlock()
	})

	return v
}

func (v *view) setController(ctrl *reveal.Controller) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ctrl = ctrl
}

// ScrollPort implementation.

func (v *view) ScrollTop() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.top
}

func (v *view) SetScrollTop(top int) {
	v.mu.Lock()
	v.setTopLocked(top)
	v.mu.Unlock()
}

func (v *view) ViewportHeight() int {
	_, h := v.screen.Size()
	if h > 1 {
		h-- // status line
	}
	return h
}

func (v *view) ContentHeight() int {
	return int(v.buf.LineCount())
}

func (v *view) LineHeight() int {
	return 1
}

func (v *view) ScrollbarVisible() bool {
	return v.ContentHeight() > v.ViewportHeight()
}

func (v *view) RevealLine(line uint32, s reveal.Strategy) {
	height := v.ViewportHeight()
	target := int(line) - 1

	v.mu.Lock()
	defer v.mu.Unlock()

	switch s {
	case reveal.StrategyBottom:
		v.setTopLocked(target - height + 1)
	case reveal.StrategyCenter:
		v.setTopLocked(target - height/2)
	case reveal.StrategyCenterIfOutside:
		if target < v.top || target >= v.top+height {
			v.setTopLocked(target - height/2)
		}
	}
}

// setTopLocked clamps and applies a scroll offset (must hold lock).
func (v *view) setTopLocked(top int) {
	maxTop := v.ContentHeight() - v.ViewportHeight()
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	v.top = top
}

// scrollBy applies a user scroll and reports it to the controller.
func (v *view) scrollBy(delta int) {
	v.mu.Lock()
	v.setTopLocked(v.top + delta)
	top := v.top
	ctrl := v.ctrl
	v.mu.Unlock()

	if ctrl != nil {
		ctrl.ObserveScroll(top)
	}
}

// loop runs the tcell event loop until quit.
func (v *view) loop(cancel func()) {
	defer func() {
		if v.removeListener != nil {
			v.removeListener()
		}
	}()

	for {
		v.draw()

		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventInterrupt:
			// Frame repaint tick.
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
				cancel()
				return
			case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
				v.scrollBy(-1)
			case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
				v.scrollBy(1)
			case ev.Key() == tcell.KeyPgUp:
				v.scrollBy(-v.ViewportHeight())
			case ev.Key() == tcell.KeyPgDn:
				v.scrollBy(v.ViewportHeight())
			case ev.Key() == tcell.KeyHome || ev.Rune() == 'g':
				v.scrollBy(-v.ContentHeight())
			case ev.Key() == tcell.KeyEnd || ev.Rune() == 'G':
				v.scrollBy(v.ContentHeight())
			}
		case nil:
			return
		}
	}
}

// draw paints the visible lines and the status row.
func (v *view) draw() {
	width, height := v.screen.Size()
	if height < 1 {
		return
	}

	v.mu.Lock()
	top := v.top
	freshStart := v.freshStart
	age := time.Since(v.freshAt)
	ctrl := v.ctrl
	v.mu.Unlock()

	v.screen.Clear()

	rows := height - 1
	for row := 0; row < rows; row++ {
		line := uint32(top + row + 1)
		if line > v.buf.LineCount() {
			break
		}
		v.drawLine(row, width, line, lineStyle(line, freshStart, age))
	}

	following := ctrl != nil && ctrl.Following()
	v.drawStatus(height-1, width, following)
	v.screen.Show()
}

// drawLine lays out one line by grapheme cluster so wide runes occupy
// their full cell width.
func (v *view) drawLine(row, width int, line uint32, style tcell.Style) {
	g := uniseg.NewGraphemes(v.buf.LineText(line))
	x := 0
	for g.Next() && x < width {
		runes := g.Runes()
		if len(runes) == 0 {
			continue
		}
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		v.screen.SetContent(x, row, runes[0], comb, style)
		x += g.Width()
	}
}

func (v *view) drawStatus(row, width int, following bool) {
	mode := "paused"
	if following {
		mode = "following"
	}
	status := fmt.Sprintf(" %s | %s | %d lines | throttle %s | q quit ",
		v.buf.Tag(), mode, v.buf.LineCount(), v.engine.Throttle())

	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		v.screen.SetContent(x, row, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, row, ' ', nil, style)
	}
}

// lineStyle fades freshly streamed lines from an accent color back to the
// default foreground as they age.
func lineStyle(line, freshStart uint32, age time.Duration) tcell.Style {
	if line < freshStart || age >= fadeDuration {
		return tcell.StyleDefault
	}

	accent := colorful.Color{R: 0.35, G: 0.85, B: 0.45}
	rest := colorful.Color{R: 0.85, G: 0.85, B: 0.85}
	t := float64(age) / float64(fadeDuration)
	c := accent.BlendLuv(rest, t).Clamped()

	r, g, b := c.RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}
