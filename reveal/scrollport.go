package reveal

// Strategy selects where a revealed line lands in the viewport.
type Strategy uint8

const (
	// StrategyBottom scrolls the revealed line to the bottom edge.
	StrategyBottom Strategy = iota

	// StrategyCenterIfOutside centers the revealed line only when it is
	// outside the viewport, leaving the scroll position alone otherwise.
	StrategyCenterIfOutside

	// StrategyCenter always centers the revealed line.
	StrategyCenter
)

// String returns a human-readable representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyBottom:
		return "bottom"
	case StrategyCenterIfOutside:
		return "center-if-outside"
	case StrategyCenter:
		return "center"
	default:
		return "unknown"
	}
}

// ScrollPort is the viewport surface the controller drives. Pixel units
// are whatever the host widget uses; a terminal host can treat one cell
// row as one pixel with LineHeight 1.
type ScrollPort interface {
	// ScrollTop returns the current scroll offset in pixels.
	ScrollTop() int

	// SetScrollTop sets the scroll offset in pixels.
	SetScrollTop(top int)

	// ViewportHeight returns the visible height in pixels.
	ViewportHeight() int

	// ContentHeight returns the full content height in pixels.
	ContentHeight() int

	// LineHeight returns the height of one line in pixels.
	LineHeight() int

	// RevealLine scrolls so the 1-based line is visible per the strategy.
	RevealLine(line uint32, s Strategy)

	// ScrollbarVisible reports whether the content overflows the viewport.
	ScrollbarVisible() bool
}
