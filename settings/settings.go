package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/Simon-He95/stream-monaco/reveal"
	"github.com/Simon-He95/stream-monaco/streamsync"
)

// Errors returned while parsing a settings document.
var (
	// ErrInvalidDocument indicates the document is not valid JSON.
	ErrInvalidDocument = errors.New("settings document is not valid JSON")

	// ErrInvalidField indicates a field has the wrong type or an
	// out-of-range value.
	ErrInvalidField = errors.New("invalid settings field")
)

// Settings is the parsed configuration surface.
type Settings struct {
	Throttle                  time.Duration
	MinimalEditMaxChars       int
	MinimalEditMaxChangeRatio float64
	RevealDebounce            time.Duration
	RevealIdleBatch           time.Duration
	RevealStrategy            reveal.Strategy
	AutoScrollThresholdPx     int
	AutoScrollThresholdLines  int
}

// Default returns the library defaults.
func Default() Settings {
	return Settings{
		Throttle:                  streamsync.DefaultThrottle,
		MinimalEditMaxChars:       streamsync.DefaultMinimalEditMaxChars,
		MinimalEditMaxChangeRatio: streamsync.DefaultMinimalEditMaxChangeRatio,
		RevealDebounce:            reveal.DefaultDebounce,
		RevealIdleBatch:           reveal.DefaultIdleBatch,
		RevealStrategy:            reveal.StrategyCenterIfOutside,
		AutoScrollThresholdPx:     reveal.DefaultThresholdPx,
		AutoScrollThresholdLines:  reveal.DefaultThresholdLines,
	}
}

// Parse reads a JSON settings document, overlaying present fields on the
// defaults. Recognized paths:
//
//	throttleMs                  number (ms, >= 0)
//	minimalEdit.maxChars        number (> 0)
//	minimalEdit.maxChangeRatio  number in (0, 1]
//	reveal.debounceMs           number (ms, >= 0)
//	reveal.batchOnIdleMs        number (ms, >= 0; 0 disables idle batching)
//	reveal.strategy             "bottom" | "centerIfOutside" | "center"
//	autoScroll.thresholdPx      number (>= 0)
//	autoScroll.thresholdLines   number (>= 0)
func Parse(doc string) (Settings, error) {
	if !gjson.Valid(doc) {
		return Settings{}, ErrInvalidDocument
	}

	s := Default()

	if err := getMillis(doc, "throttleMs", &s.Throttle); err != nil {
		return Settings{}, err
	}
	if err := getInt(doc, "minimalEdit.maxChars", 1, &s.MinimalEditMaxChars); err != nil {
		return Settings{}, err
	}
	if v := gjson.Get(doc, "minimalEdit.maxChangeRatio"); v.Exists() {
		if v.Type != gjson.Number || v.Float() <= 0 || v.Float() > 1 {
			return Settings{}, fieldError("minimalEdit.maxChangeRatio", v)
		}
		s.MinimalEditMaxChangeRatio = v.Float()
	}
	if err := getMillis(doc, "reveal.debounceMs", &s.RevealDebounce); err != nil {
		return Settings{}, err
	}
	if err := getMillis(doc, "reveal.batchOnIdleMs", &s.RevealIdleBatch); err != nil {
		return Settings{}, err
	}
	if v := gjson.Get(doc, "reveal.strategy"); v.Exists() {
		strategy, ok := parseStrategy(v.String())
		if v.Type != gjson.String || !ok {
			return Settings{}, fieldError("reveal.strategy", v)
		}
		s.RevealStrategy = strategy
	}
	if err := getInt(doc, "autoScroll.thresholdPx", 0, &s.AutoScrollThresholdPx); err != nil {
		return Settings{}, err
	}
	if err := getInt(doc, "autoScroll.thresholdLines", 0, &s.AutoScrollThresholdLines); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// EngineOptions converts the settings into streamsync options.
func (s Settings) EngineOptions() []streamsync.Option {
	return []streamsync.Option{
		streamsync.WithThrottle(s.Throttle),
		streamsync.WithMinimalEditMaxChars(s.MinimalEditMaxChars),
		streamsync.WithMinimalEditMaxChangeRatio(s.MinimalEditMaxChangeRatio),
	}
}

// RevealOptions converts the settings into reveal options.
func (s Settings) RevealOptions() []reveal.Option {
	return []reveal.Option{
		reveal.WithStrategy(s.RevealStrategy),
		reveal.WithDebounce(s.RevealDebounce),
		reveal.WithIdleBatch(s.RevealIdleBatch),
		reveal.WithThresholdPx(s.AutoScrollThresholdPx),
		reveal.WithThresholdLines(s.AutoScrollThresholdLines),
	}
}

// SetThrottle returns a copy of doc with throttleMs set, persisting the
// engine's runtime throttle mutator back into a settings document.
func SetThrottle(doc string, ms uint) (string, error) {
	if doc != "" && !gjson.Valid(doc) {
		return "", ErrInvalidDocument
	}
	if doc == "" {
		doc = "{}"
	}

	out, err := sjson.Set(doc, "throttleMs", ms)
	if err != nil {
		return "", fmt.Errorf("set throttleMs: %w", err)
	}
	return out, nil
}

func parseStrategy(s string) (reveal.Strategy, bool) {
	switch s {
	case "bottom":
		return reveal.StrategyBottom, true
	case "centerIfOutside":
		return reveal.StrategyCenterIfOutside, true
	case "center":
		return reveal.StrategyCenter, true
	default:
		return 0, false
	}
}

func getMillis(doc, path string, out *time.Duration) error {
	v := gjson.Get(doc, path)
	if !v.Exists() {
		return nil
	}
	if v.Type != gjson.Number || v.Float() < 0 {
		return fieldError(path, v)
	}
	*out = time.Duration(v.Float() * float64(time.Millisecond))
	return nil
}

func getInt(doc, path string, minValue int, out *int) error {
	v := gjson.Get(doc, path)
	if !v.Exists() {
		return nil
	}
	if v.Type != gjson.Number || v.Int() < int64(minValue) {
		return fieldError(path, v)
	}
	*out = int(v.Int())
	return nil
}

func fieldError(path string, v gjson.Result) error {
	return fmt.Errorf("%w: %s = %s", ErrInvalidField, path, v.Raw)
}
