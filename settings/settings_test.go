package settings

import (
	"errors"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Simon-He95/stream-monaco/reveal"
)

func TestParseFullDocument(t *testing.T) {
	doc := `{
		"throttleMs": 80,
		"minimalEdit": {"maxChars": 5000, "maxChangeRatio": 0.25},
		"reveal": {"debounceMs": 100, "batchOnIdleMs": 0, "strategy": "center"},
		"autoScroll": {"thresholdPx": 48, "thresholdLines": 3}
	}`

	s, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.Throttle != 80*time.Millisecond {
		t.Errorf("Throttle = %v, want 80ms", s.Throttle)
	}
	if s.MinimalEditMaxChars != 5000 {
		t.Errorf("MinimalEditMaxChars = %d, want 5000", s.MinimalEditMaxChars)
	}
	if s.MinimalEditMaxChangeRatio != 0.25 {
		t.Errorf("MinimalEditMaxChangeRatio = %g, want 0.25", s.MinimalEditMaxChangeRatio)
	}
	if s.RevealDebounce != 100*time.Millisecond {
		t.Errorf("RevealDebounce = %v, want 100ms", s.RevealDebounce)
	}
	if s.RevealIdleBatch != 0 {
		t.Errorf("RevealIdleBatch = %v, want 0", s.RevealIdleBatch)
	}
	if s.RevealStrategy != reveal.StrategyCenter {
		t.Errorf("RevealStrategy = %v, want center", s.RevealStrategy)
	}
	if s.AutoScrollThresholdPx != 48 {
		t.Errorf("AutoScrollThresholdPx = %d, want 48", s.AutoScrollThresholdPx)
	}
	if s.AutoScrollThresholdLines != 3 {
		t.Errorf("AutoScrollThresholdLines = %d, want 3", s.AutoScrollThresholdLines)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	s, err := Parse(`{"throttleMs": 10}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := Default()
	want.Throttle = 10 * time.Millisecond
	if s != want {
		t.Errorf("Parse() = %+v, want defaults with throttle overridden %+v", s, want)
	}
}

func TestParseEmptyObjectIsDefaults(t *testing.T) {
	s, err := Parse(`{}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s != Default() {
		t.Errorf("Parse({}) = %+v, want %+v", s, Default())
	}
}

func TestParseInvalidDocument(t *testing.T) {
	if _, err := Parse(`{not json`); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("Parse() error = %v, want %v", err, ErrInvalidDocument)
	}
}

func TestParseInvalidFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"negative throttle", `{"throttleMs": -5}`},
		{"throttle wrong type", `{"throttleMs": "fast"}`},
		{"zero max chars", `{"minimalEdit": {"maxChars": 0}}`},
		{"ratio zero", `{"minimalEdit": {"maxChangeRatio": 0}}`},
		{"ratio above one", `{"minimalEdit": {"maxChangeRatio": 1.5}}`},
		{"unknown strategy", `{"reveal": {"strategy": "sideways"}}`},
		{"strategy wrong type", `{"reveal": {"strategy": 2}}`},
		{"negative debounce", `{"reveal": {"debounceMs": -1}}`},
		{"negative threshold", `{"autoScroll": {"thresholdPx": -4}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.doc); !errors.Is(err, ErrInvalidField) {
				t.Errorf("Parse(%s) error = %v, want %v", tt.doc, err, ErrInvalidField)
			}
		})
	}
}

func TestParseStrategies(t *testing.T) {
	tests := []struct {
		in   string
		want reveal.Strategy
	}{
		{"bottom", reveal.StrategyBottom},
		{"centerIfOutside", reveal.StrategyCenterIfOutside},
		{"center", reveal.StrategyCenter},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := Parse(`{"reveal": {"strategy": "` + tt.in + `"}}`)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if s.RevealStrategy != tt.want {
				t.Errorf("RevealStrategy = %v, want %v", s.RevealStrategy, tt.want)
			}
		})
	}
}

func TestEngineOptionsApply(t *testing.T) {
	s := Default()
	s.Throttle = 5 * time.Millisecond

	if got := len(s.EngineOptions()); got != 3 {
		t.Errorf("len(EngineOptions()) = %d, want 3", got)
	}
	if got := len(s.RevealOptions()); got != 5 {
		t.Errorf("len(RevealOptions()) = %d, want 5", got)
	}
}

func TestSetThrottle(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		ms   uint
	}{
		{"empty document", "", 120},
		{"existing value", `{"throttleMs": 50}`, 0},
		{"other fields preserved", `{"reveal": {"strategy": "center"}}`, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := SetThrottle(tt.doc, tt.ms)
			if err != nil {
				t.Fatalf("SetThrottle() error = %v", err)
			}
			if got := gjson.Get(out, "throttleMs").Uint(); got != uint64(tt.ms) {
				t.Errorf("throttleMs = %d, want %d", got, tt.ms)
			}
			if _, err := Parse(out); err != nil {
				t.Errorf("patched document does not parse: %v", err)
			}
		})
	}
}

func TestSetThrottleInvalidDocument(t *testing.T) {
	if _, err := SetThrottle(`{broken`, 10); !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("SetThrottle() error = %v, want %v", err, ErrInvalidDocument)
	}
}

func TestSetThrottleRoundTrip(t *testing.T) {
	out, err := SetThrottle(`{}`, 75)
	if err != nil {
		t.Fatalf("SetThrottle() error = %v", err)
	}

	s, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Throttle != 75*time.Millisecond {
		t.Errorf("Throttle = %v, want 75ms", s.Throttle)
	}
}
