// Package main is a terminal viewer that streams content into a text
// buffer through the synchronization engine and follows the growing tail.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/gdamore/tcell/v2"
	"github.com/google/generative-ai-go/genai"
	"github.com/openai/openai-go"
	googleopt "google.golang.org/api/option"

	"github.com/Simon-He95/stream-monaco/buffer"
	"github.com/Simon-He95/stream-monaco/reveal"
	"github.com/Simon-He95/stream-monaco/settings"
	"github.com/Simon-He95/stream-monaco/source"
	"github.com/Simon-He95/stream-monaco/streamsync"
	"github.com/Simon-He95/stream-monaco/timesource"
)

type options struct {
	file     string
	chunk    int
	interval time.Duration
	scenario string
	provider string
	model    string
	prompt   string
	tag      string
	settings string
	throttle int
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg := settings.Default()
	if opts.settings != "" {
		doc, err := os.ReadFile(opts.settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read settings: %v\n", err)
			return 1
		}
		cfg, err = settings.Parse(string(doc))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: parse settings: %v\n", err)
			return 1
		}
	}
	if opts.throttle >= 0 {
		cfg.Throttle = time.Duration(opts.throttle) * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := makeSource(ctx, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	buf := buffer.NewTextBuffer(buffer.WithTag(opts.tag))
	ts := timesource.NewWall()
	defer ts.Stop()

	engine, err := streamsync.New(buf, ts, cfg.EngineOptions()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create engine: %v\n", err)
		return 1
	}
	defer engine.Close()

	view := newView(screen, buf, engine)

	ctrl, err := reveal.New(view, ts, cfg.RevealOptions()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: create reveal controller: %v\n", err)
		return 1
	}
	defer ctrl.Close()
	view.setController(ctrl)

	engine.SetLineDeltaFunc(func(prev, cur uint32) {
		ctrl.NotifyLineDelta(prev, cur)
	})

	pumpErr := make(chan error, 1)
	go func() {
		pumpErr <- source.Pump(ctx, src, opts.tag, engine.Submit)
	}()

	// Repaint at frame cadence while the stream is live.
	go func() {
		ticker := time.NewTicker(33 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	view.loop(cancel)

	select {
	case err := <-pumpErr:
		if err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "Error: stream: %v\n", err)
			return 1
		}
	default:
	}
	return 0
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.file, "file", "", "Replay a file as a token stream")
	flag.IntVar(&opts.chunk, "chunk", 24, "Replay chunk size in bytes")
	chunkInterval := flag.Int("interval", 30, "Replay delay between chunks (ms)")
	flag.StringVar(&opts.scenario, "scenario", "", "Lua scenario script to replay")
	flag.StringVar(&opts.provider, "provider", "", "Live stream provider: anthropic, openai, gemini")
	flag.StringVar(&opts.model, "model", "", "Model name for the live provider")
	flag.StringVar(&opts.prompt, "prompt", "", "Prompt for the live provider")
	flag.StringVar(&opts.tag, "tag", "markdown", "Content tag (language identifier)")
	flag.StringVar(&opts.settings, "settings", "", "Path to a JSON settings document")
	flag.IntVar(&opts.throttle, "throttle", -1, "Flush throttle override (ms, -1 uses settings)")
	flag.Parse()

	opts.interval = time.Duration(*chunkInterval) * time.Millisecond
	return opts
}

func makeSource(ctx context.Context, opts options) (source.TokenSource, error) {
	switch {
	case opts.scenario != "":
		steps, err := loadScenario(opts.scenario)
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		return newScenarioSource(steps), nil

	case opts.file != "":
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, err
		}
		return newPaced(source.NewReader(f, opts.chunk), opts.interval), nil

	case opts.provider != "":
		return makeProviderSource(ctx, opts)

	default:
		return nil, fmt.Errorf("one of -file, -scenario, or -provider is required")
	}
}

func makeProviderSource(ctx context.Context, opts options) (source.TokenSource, error) {
	if opts.prompt == "" {
		return nil, fmt.Errorf("-prompt is required with -provider")
	}

	switch opts.provider {
	case "anthropic":
		model := opts.model
		if model == "" {
			model = string(anthropic.ModelClaudeSonnet4_20250514)
		}
		return source.NewAnthropic(ctx, anthropic.NewClient(), model, opts.prompt, 4096), nil

	case "openai":
		model := opts.model
		if model == "" {
			model = string(openai.ChatModelGPT4o)
		}
		return source.NewOpenAI(ctx, openai.NewClient(), model, opts.prompt), nil

	case "gemini":
		client, err := genai.NewClient(ctx, googleopt.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
		if err != nil {
			return nil, err
		}
		model := opts.model
		if model == "" {
			model = "gemini-1.5-flash"
		}
		return source.NewGemini(ctx, client, model, opts.prompt), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", opts.provider)
	}
}

// paced inserts a fixed delay before each fragment of an inner source.
type paced struct {
	src      source.TokenSource
	interval time.Duration
}

func newPaced(src source.TokenSource, interval time.Duration) *paced {
	return &paced{src: src, interval: interval}
}

func (p *paced) Next(ctx context.Context) (string, error) {
	if p.interval > 0 {
		timer := time.NewTimer(p.interval)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return p.src.Next(ctx)
}
