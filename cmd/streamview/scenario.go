package main

import (
	"context"
	"fmt"
	"io"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// scenarioStep is one timed fragment of a replayed streaming session.
type scenarioStep struct {
	delay time.Duration
	text  string
}

// loadScenario runs a Lua script that returns an array of steps:
//
//	return {
//	  { delay = 40, text = "# Title\n" },
//	  { delay = 25, text = "Body " },
//	}
//
// delay is in milliseconds and may be omitted (defaults to 0).
func loadScenario(path string) ([]scenarioStep, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, err
	}

	ret := L.Get(-1)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("scenario must return a table, got %s", ret.Type())
	}

	var steps []scenarioStep
	var convErr error
	tbl.ForEach(func(_, value lua.LValue) {
		if convErr != nil {
			return
		}
		entry, ok := value.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("scenario step must be a table, got %s", value.Type())
			return
		}

		step := scenarioStep{}
		if d, ok := entry.RawGetString("delay").(lua.LNumber); ok {
			if d < 0 {
				convErr = fmt.Errorf("scenario step delay must not be negative")
				return
			}
			step.delay = time.Duration(float64(d) * float64(time.Millisecond))
		}
		text, ok := entry.RawGetString("text").(lua.LString)
		if !ok {
			convErr = fmt.Errorf("scenario step is missing a text field")
			return
		}
		step.text = string(text)
		steps = append(steps, step)
	})
	if convErr != nil {
		return nil, convErr
	}

	return steps, nil
}

// scenarioSource replays scenario steps as a TokenSource, honoring each
// step's delay.
type scenarioSource struct {
	steps []scenarioStep
	next  int
}

func newScenarioSource(steps []scenarioStep) *scenarioSource {
	return &scenarioSource{steps: steps}
}

func (s *scenarioSource) Next(ctx context.Context) (string, error) {
	if s.next >= len(s.steps) {
		return "", io.EOF
	}

	step := s.steps[s.next]
	s.next++

	if step.delay > 0 {
		timer := time.NewTimer(step.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return step.text, nil
}
