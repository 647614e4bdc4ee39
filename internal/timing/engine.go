package timing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Engine measures a single hold cycle. A new Engine is created for every
// cycle; engines are not restartable.
type Engine interface {
	// Start begins timing. Calling Start more than once has no effect.
	Start()
	// Cancel stops timing before completion. It returns false, and does
	// nothing, if the cycle already resolved.
	Cancel() bool
	// Completed reports whether the completion hook has run
	Completed() bool
}

// Hooks receives engine output. OnComplete runs at most once per engine and
// never after Cancel.
type Hooks struct {
	OnProgress func(percent float64)
	OnComplete func()
}

// Strategy selects how hold duration is measured
type Strategy int

const (
	// StrategyDeadline fires a single timer after the duration
	StrategyDeadline Strategy = iota
	// StrategyFrame samples elapsed time once per frame
	StrategyFrame
	// StrategyHybrid completes on a timer and reports progress per frame
	StrategyHybrid
)

func (s Strategy) String() string {
	switch s {
	case StrategyDeadline:
		return "deadline"
	case StrategyFrame:
		return "frame"
	case StrategyHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Strategies lists every strategy in display order
var Strategies = []Strategy{StrategyDeadline, StrategyFrame, StrategyHybrid}

// ParseStrategy parses a strategy name as written in config files
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deadline", "timeout", "transition":
		return StrategyDeadline, nil
	case "frame", "animation-frame", "raf":
		return StrategyFrame, nil
	case "hybrid":
		return StrategyHybrid, nil
	default:
		return 0, fmt.Errorf("unknown timing strategy: %q", s)
	}
}

// ErrInvalidDuration is returned by New for a non-positive duration
var ErrInvalidDuration = errors.New("hold duration must be positive")

// Env carries the schedulers an engine may need
type Env struct {
	Clock  Clock
	Frames FrameScheduler
}

// New creates an engine for one hold cycle
func New(s Strategy, env Env, d time.Duration, hooks Hooks) (Engine, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDuration, d)
	}
	switch s {
	case StrategyDeadline:
		if env.Clock == nil {
			return nil, fmt.Errorf("%s strategy requires a clock", s)
		}
		return NewDeadline(env.Clock, d, hooks.OnComplete), nil
	case StrategyFrame:
		if env.Frames == nil {
			return nil, fmt.Errorf("%s strategy requires a frame scheduler", s)
		}
		return NewFrameSampler(env.Frames, d, hooks), nil
	case StrategyHybrid:
		if env.Clock == nil || env.Frames == nil {
			return nil, fmt.Errorf("%s strategy requires a clock and a frame scheduler", s)
		}
		return NewHybrid(env.Clock, env.Frames, d, hooks), nil
	default:
		return nil, fmt.Errorf("unknown timing strategy: %d", int(s))
	}
}

// Percent returns elapsed as a percentage of d rounded to two decimals.
// The result is not clamped and exceeds 100 when elapsed > d.
func Percent(elapsed, d time.Duration) float64 {
	raw := float64(elapsed) * 100 / float64(d)
	return math.Round(raw*100) / 100
}
