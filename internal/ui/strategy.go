package ui

import (
	"github.com/charmbracelet/huh"

	"github.com/pleimann/holdpad/internal/timing"
)

var strategyDescriptions = map[timing.Strategy]string{
	timing.StrategyDeadline: "one timer, no progress bar",
	timing.StrategyFrame:    "sampled every frame, completes at 100%",
	timing.StrategyHybrid:   "timer completes, frames draw progress",
}

// SelectStrategy asks which timing strategy the demo should use. ok is
// false if the user cancelled.
func SelectStrategy(current timing.Strategy) (s timing.Strategy, ok bool, err error) {
	options := make([]huh.Option[timing.Strategy], len(timing.Strategies))
	for i, st := range timing.Strategies {
		label := Bold(st.String()) + "  " + Muted(strategyDescriptions[st])
		options[i] = huh.NewOption(label, st)
	}

	s = current
	ok, err = runForm(
		huh.NewSelect[timing.Strategy]().
			Title("Timing strategy").
			Description("How the hold measures its duration (esc to cancel)").
			Options(options...).
			Value(&s),
	)
	return s, ok, err
}
