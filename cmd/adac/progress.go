package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"adalower/internal/buildpipeline"
	"adalower/internal/ui"
)

// timingSink accumulates wall-clock duration per stage from the
// Working->Done event pairs driver.Run emits, since buildpipeline.Event
// only reports transitions, not durations, for stages that repeat once per
// library unit (sema, lower).
type timingSink struct {
	started map[buildpipeline.Stage]time.Time
	total   buildpipeline.Timings
}

func newTimingSink() *timingSink {
	return &timingSink{started: make(map[buildpipeline.Stage]time.Time)}
}

func (s *timingSink) OnEvent(evt buildpipeline.Event) {
	switch evt.Status {
	case buildpipeline.StatusWorking:
		s.started[evt.Stage] = time.Now()
	case buildpipeline.StatusDone:
		start, ok := s.started[evt.Stage]
		if !ok {
			return
		}
		delete(s.started, evt.Stage)
		s.total.Set(evt.Stage, s.total.Duration(evt.Stage)+time.Since(start))
	}
}

// fanoutSink forwards every event to each of its members, so --timings and
// --ui=progress can both observe the same driver.Run without either one
// replacing the other.
type fanoutSink []buildpipeline.ProgressSink

func (f fanoutSink) OnEvent(evt buildpipeline.Event) {
	for _, s := range f {
		s.OnEvent(evt)
	}
}

type progressSinkKey struct{}
type timingSinkKey struct{}

// setupProgress starts a Bubble Tea progress display when --ui=progress is
// set, and returns a cleanup that waits for it to finish rendering. It
// attaches the program's event channel to cmd's context so progressSinkFor
// can fan driver.Run's events into it alongside any timingSink.
func setupProgress(cmd *cobra.Command) (func(), error) {
	mode, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil || mode != "progress" {
		return func() {}, nil
	}

	events := make(chan buildpipeline.Event, 64)
	program := tea.NewProgram(ui.NewProgressModel("adac", nil, events))
	done := make(chan struct{})
	go func() {
		defer close(done)
		program.Run()
	}()

	sink := buildpipeline.ChannelSink{Ch: events}
	ctx := context.WithValue(cmd.Context(), progressSinkKey{}, sink)
	cmd.SetContext(ctx)

	return func() {
		close(events)
		<-done
	}, nil
}

// progressSinkFor returns whichever combination of timingSink and the
// --ui=progress bubbletea sink is active for cmd, or nil if neither is.
func progressSinkFor(cmd *cobra.Command) buildpipeline.ProgressSink {
	var sinks fanoutSink
	if sink, ok := cmd.Context().Value(timingSinkKey{}).(*timingSink); ok {
		sinks = append(sinks, sink)
	}
	if sink, ok := cmd.Context().Value(progressSinkKey{}).(buildpipeline.ChannelSink); ok {
		sinks = append(sinks, sink)
	}
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return sinks
	}
}

// withTimingSink attaches a fresh timingSink to cmd's context when --timings
// is set, returning it (and whether it was attached) so the caller can print
// its accumulated Timings once the run completes.
func withTimingSink(cmd *cobra.Command) (*timingSink, bool, error) {
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, false, err
	}
	if !showTimings {
		return nil, false, nil
	}
	sink := newTimingSink()
	ctx := context.WithValue(cmd.Context(), timingSinkKey{}, sink)
	cmd.SetContext(ctx)
	return sink, true, nil
}
