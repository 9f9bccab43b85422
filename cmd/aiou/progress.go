package main

import (
	"context"
	"fmt"
	"os"
	"time"

	pretty "github.com/jedib0t/go-pretty/v6/progress"

	"github.com/gmpack/aiou/pkg/progress"
)

// withProgress runs fn while rendering ev to stderr.
func withProgress(ctx context.Context, ev *progress.Event, title string, fn func(ctx context.Context) error) error {
	pw := pretty.NewWriter()
	pw.SetOutputWriter(os.Stderr)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(pretty.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = true
	go pw.Render()

	tr := &pretty.Tracker{Message: title, Units: pretty.UnitsDefault}
	pw.AppendTracker(tr)

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	var err error
loop:
	for {
		select {
		case err = <-done:
			break loop
		case <-ticker.C:
			update(tr, title, ev.Snapshot())
		}
	}
	update(tr, title, ev.Snapshot())
	if err != nil {
		tr.MarkAsErrored()
	} else {
		tr.MarkAsDone()
	}
	pw.Stop()
	for pw.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
	return err
}

func update(tr *pretty.Tracker, title string, s progress.Snapshot) {
	msg := title
	if s.TotalSteps > 0 {
		msg = fmt.Sprintf("%s [%d/%d]", title, s.Step, s.TotalSteps)
	}
	if s.Message != "" {
		msg += " " + s.Message
	}
	tr.UpdateMessage(msg)
	if s.Total > 0 {
		tr.UpdateTotal(s.Total)
	}
	tr.SetValue(s.Now)
}
