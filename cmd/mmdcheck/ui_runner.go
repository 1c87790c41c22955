package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mmdcheck/internal/diagfmt"
	"mmdcheck/internal/driver"
	"mmdcheck/internal/source"
	"mmdcheck/internal/ui"
)

type checkOutcome struct {
	fileSet *source.FileSet
	results []diagfmt.CheckedFile
	err     error
}

// runCheckWithUI runs the check while a progress view renders on stderr;
// stdout stays reserved for the report.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.CheckOptions) (*source.FileSet, []diagfmt.CheckedFile, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, res, err := driver.Check(ctx, files, optsCopy)
		outcomeCh <- checkOutcome{fileSet: fs, results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep draining so the workers never block on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
