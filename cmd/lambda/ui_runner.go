package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lambda/internal/driver"
	"lambda/internal/source"
	"lambda/internal/ui"
)

type batchOutcome struct {
	fileSet *source.FileSet
	results []*driver.EvalResult
	err     error
}

// evalFilesWithUI runs EvalFiles while a progress view renders its events.
func evalFilesWithUI(ctx context.Context, title string, files []string, opts driver.BatchOptions) (*source.FileSet, []*driver.EvalResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.EvalFiles(ctx, files, opts)
		outcomeCh <- batchOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// UI мог выйти раньше: дочитываем события, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
