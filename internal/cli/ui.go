package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/numfmt/internal/orchestration"
)

const (
	// ProgressRefreshRate is the spinner frame interval and the maximum rate
	// at which the progress suffix is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with a progress bar while a batch runs.
// It returns when progressChan is closed and calls wg.Done on exit.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, total int, out io.Writer) {
	defer wg.Done()
	if total <= 0 {
		for range progressChan {
		}
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(progressSuffix(orchestration.ProgressUpdate{Total: total}))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	last := orchestration.ProgressUpdate{Total: total}
	dirty := false
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.UpdateSuffix(progressSuffix(last))
				return
			}
			last = update
			dirty = true
		case <-ticker.C:
			if dirty {
				s.UpdateSuffix(progressSuffix(last))
				dirty = false
			}
		}
	}
}

func progressSuffix(u orchestration.ProgressUpdate) string {
	return fmt.Sprintf(" %s %d/%d conversions", progressBar(u.Fraction(), ProgressBarWidth), u.Completed, u.Total)
}

// progressBar renders fraction (clamped to [0, 1]) as a bar of length runes.
func progressBar(fraction float64, length int) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	b.WriteString(strings.Repeat("█", filled))
	b.WriteString(strings.Repeat("░", length-filled))
	return b.String()
}
