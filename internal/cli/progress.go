package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Progress is a counting progress bar for batch work such as imports.
type Progress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
}

// NewProgress creates a bar for total steps labeled with description.
func NewProgress(w io.Writer, total int, description string) *Progress {
	p := &Progress{writer: w}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Step advances the bar by one.
func (p *Progress) Step() {
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Describe replaces the label shown before the bar.
func (p *Progress) Describe(description string) {
	p.bar.Describe("[cyan][bold]" + description + "[reset]")
}

// Finish fills the bar.
func (p *Progress) Finish() {
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
}

// Current returns the number of completed steps.
func (p *Progress) Current() int64 {
	return p.bar.State().CurrentNum
}
