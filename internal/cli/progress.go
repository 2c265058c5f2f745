package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/opyta/sistema-financeiro/internal/service"
	"github.com/schollz/progressbar/v3"
)

// SyncProgress draws a progress bar for rows written to the tax tab. The bar
// is created on the first report, when the row count is known.
type SyncProgress struct {
	writer      io.Writer
	bar         *progressbar.ProgressBar
	description string
}

// NewSyncProgress creates a progress reporter writing to w.
func NewSyncProgress(w io.Writer, description string) *SyncProgress {
	return &SyncProgress{writer: w, description: description}
}

// Func returns the callback to hand to the writer.
func (p *SyncProgress) Func() service.ProgressFunc {
	return p.report
}

func (p *SyncProgress) report(done, total int) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]"+p.description+"[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprintln(p.writer); err != nil {
					slog.Warn("Failed to write newline after progress bar", "error", err)
				}
			}),
		)
	}

	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}
