// Package ui provides terminal feedback for a run in progress.
package ui

import (
	"fmt"
	"io"
	"time"
)

// ProgressReader wraps a reader and prints a textual progress bar to Out
// as bytes are consumed, used in verbose mode while reading a submission
// body of known Content-Length. Unlike a download progress bar, a form
// submission is a single bounded read rather than a long-lived transfer,
// so the line also carries the average throughput since the first read
// and an ETA derived from that rate — more useful here than a bare percentage
// when a submission carries large file uploads.
type ProgressReader struct {
	R       io.Reader
	Total   int64
	Current int64
	Out     io.Writer

	start     time.Time
	lastPrint time.Time
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	if p.start.IsZero() {
		p.start = time.Now()
	}
	n, err := p.R.Read(b)
	p.Current += int64(n)
	if p.Total > 0 && p.Out != nil {
		done := err == io.EOF || p.Current >= p.Total
		// Throttle intermediate redraws so a fast local upload doesn't
		// flood the terminal with one line per TCP read.
		if done || p.lastPrint.IsZero() || time.Since(p.lastPrint) >= 100*time.Millisecond {
			p.render(done)
			p.lastPrint = time.Now()
		}
	}
	return n, err
}

func (p *ProgressReader) render(done bool) {
	pct := float64(p.Current) / float64(p.Total) * 100.0
	elapsed := time.Since(p.start).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(p.Current) / elapsed
	}
	fmt.Fprintf(p.Out, "\r[%-20s] %3.0f%%  %s/s%s", bar(pct), pct, humanRate(rate), etaSuffix(rate, p.Total-p.Current))
	if done {
		fmt.Fprintln(p.Out)
	}
}

// etaSuffix renders a remaining-time estimate, or nothing when no rate is
// known yet (no bytes read) or the transfer is already complete.
func etaSuffix(bytesPerSec float64, remaining int64) string {
	if bytesPerSec <= 0 || remaining <= 0 {
		return ""
	}
	eta := time.Duration(float64(remaining)/bytesPerSec) * time.Second
	return fmt.Sprintf("  ETA %s", eta.Round(time.Second))
}

func humanRate(bytesPerSec float64) string {
	const unit = 1024.0
	if bytesPerSec < unit {
		return fmt.Sprintf("%.0fB", bytesPerSec)
	}
	div, exp := unit, 0
	for n := bytesPerSec / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", bytesPerSec/div, "KMGTPE"[exp])
}

func bar(pct float64) string {
	filled := int(pct / 5)
	if filled < 0 {
		filled = 0
	}
	if filled > 20 {
		filled = 20
	}
	return repeat("=", filled) + repeat(" ", 20-filled)
}

func repeat(s string, n int) string {
	res := ""
	for i := 0; i < n; i++ {
		res += s
	}
	return res
}
