// Package display renders human-facing output: the banner, the end-of-batch
// summary table, track tables for the scan command, check results and the
// live encode progress bar. Colors follow the decision made by package term.
package display

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBytes returns a human-readable IEC size ("512 B", "1.5 KiB", "700 MiB").
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 GiB").
func FormatBytesWithSign(bytes int64) string {
	sign := ""
	if bytes > 0 {
		sign = "+ "
	} else if bytes < 0 {
		sign = "- "
		bytes = -bytes
	}
	return sign + FormatBytes(bytes)
}

// FormatBitrate returns a short label for a bitrate in bits per second.
func FormatBitrate(bps int) string {
	kbps := bps / 1000
	switch {
	case bps <= 0:
		return ""
	case kbps < 1000:
		return fmt.Sprintf("%d kbps", kbps)
	default:
		return fmt.Sprintf("%.1f Mbps", float64(kbps)/1000)
	}
}

// FormatDuration rounds d to whole seconds, keeping sub-second values visible.
func FormatDuration(d time.Duration) string {
	if d > 0 && d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

// relName is path relative to root, or path unchanged when it is not below root.
func relName(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// firstLine returns the first line of s.
func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
