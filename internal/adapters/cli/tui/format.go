package tui

import (
	"fmt"
	"time"

	"github.com/devbush/ad2video/internal/domain"
)

// FormatSize formats a byte count using binary units
// Examples: 512 -> "512 B", 1536 -> "1.5 KB", 10485760 -> "10.0 MB"
func FormatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatDate formats a timestamp as "Jan 15 14:05"
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "---"
	}
	return t.Format("Jan 2 15:04")
}

// FormatStatus returns the status with a leading marker
func FormatStatus(s domain.VideoStatus) string {
	switch s {
	case domain.StatusCompleted:
		return "✓ completed"
	case domain.StatusFailed:
		return "✗ failed"
	case domain.StatusProcessing:
		return "… processing"
	default:
		return string(s)
	}
}

// Truncate shortens s to at most max runes, ending with "..." when cut
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// FormatVideoLine formats a video record as a single line for display
// Example: "Ceramic desk lamp          ✓ completed   Jan 15 14:05"
func FormatVideoLine(v *domain.VideoRecord, maxTitleLen int) string {
	title := Truncate(v.DisplayTitle(), maxTitleLen)
	return fmt.Sprintf("%-*s  %-13s  %s",
		maxTitleLen, title, FormatStatus(v.Status), FormatDate(v.CreatedAt.Local()))
}
