package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// renderProgressBar creates a text progress bar like [=====>    ]
// current=0, total=10, width=10 → [          ]
// current=5, total=10, width=10 → [=====>    ]
// current=10, total=10, width=10 → [==========]
// current=3, total=10, width=10 → [==>       ]
func renderProgressBar(current, total int64, width int) string {
	if total <= 0 {
		return "[" + strings.Repeat(" ", width) + "]"
	}

	var bar strings.Builder
	bar.WriteString("[")

	switch {
	case current >= total:
		bar.WriteString(strings.Repeat("=", width))
	case current <= 0:
		bar.WriteString(strings.Repeat(" ", width))
	default:
		ratio := float64(current) / float64(total)
		head := int(ratio*float64(width) + 0.5)
		if head < 1 {
			head = 1
		}

		// Past halfway the head sits after the filled part
		equals := head - 1
		if ratio >= 0.5 {
			equals = head
		}
		equals = min(max(equals, 0), width-1)

		bar.WriteString(strings.Repeat("=", equals))
		bar.WriteString(">")
		bar.WriteString(strings.Repeat(" ", width-equals-1))
	}

	bar.WriteString("]")
	return bar.String()
}

// DownloadProgress renders a single-line download progress indicator
type DownloadProgress struct {
	out        io.Writer
	label      string
	quiet      bool
	mu         sync.Mutex
	lastRender time.Time
	rendered   bool
}

// NewDownloadProgress creates a progress line for label written to out
func NewDownloadProgress(out io.Writer, label string, quiet bool) *DownloadProgress {
	return &DownloadProgress{out: out, label: label, quiet: quiet}
}

// Update reports bytes received so far. total is 0 when unknown.
func (p *DownloadProgress) Update(downloaded, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Throttle renders to avoid flickering
	if p.rendered && downloaded < total && time.Since(p.lastRender) < 100*time.Millisecond {
		return
	}
	p.render(downloaded, total)
}

func (p *DownloadProgress) render(downloaded, total int64) {
	if p.quiet {
		return
	}
	p.lastRender = time.Now()

	var line string
	if total > 0 {
		pct := float64(downloaded) / float64(total) * 100
		line = fmt.Sprintf("%s %s %.1f%% (%s / %s)",
			p.label, renderProgressBar(downloaded, total, 20), pct,
			FormatSize(downloaded), FormatSize(total))
	} else {
		line = fmt.Sprintf("%s %s", p.label, FormatSize(downloaded))
	}

	fmt.Fprintf(p.out, "\r\033[K%s", line)
	p.rendered = true
}

// Done ends the progress line with a summary
func (p *DownloadProgress) Done(path string, size int64, fromCache bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quiet {
		return
	}
	if p.rendered {
		fmt.Fprint(p.out, "\r\033[K")
	}

	suffix := ""
	if fromCache {
		suffix = " [cached]"
	}
	fmt.Fprintf(p.out, "✓ Saved %s (%s)%s\n", path, FormatSize(size), suffix)
}

// Fail ends the progress line with an error
func (p *DownloadProgress) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quiet {
		return
	}
	if p.rendered {
		fmt.Fprint(p.out, "\r\033[K")
	}
	fmt.Fprintf(p.out, "✗ %s: %v\n", p.label, err)
}
