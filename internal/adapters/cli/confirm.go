package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/devbush/ad2video/internal/ports"
)

// promptConfirmer asks for confirmation on a line-oriented terminal
type promptConfirmer struct {
	in      *bufio.Reader
	out     io.Writer
	autoYes bool
}

func newPromptConfirmer(in io.Reader, out io.Writer, autoYes bool) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out, autoYes: autoYes}
}

func (c *promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.autoYes {
		return true, nil
	}

	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		if a.err != nil && a.err != io.EOF {
			return false, a.err
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

var _ ports.Confirmer = (*promptConfirmer)(nil)
