package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devbush/ad2video/internal/ports"
)

// confirmRequestMsg asks the dashboard to show a yes/no prompt
type confirmRequestMsg struct {
	prompt string
	reply  chan<- bool
}

// Confirmer asks yes/no questions through a running dashboard program.
// Confirm must not be called from inside Update.
type Confirmer struct {
	mu      sync.Mutex
	program *tea.Program
}

func NewConfirmer() *Confirmer {
	return &Confirmer{}
}

// Attach binds the confirmer to the program that renders prompts
func (c *Confirmer) Attach(p *tea.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.program = p
}

func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	c.mu.Lock()
	p := c.program
	c.mu.Unlock()
	if p == nil {
		return false, errors.New("no dashboard attached")
	}

	reply := make(chan bool, 1)
	p.Send(confirmRequestMsg{prompt: prompt, reply: reply})

	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

var _ ports.Confirmer = (*Confirmer)(nil)
