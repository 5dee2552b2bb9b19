package ports

import "context"

// Confirmer gates destructive actions behind an interactive yes/no answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// URLOpener opens a URL in a new browser context.
type URLOpener interface {
	Open(url string) error
}
