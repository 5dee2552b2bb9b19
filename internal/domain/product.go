package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseProductURL validates a product page URL the way a browser URL input
// does: it must be an absolute http or https URL with a host.
func ParseProductURL(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, input)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %s (use http or https)", ErrInvalidURL, input)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %s (missing host)", ErrInvalidURL, input)
	}

	return input, nil
}
