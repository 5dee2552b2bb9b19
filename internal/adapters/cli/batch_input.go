package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/devbush/ad2video/internal/domain"
)

// ParseInputFile reads a file containing product URLs, one per line.
// Blank lines and lines starting with # are ignored, as are lines that
// are not valid http(s) URLs.
func ParseInputFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var urls []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip blank lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		u, err := domain.ParseProductURL(line)
		if err != nil {
			continue
		}
		urls = append(urls, u)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}

// CollectInputs combines CLI arguments and file input, deduplicating.
// Args are processed first, then file entries. Invalid args are returned
// separately so they can be reported.
func CollectInputs(args []string, filePath string) (urls []string, invalid []string, err error) {
	seen := make(map[string]bool)
	add := func(u string) {
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for _, arg := range args {
		u, err := domain.ParseProductURL(arg)
		if err != nil {
			invalid = append(invalid, arg)
			continue
		}
		add(u)
	}

	if filePath != "" {
		fileURLs, err := ParseInputFile(filePath)
		if err != nil {
			return nil, nil, err
		}
		for _, u := range fileURLs {
			add(u)
		}
	}

	return urls, invalid, nil
}
