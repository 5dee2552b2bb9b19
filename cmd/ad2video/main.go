package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/devbush/ad2video/internal/adapters/cli"
)

func main() {
	// Load .env file if it exists; AD2VIDEO_* variables may also be set directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not read .env: %v\n", err)
	}

	cli.Execute()
}
