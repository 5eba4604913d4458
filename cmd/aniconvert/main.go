// Command aniconvert batch-converts a directory of video files with
// HandBrakeCLI, choosing one audio and one subtitle track per file by
// language priority.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, errFilesFailed) {
			fmt.Fprintf(os.Stderr, "aniconvert: %v\n", err)
		}
		os.Exit(1)
	}
}
