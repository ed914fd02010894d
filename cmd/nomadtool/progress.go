package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"nomadtool/internal/media"
)

// newTerminalProgress returns a progress consumer that keeps one status
// line updated in place on stdout. Batch-level events start a fresh line so
// per-item progress never overwrites the batch tally.
func newTerminalProgress() media.ProgressFunc {
	var mu sync.Mutex
	lastWidth := 0
	return func(event media.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		line := fmt.Sprintf("[%s] %5.1f%% %s", event.Stage, event.Percent, event.Message)
		pad := ""
		if len(line) < lastWidth {
			pad = strings.Repeat(" ", lastWidth-len(line))
		}
		lastWidth = len(line)
		fmt.Fprintf(os.Stdout, "\r%s%s", line, pad)
		if event.Stage == "batch" {
			fmt.Fprintln(os.Stdout)
			lastWidth = 0
		}
	}
}
