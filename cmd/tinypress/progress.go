package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// progressInterval is how often verbose runs refresh the progress line.
const progressInterval = 500 * time.Millisecond

// progressOut receives progress lines.
var progressOut io.Writer = os.Stderr

// progressReader wraps an io.Reader to track bytes read.
type progressReader struct {
	r    io.Reader
	read *atomic.Int64
}

func newProgressReader(r io.Reader, counter *atomic.Int64) *progressReader {
	return &progressReader{r: r, read: counter}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.read.Add(int64(n))
	return n, err
}

// trackProgress prints the counter under label every interval until stop is
// called. stop prints a final line and waits for the printer to exit.
func trackProgress(label string, counter *atomic.Int64, interval time.Duration) (stop func()) {
	start := time.Now()
	done := make(chan struct{})
	var wg sync.WaitGroup

	report := func(final string) {
		elapsed := time.Since(start)
		fmt.Fprintf(progressOut, "\r[%s] %s read in %s%s", label,
			formatBytes(counter.Load()), formatDuration(elapsed), final)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				report("")
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			report("\n")
		})
	}
}
