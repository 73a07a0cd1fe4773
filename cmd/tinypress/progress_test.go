package main

import (
	"bytes"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestProgressReader(t *testing.T) {
	data := bytes.NewReader([]byte("hello world"))
	var counter atomic.Int64
	pr := newProgressReader(data, &counter)

	buf := make([]byte, 5)
	n, err := pr.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Read() = %d, want 5", n)
	}
	if counter.Load() != 5 {
		t.Errorf("counter = %d, want 5", counter.Load())
	}
}

func TestTrackProgress(t *testing.T) {
	var out bytes.Buffer
	old := progressOut
	progressOut = &out
	defer func() { progressOut = old }()

	var counter atomic.Int64
	counter.Store(2048)

	stop := trackProgress("in.bin", &counter, time.Hour)
	stop()
	stop()

	got := out.String()
	if !strings.HasPrefix(got, "\r[in.bin] 2.0 KB read in ") {
		t.Errorf("progress = %q", got)
	}
	if strings.Count(got, "\n") != 1 || !strings.HasSuffix(got, "\n") {
		t.Errorf("progress = %q, want a single final line", got)
	}
}
