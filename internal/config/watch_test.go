package config

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lunahq/muse/internal/observability"
)

// syncBuffer guards a buffer shared between the watcher goroutine and the
// test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchRevalidatesOnWrite(t *testing.T) {
	path := writeConfig(t, "muse.yaml", `
time:
  zone: UTC
chat:
  provider: anthropic
  model: claude-sonnet-4-5
  prompt: prompts/companion.txt
`)

	out := &syncBuffer{}
	logger := observability.NewLogger(observability.LogConfig{Level: "silly", Format: "json", Output: out})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logger)
	}()

	// Give the watcher a moment to register before the write.
	time.Sleep(250 * time.Millisecond)

	broken := strings.TrimSpace(`
logs:
  level: trace
time:
  zone: UTC
chat:
  provider: anthropic
  model: claude-sonnet-4-5
  prompt: prompts/companion.txt
`)
	if err := os.WriteFile(path, []byte(broken), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), "logs.level") {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if !strings.Contains(out.String(), "logs.level") {
		t.Fatalf("expected a logged violation after rewrite, got %s", out.String())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop after cancel")
	}
}
