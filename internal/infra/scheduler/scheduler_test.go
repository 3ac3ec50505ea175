package scheduler

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"poa_tracker/internal/app"

	"github.com/sirupsen/logrus"
)

type countingRunner struct {
	mu    sync.Mutex
	calls int
}

func (c *countingRunner) RunScanOnce(ctx context.Context) (app.ScanReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return app.ScanReport{}, nil
}

func (c *countingRunner) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestExpiryScheduler_RunsAndStops(t *testing.T) {
	runner := &countingRunner{}
	s := NewExpiryScheduler(runner, "@every 100ms", newTestLogger())

	s.Start()
	time.Sleep(350 * time.Millisecond)
	s.Stop()

	if got := runner.count(); got == 0 {
		t.Fatal("scheduled job never ran")
	}

	after := runner.count()
	time.Sleep(250 * time.Millisecond)
	if runner.count() != after {
		t.Error("job kept running after Stop()")
	}
}
