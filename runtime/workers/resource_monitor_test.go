package workers

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/require"
)

func TestResourceMonitorWorker_Logs_Until_Canceled(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	worker := NewResourceMonitorWorker(log, 10*time.Millisecond, map[string]int32{"classifier": int32(os.Getpid())})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		req.Fail("Monitor should stop when the context is canceled")
	}
	req.Contains(buf.String(), "Process stats")
	req.Contains(buf.String(), "name=classifier")
}

func TestProcessStats(t *testing.T) {
	req := require.New(t)
	p, err := process.NewProcess(int32(os.Getpid()))
	req.NoError(err)

	rss, cpu, err := ProcessStats(p)
	req.NoError(err)
	req.Positive(rss)
	req.GreaterOrEqual(cpu, 0.0)
}
