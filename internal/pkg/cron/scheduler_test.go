package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsJobImmediatelyOnStart(t *testing.T) {
	scheduler := NewScheduler()
	ran := make(chan struct{}, 1)

	scheduler.AddJob("hourly", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})
	scheduler.Start()
	defer scheduler.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestScheduler_StopWaitsForJobs(t *testing.T) {
	scheduler := NewScheduler()
	started := make(chan struct{})
	var finished bool

	scheduler.AddJob("slow", time.Hour, func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished = true
		return nil
	})
	scheduler.Start()

	<-started
	scheduler.Stop()

	assert.True(t, finished, "Stop must wait for the in-flight run")
}

func TestScheduler_JobReceivesCancelledContextAfterStop(t *testing.T) {
	scheduler := NewScheduler()
	ctxCh := make(chan context.Context, 1)

	scheduler.AddJob("ctx", time.Hour, func(ctx context.Context) error {
		select {
		case ctxCh <- ctx:
		default:
		}
		return nil
	})
	scheduler.Start()

	var jobCtx context.Context
	select {
	case jobCtx = <-ctxCh:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	require.NoError(t, jobCtx.Err())

	scheduler.Stop()
	assert.Error(t, jobCtx.Err())
}
