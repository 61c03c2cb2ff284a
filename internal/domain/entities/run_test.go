package entities

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatusTerminal(t *testing.T) {
	assert.True(t, StatusSucceeded.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusStopped.Terminal())

	assert.False(t, StatusRunning.Terminal())
	assert.False(t, StatusPaused.Terminal())
	assert.False(t, StatusUnknown.Terminal())
	assert.False(t, RunStatus("finishing").Terminal())
}

func TestRunSessionRunIDSetOnce(t *testing.T) {
	session := NewRunSession()
	assert.NotEmpty(t, session.SessionID)

	session.SetRunID("run-1")
	session.SetRunID("run-2")
	assert.Equal(t, "run-1", session.RunID())
}

func TestRunSessionStopIsPermanent(t *testing.T) {
	session := NewRunSession()
	assert.False(t, session.StopRequested())
	session.RequestStop()
	assert.True(t, session.StopRequested())

	// Флаг паузы может переключаться свободно, остановка — нет.
	session.SetPaused(true)
	session.SetPaused(false)
	assert.True(t, session.StopRequested())
}

func TestRunSessionConcurrentFlagAccess(t *testing.T) {
	session := NewRunSession()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session.SetPaused(i%2 == 0)
			session.SetStatus(StatusRunning)
			_ = session.Paused()
			_ = session.Snapshot()
		}(i)
	}
	session.RequestStop()
	wg.Wait()

	assert.True(t, session.StopRequested())
	assert.Equal(t, StatusRunning, session.Status())
}

func TestSnapshotReflectsState(t *testing.T) {
	session := NewRunSession()
	session.SetRunID("run-9")
	session.SetStatus(StatusPaused)
	session.SetPaused(true)

	snapshot := session.Snapshot()
	assert.Equal(t, session.SessionID, snapshot.SessionID)
	assert.Equal(t, "run-9", snapshot.RunID)
	assert.Equal(t, StatusPaused, snapshot.Status)
	assert.True(t, snapshot.Paused)
	assert.False(t, snapshot.StopRequested)
}
