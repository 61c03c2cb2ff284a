package datastore

import (
	"fmt"
	"testing"
	"time"

	"OT2Connect/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ds := NewDataStore()

	_, found := ds.Snapshot()
	assert.False(t, found)

	ds.SetSnapshot(entities.RunSnapshot{SessionID: "s1", Status: entities.StatusRunning})
	snapshot, found := ds.Snapshot()
	require.True(t, found)
	assert.Equal(t, "s1", snapshot.SessionID)
	assert.Equal(t, entities.StatusRunning, snapshot.Status)
}

func TestOutcomeRoundTrip(t *testing.T) {
	ds := NewDataStore()

	_, found := ds.Outcome()
	assert.False(t, found)

	ds.SetOutcome(entities.ConnectionOutcome{Success: true, Message: "ok", CheckedAt: time.Now()})
	outcome, found := ds.Outcome()
	require.True(t, found)
	assert.True(t, outcome.Success)
}

func TestEventsBounded(t *testing.T) {
	ds := NewDataStore()

	for i := 0; i < maxEvents+10; i++ {
		ds.AppendEvent(entities.StatusEvent{SessionID: "s1", Message: fmt.Sprintf("event %d", i)})
	}

	events := ds.Events()
	require.Len(t, events, maxEvents)
	// Старые события вытесняются, последние сохраняются.
	assert.Equal(t, fmt.Sprintf("event %d", maxEvents+9), events[len(events)-1].Message)
}

func TestEventsReturnsCopy(t *testing.T) {
	ds := NewDataStore()
	ds.AppendEvent(entities.StatusEvent{Message: "one"})

	events := ds.Events()
	events[0].Message = "mutated"

	again := ds.Events()
	assert.Equal(t, "one", again[0].Message)
}
