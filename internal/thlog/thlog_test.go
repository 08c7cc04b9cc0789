package thlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracksLastError(t *testing.T) {
	logger := New(true)
	logger.Error("something broke", "detail", 42)

	msg, ok := LastError()
	require.True(t, ok)
	assert.Equal(t, "something broke", msg)
}

func TestRingSnapshotCapturesVerboseLogs(t *testing.T) {
	logger := New(true)
	logger.Debug("debug line for the ring buffer test")

	snapshot := RingSnapshot()
	require.NotEmpty(t, snapshot)
	found := false
	for _, e := range snapshot {
		if e == "DEBUG debug line for the ring buffer test" {
			found = true
		}
	}
	assert.True(t, found)
}
