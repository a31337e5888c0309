package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/rack/engine"
	"github.com/dudk/rack/mock"
)

func waitBlocks(e *engine.Engine, from int64, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if e.Block() > from {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func TestFallbackSteps(t *testing.T) {
	e := newEngine(t, engine.WithBlockSize(64))

	m := mock.New(0, 1, 0)
	require.NoError(t, e.AddModule(m))

	e.StartFallbackThread()
	// repeated calls are a no-op
	e.StartFallbackThread()

	assert.True(t, waitBlocks(e, 0, 2*time.Second), "fallback thread did not step")
	assert.Greater(t, m.Processed.Load(), int64(0))
	assert.Equal(t, 64, e.BlockFrames())
}

func TestFallbackParksWithMaster(t *testing.T) {
	e := newEngine(t, engine.WithBlockSize(32))

	master := mock.New(0, 0, 0)
	require.NoError(t, e.AddModule(master))
	e.SetMasterModule(master)

	e.StartFallbackThread()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), e.Block(), "fallback must not step while a master is set")

	// the master is the clock source now
	e.StepBlock(32)
	assert.Equal(t, int64(1), e.Block())

	// unsetting the master resumes fallback stepping
	e.SetMasterModule(nil)
	assert.True(t, waitBlocks(e, 1, 2*time.Second), "fallback thread did not resume")

	// setting it again parks the thread
	e.SetMasterModule(master)
	parked := e.Block()
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, e.Block(), parked+1)
}
