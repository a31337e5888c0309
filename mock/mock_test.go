package mock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/rack"
	"github.com/dudk/rack/mock"
)

func TestProcess(t *testing.T) {
	m := mock.New(1, 2, 0)
	m.OutValue = 0.5
	m.EnsureFrames(8)

	var got rack.ProcessArgs
	m.OnProcess = func(args rack.ProcessArgs) {
		got = args
	}
	m.Process(rack.ProcessArgs{Frames: 8})

	assert.Equal(t, 8, got.Frames)
	assert.Equal(t, int64(1), m.Processed.Load())
	assert.Equal(t, int64(8), m.Frames.Load())
	for i := 0; i < 2; i++ {
		assert.Equal(t, float32(0.5), m.Output(i)[7])
	}
}

func TestPanic(t *testing.T) {
	m := mock.New(0, 0, 0)
	m.PanicOnProcess = true
	assert.Panics(t, func() {
		m.Process(rack.ProcessArgs{Frames: 1})
	})
	assert.Equal(t, int64(0), m.Processed.Load())
}

func TestEvents(t *testing.T) {
	m := mock.New(0, 0, 0)
	m.Reset()
	m.Randomize()
	m.Bypass(true)
	m.Save()
	m.SampleRateChange(48000, 1.0/48000)

	assert.Equal(t, int64(1), m.Resets.Load())
	assert.Equal(t, int64(1), m.Randomizes.Load())
	assert.Equal(t, int64(1), m.Bypasses.Load())
	assert.Equal(t, int64(1), m.Saves.Load())
	assert.Equal(t, int64(1), m.SampleRates.Load())
	assert.Equal(t, float32(48000), m.LastSampleRate())
}
