package rack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/rack"
)

func TestParamSetValue(t *testing.T) {
	var p rack.Param
	assert.Equal(t, float32(0), p.Value())

	p.SetValue(0.5)
	assert.Equal(t, float32(0.5), p.Value())
	assert.Equal(t, float32(0.5), p.SmoothValue())
	assert.False(t, p.Smoothing())
}

func TestParamSmoothing(t *testing.T) {
	var p rack.Param
	p.SetSmoothValue(1)
	assert.True(t, p.Smoothing())
	assert.Equal(t, float32(0), p.Value())
	assert.Equal(t, float32(1), p.SmoothValue())

	p.Advance(0.5)
	assert.Equal(t, float32(0.5), p.Value())
	p.Advance(0.5)
	assert.Equal(t, float32(0.75), p.Value())

	// a factor of 1 reaches the target at once
	p.Advance(1)
	assert.Equal(t, float32(1), p.Value())
	assert.False(t, p.Smoothing())

	// advancing without a pending target changes nothing
	p.Advance(1)
	assert.Equal(t, float32(1), p.Value())
}

func TestParamSnap(t *testing.T) {
	var p rack.Param
	p.SetValue(0.99995)
	p.SetSmoothValue(1)

	// within tolerance the value snaps to the target
	p.Advance(0.1)
	assert.Equal(t, float32(1), p.Value())
	assert.False(t, p.Smoothing())
}

func TestParamSetCancelsSmoothing(t *testing.T) {
	var p rack.Param
	p.SetSmoothValue(1)
	p.SetValue(0.2)
	assert.False(t, p.Smoothing())

	p.Advance(1)
	assert.Equal(t, float32(0.2), p.Value())

	// a target equal to the value is a no-op
	p.SetSmoothValue(0.2)
	assert.False(t, p.Smoothing())
}

func TestCoreInit(t *testing.T) {
	var c rack.Core
	c.Init(2, 1, 3)

	assert.Equal(t, rack.AutoID, c.ID())
	assert.Equal(t, 2, c.NumInputs())
	assert.Equal(t, 1, c.NumOutputs())
	assert.Equal(t, 3, c.NumParams())
	assert.NotNil(t, c.Param(2))
	assert.Nil(t, c.Param(3))
	assert.Nil(t, c.Param(-1))
}

func TestCoreEnsureFrames(t *testing.T) {
	var c rack.Core
	c.Init(1, 1, 0)

	c.EnsureFrames(4)
	assert.Len(t, c.Input(0), 4)
	assert.Len(t, c.Output(0), 4)

	// growth preserves existing samples
	c.Input(0)[3] = 0.5
	c.EnsureFrames(8)
	assert.Len(t, c.Input(0), 8)
	assert.Equal(t, float32(0.5), c.Input(0)[3])

	// shrinking never happens
	c.EnsureFrames(2)
	assert.Len(t, c.Input(0), 8)

	c.ZeroInput(0)
	assert.Equal(t, float32(0), c.Input(0)[3])
}

type named struct {
	rack.Core
}

var _ rack.Module = (*named)(nil)

func (*named) Process(rack.ProcessArgs) {}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "rack_test.named", rack.TypeOf(&named{}))
}
