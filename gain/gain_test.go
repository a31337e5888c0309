package gain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/rack"
	"github.com/dudk/rack/gain"
)

func TestProcess(t *testing.T) {
	g := gain.New(0.5)
	g.EnsureFrames(4)
	in := g.Input(gain.In)
	copy(in, []float32{1, -1, 0.5, 0})

	g.Process(rack.ProcessArgs{Frames: 4})
	assert.Equal(t, []float32{0.5, -0.5, 0.25, 0}, g.Output(gain.Out))
}

func TestReset(t *testing.T) {
	g := gain.New(0.1)
	g.Reset()
	assert.Equal(t, float32(1), g.Param(gain.ParamLevel).Value())
}
