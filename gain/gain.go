// Package gain provides an amplifier module.
package gain

import "github.com/dudk/rack"

// Parameters.
const (
	ParamLevel = iota
)

// Ports.
const (
	In  = iota
	Out = In
)

// Gain scales its input by the level parameter. Drive the level with
// Engine.SetParamSmoothValue to get click-free changes.
type Gain struct {
	rack.Core
}

var _ rack.Module = (*Gain)(nil)

// New returns a gain module with the given initial level.
func New(level float32) *Gain {
	g := &Gain{}
	g.Init(1, 1, 1)
	g.Param(ParamLevel).SetValue(level)
	return g
}

// Process implements rack.Module.
func (g *Gain) Process(args rack.ProcessArgs) {
	in, out := g.Input(In), g.Output(Out)
	level := g.Param(ParamLevel).Value()
	for i := 0; i < args.Frames; i++ {
		out[i] = in[i] * level
	}
}

// Reset implements rack.Resetter.
func (g *Gain) Reset() {
	g.Param(ParamLevel).SetValue(1)
}
