// Package mixer provides a summing mixer module.
package mixer

import "github.com/dudk/rack"

// Ports.
const (
	Out = iota
)

// Mixer sums up multiple inputs into a single output. Every input has
// its own level parameter; parameter i scales input i.
type Mixer struct {
	rack.Core
	numInputs int
}

var _ rack.Module = (*Mixer)(nil)

// New returns a mixer with the given number of inputs, all levels at
// unity.
func New(numInputs int) *Mixer {
	m := &Mixer{numInputs: numInputs}
	m.Init(numInputs, 1, numInputs)
	for i := 0; i < numInputs; i++ {
		m.Param(i).SetValue(1)
	}
	return m
}

// Process implements rack.Module.
func (m *Mixer) Process(args rack.ProcessArgs) {
	out := m.Output(Out)
	for i := 0; i < args.Frames; i++ {
		out[i] = 0
	}
	for in := 0; in < m.numInputs; in++ {
		buf := m.Input(in)
		level := m.Param(in).Value()
		for i := 0; i < args.Frames; i++ {
			out[i] += buf[i] * level
		}
	}
}

// Reset implements rack.Resetter.
func (m *Mixer) Reset() {
	for i := 0; i < m.numInputs; i++ {
		m.Param(i).SetValue(1)
	}
}
