// Package mock provides an instrumented module implementation for
// engine tests.
package mock

import (
	"math"
	"sync/atomic"

	"github.com/dudk/rack"
)

// Module counts processing calls and lifecycle events and can be
// configured to misbehave. Every output port is filled with OutValue
// on each processed block.
type Module struct {
	rack.Core

	// OutValue is written to every output sample.
	OutValue float32
	// PanicOnProcess makes Process panic, to exercise fault isolation.
	PanicOnProcess bool
	// OnProcess, when set, is called at the start of Process.
	OnProcess func(args rack.ProcessArgs)

	// Processed counts Process calls, Frames the total frames seen.
	Processed atomic.Int64
	Frames    atomic.Int64
	// Overlaps counts Process calls that observed another Process call
	// of the same module in flight. Stays zero when the engine honors
	// its scheduling contract.
	Overlaps atomic.Int64
	running  atomic.Int32

	Resets      atomic.Int64
	Randomizes  atomic.Int64
	Bypasses    atomic.Int64
	Saves       atomic.Int64
	SampleRates atomic.Int64

	lastSampleRate atomic.Uint32
}

var (
	_ rack.Module             = (*Module)(nil)
	_ rack.Resetter           = (*Module)(nil)
	_ rack.Randomizer         = (*Module)(nil)
	_ rack.Bypasser           = (*Module)(nil)
	_ rack.Saver              = (*Module)(nil)
	_ rack.SampleRateListener = (*Module)(nil)
)

// New returns a mock module with the given port and parameter counts.
func New(inputs, outputs, params int) *Module {
	m := &Module{}
	m.Init(inputs, outputs, params)
	return m
}

// Process implements rack.Module.
func (m *Module) Process(args rack.ProcessArgs) {
	if m.running.Add(1) != 1 {
		m.Overlaps.Add(1)
	}
	defer m.running.Add(-1)
	if m.OnProcess != nil {
		m.OnProcess(args)
	}
	if m.PanicOnProcess {
		panic("mock: process failure")
	}
	for i := 0; i < m.NumOutputs(); i++ {
		out := m.Output(i)
		for j := 0; j < args.Frames; j++ {
			out[j] = m.OutValue
		}
	}
	m.Processed.Add(1)
	m.Frames.Add(int64(args.Frames))
}

// Reset implements rack.Resetter.
func (m *Module) Reset() {
	m.Resets.Add(1)
}

// Randomize implements rack.Randomizer.
func (m *Module) Randomize() {
	m.Randomizes.Add(1)
}

// Bypass implements rack.Bypasser.
func (m *Module) Bypass(bypassed bool) {
	m.Bypasses.Add(1)
}

// Save implements rack.Saver.
func (m *Module) Save() {
	m.Saves.Add(1)
}

// SampleRateChange implements rack.SampleRateListener.
func (m *Module) SampleRateChange(sampleRate, sampleTime float32) {
	m.SampleRates.Add(1)
	m.lastSampleRate.Store(math.Float32bits(sampleRate))
}

// LastSampleRate returns the sample rate last announced to the module.
func (m *Module) LastSampleRate() float32 {
	return math.Float32frombits(m.lastSampleRate.Load())
}
