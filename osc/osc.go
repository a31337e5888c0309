// Package osc provides a sine oscillator module.
package osc

import (
	"math"
	"math/rand"

	"github.com/dudk/rack"
)

// Parameters.
const (
	ParamFreq = iota
)

// Ports.
const (
	OutSine = iota
)

const defaultFreq = 440

// Osc is a free-running sine oscillator. One output port, one
// frequency parameter in Hz.
type Osc struct {
	rack.Core
	phase float64
}

var _ rack.Module = (*Osc)(nil)

// New returns an oscillator tuned to freq Hz.
func New(freq float32) *Osc {
	o := &Osc{}
	o.Init(0, 1, 1)
	if freq <= 0 {
		freq = defaultFreq
	}
	o.Param(ParamFreq).SetValue(freq)
	return o
}

// Process implements rack.Module.
func (o *Osc) Process(args rack.ProcessArgs) {
	out := o.Output(OutSine)
	inc := float64(o.Param(ParamFreq).Value()) * float64(args.SampleTime)
	for i := 0; i < args.Frames; i++ {
		out[i] = float32(math.Sin(2 * math.Pi * o.phase))
		o.phase += inc
		if o.phase >= 1 {
			o.phase -= 1
		}
	}
}

// Reset implements rack.Resetter.
func (o *Osc) Reset() {
	o.phase = 0
	o.Param(ParamFreq).SetValue(defaultFreq)
}

// Randomize implements rack.Randomizer. Picks a frequency in the
// 20 Hz to 2 kHz range.
func (o *Osc) Randomize() {
	o.Param(ParamFreq).SetValue(20 + rand.Float32()*1980)
}
