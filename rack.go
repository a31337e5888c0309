/*
Package rack defines the contract between a modular-synth engine and the
modules it steps.

# Concept

A rack is a graph of modules connected with cables. Modules expose input
and output ports and numbered parameters; cables copy signal from one
output port to one input port. The engine (see the engine package) owns
the graph, advances it one block of frames at a time and routes cable
signal between blocks.

Modules are implemented outside of the engine. An implementation embeds
Core, which carries everything the engine needs to know about a module
(identity, ports, parameters, bypass and fault state), and provides a
Process method with the actual DSP:

	type Gain struct {
		rack.Core
	}

	func New() *Gain {
		g := &Gain{}
		g.Init(1, 1, 1)
		return g
	}

	func (g *Gain) Process(args rack.ProcessArgs) {
		in, out := g.Input(0), g.Output(0)
		level := g.Param(0).Value()
		for i := 0; i < args.Frames; i++ {
			out[i] = in[i] * level
		}
	}

Lifecycle events are optional interfaces. The engine discovers them with
type assertions and dispatches them under its write lock, so an event is
never observed half-applied by a processing step.
*/
package rack

import "reflect"

// AutoID requests automatic identifier assignment when a module or cable
// is added to the engine.
const AutoID int64 = -1

// ProcessArgs carries per-block timing passed to Module.Process.
type ProcessArgs struct {
	// SampleRate is the number of frames per second.
	SampleRate float32
	// SampleTime is the inverse of SampleRate.
	SampleTime float32
	// Frame is the frame counter value at the start of the block.
	Frame int64
	// Frames is the number of frames to advance in this call.
	Frames int
}

// Module is a processing unit of the rack. Implementations must embed
// Core and initialize it before the module is added to an engine.
//
// Process is called once per block, from an arbitrary engine worker
// goroutine, but never concurrently with itself, with another module's
// mutation event or with a structural change of the graph. A panic
// inside Process marks the module as faulted and is contained by the
// engine; it does not abort the block.
type Module interface {
	Process(args ProcessArgs)
	ModuleCore() *Core
}

// Resetter is dispatched when a module is reset to its initial state.
type Resetter interface {
	Reset()
}

// Randomizer is dispatched when a module is asked to randomize itself.
type Randomizer interface {
	Randomize()
}

// Bypasser is notified when the bypass state of a module changes. The
// bypass flag itself is maintained by Core, implementing Bypasser is
// only needed to react to the change.
type Bypasser interface {
	Bypass(bypassed bool)
}

// Saver is notified right before the rack is serialized.
type Saver interface {
	Save()
}

// SampleRateListener is notified when the engine sample rate changes.
type SampleRateListener interface {
	SampleRateChange(sampleRate, sampleTime float32)
}

// Stater is implemented by modules that carry internal state beyond
// parameters. The engine stores the marshalled bytes opaquely in the
// patch document.
type Stater interface {
	MarshalState() ([]byte, error)
	UnmarshalState(data []byte) error
}

// TypeOf derives a stable type name for a module, used as the module
// type in patch documents.
func TypeOf(m Module) string {
	rv := reflect.ValueOf(m)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}
