package rack

import "sync/atomic"

// Core holds the engine-facing state of a module: identity, port
// buffers, parameters, bypass and fault flags. It is intended to be
// embedded into module implementations and initialized with Init.
//
// Port buffers are owned by the module but sized by the engine: before
// a block is processed the engine grows every buffer to the block frame
// count. A module's own Process call is the only writer of its output
// buffers; input buffers are written by the engine during cable routing
// at the end of a block, so a module reads the signal routed by the
// previous block.
type Core struct {
	id       atomic.Int64
	bypassed atomic.Bool
	faulted  atomic.Bool

	inputs  [][]float32
	outputs [][]float32
	params  []Param
}

// Init allocates ports and parameters. Must be called once, before the
// module is shared with an engine.
func (c *Core) Init(inputs, outputs, params int) {
	c.id.Store(AutoID)
	c.inputs = make([][]float32, inputs)
	c.outputs = make([][]float32, outputs)
	c.params = make([]Param, params)
}

// ModuleCore returns the embedded core, satisfying the Module
// interface for implementations that embed it. The accessor is not
// named after the type: the embedded field is selected as Core, the
// method must not collide with it.
func (c *Core) ModuleCore() *Core {
	return c
}

// ID returns the module identifier, or AutoID if the module was never
// added to an engine.
func (c *Core) ID() int64 {
	return c.id.Load()
}

// SetID assigns the module identifier. Assigned by the engine when the
// module is added; set it beforehand to request a specific identifier.
func (c *Core) SetID(id int64) {
	c.id.Store(id)
}

// NumInputs returns the number of input ports.
func (c *Core) NumInputs() int {
	return len(c.inputs)
}

// NumOutputs returns the number of output ports.
func (c *Core) NumOutputs() int {
	return len(c.outputs)
}

// NumParams returns the number of parameters.
func (c *Core) NumParams() int {
	return len(c.params)
}

// Input returns the buffer of the input port. Only the first
// ProcessArgs.Frames samples are meaningful within a block.
func (c *Core) Input(port int) []float32 {
	return c.inputs[port]
}

// Output returns the buffer of the output port.
func (c *Core) Output(port int) []float32 {
	return c.outputs[port]
}

// Param returns the parameter with the given index, nil if the index is
// out of range.
func (c *Core) Param(id int) *Param {
	if id < 0 || id >= len(c.params) {
		return nil
	}
	return &c.params[id]
}

// Bypassed reports whether the module is excluded from processing.
func (c *Core) Bypassed() bool {
	return c.bypassed.Load()
}

// SetBypassed sets the bypass flag. Use Engine.BypassModule instead to
// keep the change synchronized with processing.
func (c *Core) SetBypassed(bypassed bool) {
	c.bypassed.Store(bypassed)
}

// Faulted reports whether the module panicked during processing. A
// faulted module is skipped like a bypassed one until the fault is
// cleared.
func (c *Core) Faulted() bool {
	return c.faulted.Load()
}

// SetFaulted sets or clears the fault flag.
func (c *Core) SetFaulted(faulted bool) {
	c.faulted.Store(faulted)
}

// EnsureFrames grows every port buffer to hold at least frames samples.
// Called by the engine at the start of a block; existing samples are
// preserved.
func (c *Core) EnsureFrames(frames int) {
	for i, buf := range c.inputs {
		c.inputs[i] = grow(buf, frames)
	}
	for i, buf := range c.outputs {
		c.outputs[i] = grow(buf, frames)
	}
}

// ZeroInput clears the input port buffer. Used by the engine when the
// cable feeding the port is removed.
func (c *Core) ZeroInput(port int) {
	buf := c.inputs[port]
	for i := range buf {
		buf[i] = 0
	}
}

func grow(buf []float32, frames int) []float32 {
	if len(buf) >= frames {
		return buf
	}
	grown := make([]float32, frames)
	copy(grown, buf)
	return grown
}
