package engine

import "github.com/dudk/rack"

// Cable is a directed connection from an output port of one module to
// an input port of another. Construct it with identifiers and pass it
// to Engine.AddCable; the engine resolves the endpoints and keeps them
// resolved for the lifetime of the connection.
//
// The engine holds a non-owning reference: the caller retains ownership
// and must remove the cable before discarding it.
type Cable struct {
	// ID is the cable identifier, AutoID to have one assigned.
	ID int64
	// OutputModuleID and OutputID address the source port.
	OutputModuleID int64
	OutputID       int
	// InputModuleID and InputID address the destination port.
	InputModuleID int64
	InputID       int

	// resolved by the engine while the cable is registered
	outputModule rack.Module
	inputModule  rack.Module
}

// route copies the source output into the destination input for the
// block. Runs under read access; the destination slot is written by
// this cable only.
func (c *Cable) route(frames int) {
	out := c.outputModule.ModuleCore().Output(c.OutputID)
	in := c.inputModule.ModuleCore().Input(c.InputID)
	copy(in[:frames], out[:frames])
}
