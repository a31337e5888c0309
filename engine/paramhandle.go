package engine

import (
	"sync"

	"github.com/dudk/rack"
)

// ParamHandle binds an external observer, typically a UI widget, to a
// (module, parameter) pair. At most one registered handle may point at
// a given pair; UpdateParamHandle with overwrite replaces the previous
// holder.
//
// The module reference is maintained by the engine: it is set while the
// target module is registered and cleared automatically when the module
// is removed, so a handle never dangles.
type ParamHandle struct {
	mu       sync.Mutex
	moduleID int64
	paramID  int
	module   rack.Module

	// Text is a free-form label for the observer, not interpreted by
	// the engine.
	Text string
}

// NewParamHandle returns a handle pointing at the given pair. The
// handle is inert until registered with Engine.AddParamHandle.
func NewParamHandle(moduleID int64, paramID int) *ParamHandle {
	return &ParamHandle{moduleID: moduleID, paramID: paramID}
}

// ModuleID returns the target module identifier.
func (h *ParamHandle) ModuleID() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moduleID
}

// ParamID returns the target parameter index.
func (h *ParamHandle) ParamID() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paramID
}

// Module returns the resolved target module, nil while the target is
// not registered in the engine.
func (h *ParamHandle) Module() rack.Module {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.module
}

func (h *ParamHandle) set(module rack.Module, moduleID int64, paramID int) {
	h.mu.Lock()
	h.module = module
	h.moduleID = moduleID
	h.paramID = paramID
	h.mu.Unlock()
}

func (h *ParamHandle) setModule(module rack.Module) {
	h.mu.Lock()
	h.module = module
	h.mu.Unlock()
}
