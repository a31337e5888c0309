package engine

import (
	"fmt"

	"github.com/dudk/rack"
	"github.com/dudk/rack/internal/ident"
	"github.com/dudk/rack/patch"
)

// ModuleFactory constructs a module for a patch module type. Module
// construction is external to the engine; the factory is how a patch
// document gets turned back into live modules.
type ModuleFactory func(typ string) (rack.Module, error)

// PrepareSave dispatches the save event to all modules, letting them
// settle internal state before serialization. Read-locks.
func (e *Engine) PrepareSave() {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	for _, m := range e.moduleCache {
		if s, ok := m.(rack.Saver); ok {
			s.Save()
		}
	}
}

// ToPatch serializes the rack into a patch document. Read-locks, so no
// module is serialized while it is being processed.
func (e *Engine) ToPatch() (*patch.Patch, error) {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	doc := &patch.Patch{SampleRate: e.SampleRate()}
	for _, m := range e.moduleCache {
		pm, err := moduleToPatch(m)
		if err != nil {
			return nil, err
		}
		doc.Modules = append(doc.Modules, pm)
	}
	for _, c := range e.cableCache {
		doc.Cables = append(doc.Cables, patch.Cable{
			ID:             c.ID,
			OutputModuleID: c.OutputModuleID,
			OutputID:       c.OutputID,
			InputModuleID:  c.InputModuleID,
			InputID:        c.InputID,
		})
	}
	return doc, nil
}

// ModuleToPatch serializes a single module with locking, ensuring its
// Process is not running at the same time. Read-locks.
func (e *Engine) ModuleToPatch(m rack.Module) (*patch.Module, error) {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	pm, err := moduleToPatch(m)
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

// ModuleFromPatch applies a patch module snapshot to a module with
// locking. Write-locks.
func (e *Engine) ModuleFromPatch(m rack.Module, pm *patch.Module) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	return moduleFromPatch(m, pm)
}

// FromPatch replaces the whole rack with the graph described by the
// document. The load is all-or-nothing: every module is constructed
// through the factory and the full document is validated before the
// live graph is touched; on failure the engine keeps its previous
// state. Write-locks.
func (e *Engine) FromPatch(doc *patch.Patch, factory ModuleFactory) error {
	// stage modules outside of the lock
	var moduleIDs ident.Registry
	staged := make(map[int64]rack.Module, len(doc.Modules))
	order := make([]rack.Module, 0, len(doc.Modules))
	for i := range doc.Modules {
		pm := &doc.Modules[i]
		m, err := factory(pm.Type)
		if err != nil {
			return fmt.Errorf("load patch: module %q: %w", pm.Type, err)
		}
		id, err := moduleIDs.Allocate(pm.ID)
		if err != nil {
			return fmt.Errorf("load patch: module %q id %d: %w (%v)", pm.Type, pm.ID, ErrPatch, err)
		}
		m.ModuleCore().SetID(id)
		if err := moduleFromPatch(m, pm); err != nil {
			return fmt.Errorf("load patch: %w", err)
		}
		staged[id] = m
		order = append(order, m)
	}

	// stage and validate cables against the staged modules
	var cableIDs ident.Registry
	stagedInputs := make(map[inputKey]struct{}, len(doc.Cables))
	cables := make([]*Cable, 0, len(doc.Cables))
	for _, pc := range doc.Cables {
		out, ok := staged[pc.OutputModuleID]
		if !ok {
			return fmt.Errorf("load patch: cable %d output module %d: %w", pc.ID, pc.OutputModuleID, ErrPatch)
		}
		in, ok := staged[pc.InputModuleID]
		if !ok {
			return fmt.Errorf("load patch: cable %d input module %d: %w", pc.ID, pc.InputModuleID, ErrPatch)
		}
		if pc.OutputID < 0 || pc.OutputID >= out.ModuleCore().NumOutputs() {
			return fmt.Errorf("load patch: cable %d output %d: %w", pc.ID, pc.OutputID, ErrInvalidPort)
		}
		if pc.InputID < 0 || pc.InputID >= in.ModuleCore().NumInputs() {
			return fmt.Errorf("load patch: cable %d input %d: %w", pc.ID, pc.InputID, ErrInvalidPort)
		}
		key := inputKey{pc.InputModuleID, pc.InputID}
		if _, ok := stagedInputs[key]; ok {
			return fmt.Errorf("load patch: cable %d: %w", pc.ID, ErrInputTaken)
		}
		stagedInputs[key] = struct{}{}
		id, err := cableIDs.Allocate(pc.ID)
		if err != nil {
			return fmt.Errorf("load patch: cable id %d: %w (%v)", pc.ID, ErrPatch, err)
		}
		cables = append(cables, &Cable{
			ID:             id,
			OutputModuleID: pc.OutputModuleID,
			OutputID:       pc.OutputID,
			InputModuleID:  pc.InputModuleID,
			InputID:        pc.InputID,
			outputModule:   out,
			inputModule:    in,
		})
	}

	// commit
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	e.clearNoLock()
	if doc.SampleRate > 0 && e.autoSampleRate {
		e.setSampleRateNoLock(doc.SampleRate)
	}
	e.moduleIDs = moduleIDs
	e.cableIDs = cableIDs
	e.modules = staged
	e.moduleCache = order
	for _, m := range order {
		if l, ok := m.(rack.SampleRateListener); ok {
			sr := e.SampleRate()
			l.SampleRateChange(sr, 1/sr)
		}
	}
	for _, c := range cables {
		e.cables[c.ID] = c
		e.cableCache = append(e.cableCache, c)
		e.inputs[inputKey{c.InputModuleID, c.InputID}] = c
	}
	e.log.WithField("modules", len(order)).WithField("cables", len(cables)).Debug("patch loaded")
	return nil
}

func moduleToPatch(m rack.Module) (patch.Module, error) {
	c := m.ModuleCore()
	pm := patch.Module{
		ID:       c.ID(),
		Type:     rack.TypeOf(m),
		Bypassed: c.Bypassed(),
	}
	for i := 0; i < c.NumParams(); i++ {
		pm.Params = append(pm.Params, patch.Param{ID: i, Value: c.Param(i).Value()})
	}
	if s, ok := m.(rack.Stater); ok {
		data, err := s.MarshalState()
		if err != nil {
			return pm, fmt.Errorf("module %d state: %w", c.ID(), err)
		}
		pm.Data = data
	}
	return pm, nil
}

func moduleFromPatch(m rack.Module, pm *patch.Module) error {
	c := m.ModuleCore()
	for _, p := range pm.Params {
		if par := c.Param(p.ID); par != nil {
			par.SetValue(p.Value)
		}
	}
	c.SetBypassed(pm.Bypassed)
	if len(pm.Data) > 0 {
		if s, ok := m.(rack.Stater); ok {
			if err := s.UnmarshalState(pm.Data); err != nil {
				return fmt.Errorf("module %d state: %w", c.ID(), err)
			}
		}
	}
	return nil
}
