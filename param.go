package rack

import (
	"math"
	"sync/atomic"
)

// smoothTolerance is the distance at which a smoothed parameter snaps
// to its target.
const smoothTolerance = 1e-4

// Param is a single module parameter. The current value is what
// processing consumes; a smoothing target, when set, is approached by
// the engine block by block until the value snaps to it.
//
// Values are stored atomically so that a UI thread may read and write
// parameters while the engine is processing, without taking the engine
// lock.
type Param struct {
	value     atomic.Uint32
	target    atomic.Uint32
	smoothing atomic.Bool
}

// Value returns the current parameter value.
func (p *Param) Value() float32 {
	return math.Float32frombits(p.value.Load())
}

// SetValue sets the parameter immediately and cancels any pending
// smoothing.
func (p *Param) SetValue(value float32) {
	p.smoothing.Store(false)
	p.value.Store(math.Float32bits(value))
}

// SetSmoothValue requests the parameter to change smoothly toward
// target.
func (p *Param) SetSmoothValue(target float32) {
	if p.Value() == target {
		p.smoothing.Store(false)
		return
	}
	p.target.Store(math.Float32bits(target))
	p.smoothing.Store(true)
}

// SmoothValue returns the smoothing target, or the current value when
// no smoothing is pending.
func (p *Param) SmoothValue() float32 {
	if p.smoothing.Load() {
		return math.Float32frombits(p.target.Load())
	}
	return p.Value()
}

// Smoothing reports whether a smoothing target is pending.
func (p *Param) Smoothing() bool {
	return p.smoothing.Load()
}

// Advance moves the value toward the target by the given factor in
// [0, 1]. Called by the engine once per block; a factor of 1 reaches
// the target immediately. The approach is monotonic, the value never
// overshoots the target.
func (p *Param) Advance(factor float32) {
	if !p.smoothing.Load() {
		return
	}
	value := p.Value()
	target := math.Float32frombits(p.target.Load())
	delta := target - value
	if delta >= -smoothTolerance && delta <= smoothTolerance {
		p.value.Store(math.Float32bits(target))
		p.smoothing.Store(false)
		return
	}
	p.value.Store(math.Float32bits(value + delta*factor))
}
