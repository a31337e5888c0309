// Package metric publishes engine counters through expvar. One Engine
// metric is created per engine instance, keyed by the engine uid, so
// multiple engines in one process stay distinguishable.
package metric

import (
	"expvar"
	"fmt"
	"sync/atomic"
	"time"
)

const engineLabel = "rack.engine"

const (
	// BlockCounter counts stepped blocks.
	BlockCounter = "Blocks"
	// FrameCounter counts advanced frames.
	FrameCounter = "Frames"
	// ProcessingCounter accumulates block processing time.
	ProcessingCounter = "Processing"
	// AdvancedCounter accumulates advanced signal time.
	AdvancedCounter = "Advanced"
)

var counters = []string{
	BlockCounter,
	FrameCounter,
	ProcessingCounter,
	AdvancedCounter,
}

// Engine captures counters of a single engine instance.
type Engine struct {
	blocks     *expvar.Int
	frames     *expvar.Int
	processing *duration
	advanced   *duration
}

// NewEngine publishes counters for the engine with the provided uid.
// The uid must be unique within the process.
func NewEngine(uid string) *Engine {
	e := &Engine{
		blocks:     expvar.NewInt(key(uid, BlockCounter)),
		frames:     expvar.NewInt(key(uid, FrameCounter)),
		processing: &duration{},
		advanced:   &duration{},
	}
	expvar.Publish(key(uid, ProcessingCounter), e.processing)
	expvar.Publish(key(uid, AdvancedCounter), e.advanced)
	return e
}

// Block records one stepped block.
func (e *Engine) Block(frames int, sampleRate float32, elapsed time.Duration) {
	e.blocks.Add(1)
	e.frames.Add(int64(frames))
	e.processing.add(elapsed)
	e.advanced.add(time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second)))
}

// Get returns the current counter values for the engine with the
// provided uid.
func Get(uid string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(uid, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

func key(uid, counter string) string {
	return fmt.Sprintf("%s.%s.%s", engineLabel, uid, counter)
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%q", time.Duration(atomic.LoadInt64(&v.d)).String())
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}
