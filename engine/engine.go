/*
Package engine advances a rack graph in time.

The Engine owns the module and cable collections and steps them one
block of frames at a time. Stepping is driven either by a master module
(a module wrapping a real-time clock such as an audio interface) or by
the fallback goroutine started with StartFallbackThread.

Engine contains a reader/writer lock that guards the graph. Methods
that read-lock (stated in their documentation) can be called
simultaneously with other read-locking methods. Methods that write-lock
cannot be called simultaneously with any read- or write-locking method.
StepBlock read-locks and additionally excludes other StepBlock calls.
*/
package engine

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/dudk/rack"
	"github.com/dudk/rack/internal/ident"
	"github.com/dudk/rack/metric"
)

const (
	defaultSampleRate = 44100
	defaultBlockSize  = 512

	// smoothLambda is the per-second rate of parameter smoothing.
	smoothLambda = 60.0
	// meterWindow is the length of one meter aggregation window, in
	// seconds of signal time.
	meterWindow = 1.0
)

type inputKey struct {
	moduleID int64
	inputID  int
}

type handleKey struct {
	moduleID int64
	paramID  int
}

// Engine manages modules and cables and steps them in time. Use New to
// create one and Close to release its goroutines.
//
// The engine holds non-owning references only: callers retain ownership
// of modules, cables and param handles and must remove an entity before
// discarding it.
type Engine struct {
	uid  string
	log  logrus.FieldLogger
	lock *rwLock

	// step exclusion: two blocks are never stepped at once
	stepMu sync.Mutex

	pool    *workerPool
	workers int

	// collections, guarded by lock
	modules      map[int64]rack.Module
	moduleCache  []rack.Module // insertion order
	moduleIDs    ident.Registry
	cables       map[int64]*Cable
	cableCache   []*Cable // insertion order
	cableIDs     ident.Registry
	inputs       map[inputKey]*Cable
	handles      map[*ParamHandle]struct{}
	handleTarget map[handleKey]*ParamHandle
	master       rack.Module

	// timing, atomics readable without the lock
	sampleRate     atomic.Uint32 // float32 bits
	autoSampleRate bool
	blockSize      int
	block          atomic.Int64
	frame          atomic.Int64
	blockFrame     atomic.Int64
	blockTime      atomic.Uint64 // float64 bits
	blockFrames    atomic.Int64
	blockDuration  atomic.Uint64 // float64 bits
	created        time.Time
	args           rack.ProcessArgs
	meter          meter

	metric *metric.Engine

	// fallback stepping
	fbOnce  sync.Once
	fbStop  chan struct{}
	fbKick  chan struct{}
	fbWG    sync.WaitGroup
	closing sync.Once
}

// Option provides a way to set functional parameters to the engine.
type Option func(e *Engine)

// WithSampleRate fixes the sample rate. Without this option the engine
// runs at 44100 Hz and follows SetSuggestedSampleRate.
func WithSampleRate(sampleRate float32) Option {
	return func(e *Engine) {
		e.sampleRate.Store(math.Float32bits(sampleRate))
		e.autoSampleRate = false
	}
}

// WithBlockSize sets the frame count the fallback thread steps with.
func WithBlockSize(frames int) Option {
	return func(e *Engine) {
		e.blockSize = frames
	}
}

// WithWorkers sets the number of extra worker goroutines used to
// process modules. Zero means all processing happens on the stepping
// thread. Defaults to the number of CPUs minus one.
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		e.workers = workers
	}
}

// WithLogger sets logger to the engine. If this option is not
// provided, a silent logger is used.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}

// WithMetric publishes engine counters through the metric package.
func WithMetric(m *metric.Engine) Option {
	return func(e *Engine) {
		e.metric = m
	}
}

// New creates a new engine and applies provided options.
func New(options ...Option) *Engine {
	e := &Engine{
		uid:            xid.New().String(),
		lock:           newRWLock(),
		workers:        runtime.NumCPU() - 1,
		modules:        make(map[int64]rack.Module),
		cables:         make(map[int64]*Cable),
		inputs:         make(map[inputKey]*Cable),
		handles:        make(map[*ParamHandle]struct{}),
		handleTarget:   make(map[handleKey]*ParamHandle),
		autoSampleRate: true,
		blockSize:      defaultBlockSize,
		created:        time.Now(),
		fbStop:         make(chan struct{}),
		fbKick:         make(chan struct{}, 1),
	}
	e.sampleRate.Store(math.Float32bits(defaultSampleRate))
	for _, option := range options {
		option(e)
	}
	if e.log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		e.log = silent
	}
	e.log = e.log.WithField("engine", e.uid)
	if e.workers < 0 {
		e.workers = 0
	}
	e.pool = newWorkerPool(e.workers, e.processModule)
	return e
}

// UID returns the engine instance identifier used in logs and metrics.
func (e *Engine) UID() string {
	return e.uid
}

// Close stops the fallback thread and the worker pool. The graph is
// left intact; modules remain owned by their creators.
func (e *Engine) Close() error {
	e.closing.Do(func() {
		close(e.fbStop)
	})
	e.fbWG.Wait()
	e.pool.close()
	return nil
}

// StepBlock advances the engine by frames frames. Concurrent callers
// serialize, only one block is stepped at a time. A recursive call
// from within a module's Process is a contract violation that panics:
// letting it block would deadlock the barrier of the outer block.
//
// Read-locks. Also locks so only one StepBlock runs at a time.
func (e *Engine) StepBlock(frames int) {
	if frames <= 0 {
		return
	}
	if e.pool.processing() {
		panic("engine: recursive StepBlock from module processing")
	}
	e.stepMu.Lock()
	defer e.stepMu.Unlock()
	e.lock.lockRead()
	defer e.lock.unlockRead()

	start := time.Now()
	sampleRate := e.SampleRate()
	sampleTime := 1 / sampleRate
	blockFrame := e.frame.Load()
	duration := float64(frames) * float64(sampleTime)
	e.blockFrame.Store(blockFrame)
	e.blockTime.Store(math.Float64bits(time.Since(e.created).Seconds()))
	e.blockFrames.Store(int64(frames))
	e.blockDuration.Store(math.Float64bits(duration))

	for _, m := range e.moduleCache {
		m.ModuleCore().EnsureFrames(frames)
	}

	// fan module processing out across the pool and wait for the
	// barrier
	e.args = rack.ProcessArgs{
		SampleRate: sampleRate,
		SampleTime: sampleTime,
		Frame:      blockFrame,
		Frames:     frames,
	}
	e.pool.process(e.moduleCache)

	// advance pending parameter smoothing
	factor := float32(smoothLambda * duration)
	if factor > 1 {
		factor = 1
	}
	for _, m := range e.moduleCache {
		c := m.ModuleCore()
		for i := 0; i < c.NumParams(); i++ {
			c.Param(i).Advance(factor)
		}
	}

	// route cable signal; every cable writes a disjoint input slot
	for _, cable := range e.cableCache {
		cable.route(frames)
	}

	e.frame.Add(int64(frames))
	e.block.Add(1)

	elapsed := time.Since(start)
	e.meter.update(elapsed.Seconds(), duration)
	if e.metric != nil {
		e.metric.Block(frames, sampleRate, elapsed)
	}
}

// processModule runs one module for the current block. A panic in the
// module is contained: the module is marked faulted and skipped until
// the fault is cleared by a reset.
func (e *Engine) processModule(m rack.Module) {
	c := m.ModuleCore()
	if c.Bypassed() || c.Faulted() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.SetFaulted(true)
			e.log.WithField("module", c.ID()).Errorf("process panic: %v", r)
		}
	}()
	m.Process(e.args)
}

// YieldWorkers causes the stepping barrier to block instead of
// polling. Call this from a module's Process to hint that the block
// will take longer than usual.
func (e *Engine) YieldWorkers() {
	e.pool.yieldWorkers()
}

// Clear removes all modules and cables. Write-locks.
func (e *Engine) Clear() {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	e.clearNoLock()
	e.log.Debug("cleared")
}

func (e *Engine) clearNoLock() {
	for h := range e.handles {
		h.set(nil, rack.AutoID, 0)
	}
	for _, c := range e.cableCache {
		c.outputModule, c.inputModule = nil, nil
	}
	e.modules = make(map[int64]rack.Module)
	e.moduleCache = nil
	e.cables = make(map[int64]*Cable)
	e.cableCache = nil
	e.inputs = make(map[inputKey]*Cable)
	e.handleTarget = make(map[handleKey]*ParamHandle)
	e.moduleIDs.Clear()
	e.cableIDs.Clear()
	e.setMasterNoLock(nil)
}

// Modules

// NumModules returns the number of registered modules. Read-locks.
func (e *Engine) NumModules() int {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	return len(e.modules)
}

// FillModuleIDs fills ids with up to len(ids) module identifiers in
// insertion order and returns the number written. Does not allocate.
// Read-locks.
func (e *Engine) FillModuleIDs(ids []int64) int {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	n := 0
	for _, m := range e.moduleCache {
		if n == len(ids) {
			break
		}
		ids[n] = m.ModuleCore().ID()
		n++
	}
	return n
}

// ModuleIDs returns the identifiers of all registered modules in
// insertion order. Read-locks.
func (e *Engine) ModuleIDs() []int64 {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	ids := make([]int64, 0, len(e.moduleCache))
	for _, m := range e.moduleCache {
		ids = append(ids, m.ModuleCore().ID())
	}
	return ids
}

// AddModule adds a module to the rack and assigns its identifier. The
// identifier requested through the module core must not be taken;
// rack.AutoID picks a free one. Does not transfer ownership.
// Write-locks.
func (e *Engine) AddModule(m rack.Module) error {
	c := m.ModuleCore()
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	id, err := e.moduleIDs.Allocate(c.ID())
	if err != nil {
		return fmt.Errorf("add module %d: %w", c.ID(), err)
	}
	c.SetID(id)
	e.modules[id] = m
	e.moduleCache = append(e.moduleCache, m)
	// resolve handles already pointing at this identifier
	for key, h := range e.handleTarget {
		if key.moduleID == id {
			h.setModule(m)
		}
	}
	if l, ok := m.(rack.SampleRateListener); ok {
		sr := e.SampleRate()
		l.SampleRateChange(sr, 1/sr)
	}
	e.log.WithField("module", id).Debug("module added")
	return nil
}

// RemoveModule removes a module from the rack, removing every cable
// connected to it and unsetting every param handle bound to it first.
// If the module is the master module, the master is unset.
// Write-locks.
func (e *Engine) RemoveModule(m rack.Module) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	return e.removeModuleNoLock(m)
}

func (e *Engine) removeModuleNoLock(m rack.Module) error {
	id := m.ModuleCore().ID()
	if e.modules[id] != m {
		return fmt.Errorf("remove module %d: %w", id, ErrNotRegistered)
	}
	// cables first: no cable may reference an unregistered module
	cables := append([]*Cable(nil), e.cableCache...)
	for _, c := range cables {
		if c.OutputModuleID == id || c.InputModuleID == id {
			e.removeCableNoLock(c)
		}
	}
	for key, h := range e.handleTarget {
		if key.moduleID == id {
			h.setModule(nil)
		}
	}
	if e.master == m {
		e.setMasterNoLock(nil)
	}
	delete(e.modules, id)
	e.moduleCache = removeModuleCached(e.moduleCache, m)
	e.moduleIDs.Release(id)
	e.log.WithField("module", id).Debug("module removed")
	return nil
}

// HasModule checks whether the module is in the rack. Read-locks.
func (e *Engine) HasModule(m rack.Module) bool {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	return e.modules[m.ModuleCore().ID()] == m
}

// Module returns the module with the given identifier, nil when not
// registered. Read-locks.
func (e *Engine) Module(id int64) rack.Module {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	return e.modules[id]
}

// ResetModule dispatches a reset to the module and clears its fault
// flag. Write-locks, so no step observes a half-reset module.
func (e *Engine) ResetModule(m rack.Module) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	id := m.ModuleCore().ID()
	if e.modules[id] != m {
		return fmt.Errorf("reset module %d: %w", id, ErrNotRegistered)
	}
	if r, ok := m.(rack.Resetter); ok {
		r.Reset()
	}
	m.ModuleCore().SetFaulted(false)
	e.log.WithField("module", id).Debug("module reset")
	return nil
}

// RandomizeModule dispatches a randomize to the module. Write-locks.
func (e *Engine) RandomizeModule(m rack.Module) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	id := m.ModuleCore().ID()
	if e.modules[id] != m {
		return fmt.Errorf("randomize module %d: %w", id, ErrNotRegistered)
	}
	if r, ok := m.(rack.Randomizer); ok {
		r.Randomize()
	}
	return nil
}

// BypassModule sets the bypass state of the module and notifies it. A
// freshly bypassed module's outputs are zeroed so downstream modules
// receive silence. Write-locks.
func (e *Engine) BypassModule(m rack.Module, bypassed bool) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	c := m.ModuleCore()
	id := c.ID()
	if e.modules[id] != m {
		return fmt.Errorf("bypass module %d: %w", id, ErrNotRegistered)
	}
	if c.Bypassed() == bypassed {
		return nil
	}
	c.SetBypassed(bypassed)
	if bypassed {
		for i := 0; i < c.NumOutputs(); i++ {
			out := c.Output(i)
			for j := range out {
				out[j] = 0
			}
		}
	}
	if b, ok := m.(rack.Bypasser); ok {
		b.Bypass(bypassed)
	}
	return nil
}

// Cables

// NumCables returns the number of registered cables. Read-locks.
func (e *Engine) NumCables() int {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	return len(e.cables)
}

// FillCableIDs fills ids with up to len(ids) cable identifiers in
// insertion order and returns the number written. Does not allocate.
// Read-locks.
func (e *Engine) FillCableIDs(ids []int64) int {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	n := 0
	for _, c := range e.cableCache {
		if n == len(ids) {
			break
		}
		ids[n] = c.ID
		n++
	}
	return n
}

// CableIDs returns the identifiers of all registered cables in
// insertion order. Read-locks.
func (e *Engine) CableIDs() []int64 {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	ids := make([]int64, 0, len(e.cableCache))
	for _, c := range e.cableCache {
		ids = append(ids, c.ID)
	}
	return ids
}

// AddCable adds a cable to the rack and assigns its identifier. Both
// endpoints must be registered modules with valid port indices, and
// the destination input must not be fed by another cable. Does not
// transfer ownership. Write-locks.
func (e *Engine) AddCable(c *Cable) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	out, ok := e.modules[c.OutputModuleID]
	if !ok {
		return fmt.Errorf("add cable: output module %d: %w", c.OutputModuleID, ErrNotRegistered)
	}
	in, ok := e.modules[c.InputModuleID]
	if !ok {
		return fmt.Errorf("add cable: input module %d: %w", c.InputModuleID, ErrNotRegistered)
	}
	if c.OutputID < 0 || c.OutputID >= out.ModuleCore().NumOutputs() {
		return fmt.Errorf("add cable: output %d of module %d: %w", c.OutputID, c.OutputModuleID, ErrInvalidPort)
	}
	if c.InputID < 0 || c.InputID >= in.ModuleCore().NumInputs() {
		return fmt.Errorf("add cable: input %d of module %d: %w", c.InputID, c.InputModuleID, ErrInvalidPort)
	}
	key := inputKey{c.InputModuleID, c.InputID}
	if _, ok := e.inputs[key]; ok {
		return fmt.Errorf("add cable: input %d of module %d: %w", c.InputID, c.InputModuleID, ErrInputTaken)
	}
	id, err := e.cableIDs.Allocate(c.ID)
	if err != nil {
		return fmt.Errorf("add cable %d: %w", c.ID, err)
	}
	c.ID = id
	c.outputModule = out
	c.inputModule = in
	e.cables[id] = c
	e.cableCache = append(e.cableCache, c)
	e.inputs[key] = c
	e.log.WithField("cable", id).Debug("cable added")
	return nil
}

// RemoveCable removes a cable from the rack and zeroes the input port
// it fed. Write-locks.
func (e *Engine) RemoveCable(c *Cable) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	if e.cables[c.ID] != c {
		return fmt.Errorf("remove cable %d: %w", c.ID, ErrNotRegistered)
	}
	e.removeCableNoLock(c)
	return nil
}

func (e *Engine) removeCableNoLock(c *Cable) {
	delete(e.cables, c.ID)
	delete(e.inputs, inputKey{c.InputModuleID, c.InputID})
	e.cableCache = removeCableCached(e.cableCache, c)
	c.inputModule.ModuleCore().ZeroInput(c.InputID)
	c.outputModule, c.inputModule = nil, nil
	e.cableIDs.Release(c.ID)
	e.log.WithField("cable", c.ID).Debug("cable removed")
}

// HasCable checks whether the cable is in the rack. Read-locks.
func (e *Engine) HasCable(c *Cable) bool {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	return e.cables[c.ID] == c
}

// Cable returns the cable with the given identifier, nil when not
// registered. Read-locks.
func (e *Engine) Cable(id int64) *Cable {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	return e.cables[id]
}

// Params

// ParamValue returns the current value of the module parameter, 0 when
// the index is out of range.
func (e *Engine) ParamValue(m rack.Module, paramID int) float32 {
	if p := m.ModuleCore().Param(paramID); p != nil {
		return p.Value()
	}
	return 0
}

// SetParamValue sets the parameter immediately, cancelling pending
// smoothing.
func (e *Engine) SetParamValue(m rack.Module, paramID int, value float32) {
	if p := m.ModuleCore().Param(paramID); p != nil {
		p.SetValue(value)
	}
}

// SetParamSmoothValue requests the parameter to smoothly change toward
// value over the next blocks.
func (e *Engine) SetParamSmoothValue(m rack.Module, paramID int, value float32) {
	if p := m.ModuleCore().Param(paramID); p != nil {
		p.SetSmoothValue(value)
	}
}

// ParamSmoothValue returns the target value before smoothing.
func (e *Engine) ParamSmoothValue(m rack.Module, paramID int) float32 {
	if p := m.ModuleCore().Param(paramID); p != nil {
		return p.SmoothValue()
	}
	return 0
}

// ParamHandles

// AddParamHandle registers a param handle. The handle is not pointed
// at its target until UpdateParamHandle is called. Write-locks.
func (e *Engine) AddParamHandle(h *ParamHandle) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	if _, ok := e.handles[h]; ok {
		return fmt.Errorf("add param handle: %w", ErrRegistered)
	}
	e.handles[h] = struct{}{}
	return nil
}

// RemoveParamHandle unregisters a param handle and clears its module
// reference. Write-locks.
func (e *Engine) RemoveParamHandle(h *ParamHandle) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	if _, ok := e.handles[h]; !ok {
		return fmt.Errorf("remove param handle: %w", ErrNotRegistered)
	}
	delete(e.handles, h)
	key := handleKey{h.ModuleID(), h.ParamID()}
	if e.handleTarget[key] == h {
		delete(e.handleTarget, key)
	}
	h.setModule(nil)
	return nil
}

// ParamHandle returns the unique registered handle bound to the
// (module, parameter) pair, nil when there is none. Read-locks.
func (e *Engine) ParamHandle(moduleID int64, paramID int) *ParamHandle {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	return e.handleTarget[handleKey{moduleID, paramID}]
}

// UpdateParamHandle points a registered handle at a new (module,
// parameter) pair. If another handle already holds the pair it is
// unset when overwrite is true, otherwise the handle is left unbound.
// A negative moduleID unbinds the handle. Write-locks.
func (e *Engine) UpdateParamHandle(h *ParamHandle, moduleID int64, paramID int, overwrite bool) error {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	if _, ok := e.handles[h]; !ok {
		return fmt.Errorf("update param handle: %w", ErrNotRegistered)
	}
	oldKey := handleKey{h.ModuleID(), h.ParamID()}
	if e.handleTarget[oldKey] == h {
		delete(e.handleTarget, oldKey)
	}
	h.set(nil, moduleID, paramID)
	if moduleID < 0 {
		return nil
	}
	key := handleKey{moduleID, paramID}
	if other, ok := e.handleTarget[key]; ok && other != h {
		if !overwrite {
			return nil
		}
		other.set(nil, rack.AutoID, 0)
	}
	e.handleTarget[key] = h
	if m, ok := e.modules[moduleID]; ok {
		h.setModule(m)
	}
	return nil
}

// Master module

// SetMasterModule designates the module driving StepBlock in real
// time. The module does not need to belong to the engine, but the
// master is unset when it is removed. While a master is set the
// fallback thread is parked; nil unsets the master and resumes it.
// Write-locks.
func (e *Engine) SetMasterModule(m rack.Module) {
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	e.setMasterNoLock(m)
}

func (e *Engine) setMasterNoLock(m rack.Module) {
	if e.master == m {
		return
	}
	e.master = m
	select {
	case e.fbKick <- struct{}{}:
	default:
	}
}

// MasterModule returns the designated master module, nil when none is
// set. Read-locks.
func (e *Engine) MasterModule() rack.Module {
	e.lock.lockRead()
	defer e.lock.unlockRead()
	return e.master
}

// Timing

// SampleRate returns the sample rate used for stepping each module.
func (e *Engine) SampleRate() float32 {
	return math.Float32frombits(e.sampleRate.Load())
}

// SampleTime returns the inverse of the current sample rate.
func (e *Engine) SampleTime() float32 {
	return 1 / e.SampleRate()
}

// SetSuggestedSampleRate sets the sample rate unless it was fixed with
// WithSampleRate. Write-locks.
func (e *Engine) SetSuggestedSampleRate(sampleRate float32) {
	if !e.autoSampleRate {
		return
	}
	e.lock.lockWrite()
	defer e.lock.unlockWrite()
	e.setSampleRateNoLock(sampleRate)
}

func (e *Engine) setSampleRateNoLock(sampleRate float32) {
	if e.SampleRate() == sampleRate {
		return
	}
	e.sampleRate.Store(math.Float32bits(sampleRate))
	for _, m := range e.moduleCache {
		if l, ok := m.(rack.SampleRateListener); ok {
			l.SampleRateChange(sampleRate, 1/sampleRate)
		}
	}
	e.log.WithField("sampleRate", sampleRate).Debug("sample rate changed")
}

// Block returns the number of StepBlock calls since the engine was
// created.
func (e *Engine) Block() int64 {
	return e.block.Load()
}

// Frame returns the frame counter. Not necessarily monotonic, it can
// be reset at any time with SetFrame.
func (e *Engine) Frame() int64 {
	return e.frame.Load()
}

// SetFrame sets the frame counter, for transport relocation.
func (e *Engine) SetFrame(frame int64) {
	e.frame.Store(frame)
}

// BlockFrame returns the frame at which the current block started.
func (e *Engine) BlockFrame() int64 {
	return e.blockFrame.Load()
}

// BlockTime returns the time in seconds since engine creation at which
// the current block started.
func (e *Engine) BlockTime() float64 {
	return math.Float64frombits(e.blockTime.Load())
}

// BlockFrames returns the frame count of the current block.
func (e *Engine) BlockFrames() int {
	return int(e.blockFrames.Load())
}

// BlockDuration returns the signal time the current block advances, in
// seconds.
func (e *Engine) BlockDuration() float64 {
	return math.Float64frombits(e.blockDuration.Load())
}

// MeterAverage returns the average of (block processing time / block
// duration) over the last aggregation window.
func (e *Engine) MeterAverage() float64 {
	return e.meter.average()
}

// MeterMax returns the maximum of (block processing time / block
// duration) over the last aggregation window.
func (e *Engine) MeterMax() float64 {
	return e.meter.maximum()
}

// meter aggregates the performance ratio over windows of signal time.
type meter struct {
	mu     sync.Mutex
	window float64
	total  float64
	count  int
	max    float64
	avg    float64
	peak   float64
}

func (m *meter) update(processing, duration float64) {
	if duration <= 0 {
		return
	}
	ratio := processing / duration
	m.mu.Lock()
	m.total += ratio
	m.count++
	if ratio > m.max {
		m.max = ratio
	}
	m.window += duration
	if m.window >= meterWindow {
		m.avg = m.total / float64(m.count)
		m.peak = m.max
		m.window, m.total, m.count, m.max = 0, 0, 0, 0
	}
	m.mu.Unlock()
}

func (m *meter) average() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.avg
}

func (m *meter) maximum() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

func removeModuleCached(cache []rack.Module, m rack.Module) []rack.Module {
	for i, cached := range cache {
		if cached == m {
			return append(cache[:i], cache[i+1:]...)
		}
	}
	return cache
}

func removeCableCached(cache []*Cable, c *Cable) []*Cable {
	for i, cached := range cache {
		if cached == c {
			return append(cache[:i], cache[i+1:]...)
		}
	}
	return cache
}
