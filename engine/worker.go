package engine

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/dudk/rack"
)

// stepSpin is the number of scheduler yields the stepping thread spends
// polling for block completion before falling back to a blocking wait.
const stepSpin = 2048

// workerPool fans per-module processing out across a fixed set of
// goroutines. The unit of work is one module for one block; a module's
// own processing stays single-threaded.
//
// The stepping thread submits work with process and participates
// itself: when every worker is busy, the next module is processed
// inline. process does not return until every module dispatched for the
// block has completed, which is the barrier the stepping algorithm
// relies on before parameter smoothing and cable routing. With zero
// workers the pool degrades to purely single-threaded operation.
type workerPool struct {
	fn      func(rack.Module)
	tasks   chan rack.Module
	pending atomic.Int64
	donec   chan struct{} // signaled when pending drops to zero
	yield   atomic.Bool
	quit    chan struct{}
	wg      sync.WaitGroup

	// goroutines that execute module processing: the workers for their
	// whole lifetime, the stepping goroutine for the span of one block.
	// Lets a recursive step from inside a module's Process be told
	// apart from an unrelated concurrent caller.
	processors sync.Map
}

func newWorkerPool(workers int, fn func(rack.Module)) *workerPool {
	p := &workerPool{
		fn:    fn,
		tasks: make(chan rack.Module),
		donec: make(chan struct{}, 1),
		quit:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *workerPool) run() {
	defer p.wg.Done()
	p.processors.Store(goroutineID(), struct{}{})
	for {
		select {
		case m := <-p.tasks:
			p.runTask(m)
		case <-p.quit:
			return
		}
	}
}

func (p *workerPool) runTask(m rack.Module) {
	p.fn(m)
	if p.pending.Add(-1) == 0 {
		select {
		case p.donec <- struct{}{}:
		default:
		}
	}
}

// process distributes one block of module work and waits for the
// barrier. Resets the yield hint for the new block.
func (p *workerPool) process(modules []rack.Module) {
	if len(modules) == 0 {
		return
	}
	p.yield.Store(false)
	id := goroutineID()
	p.processors.Store(id, struct{}{})
	defer p.processors.Delete(id)
	// drain a stale completion token from the previous block
	select {
	case <-p.donec:
	default:
	}
	p.pending.Store(int64(len(modules)))
	for _, m := range modules {
		select {
		case p.tasks <- m:
		default:
			// all workers busy, pull the work onto this thread
			p.runTask(m)
		}
	}
	// barrier: poll briefly for stragglers, block once spun out or
	// when a yield was requested
	for i := 0; p.pending.Load() > 0; i++ {
		if p.yield.Load() || i >= stepSpin {
			<-p.donec
			return
		}
		runtime.Gosched()
	}
}

// processing reports whether the calling goroutine is currently
// executing module processing for this pool.
func (p *workerPool) processing() bool {
	_, ok := p.processors.Load(goroutineID())
	return ok
}

// yieldWorkers hints that the current block will take long and the
// barrier should block instead of polling.
func (p *workerPool) yieldWorkers() {
	p.yield.Store(true)
}

func (p *workerPool) close() {
	close(p.quit)
	p.wg.Wait()
}
