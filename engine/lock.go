package engine

import "sync"

// rwLock guards the module/cable/param-handle collections and module
// processing.
//
// Read access is shared: traversal, inspection and the processing step
// itself all read-lock, since processing only reads graph topology and
// mutates per-module state that no other reader touches. Write access
// is exclusive and is used for every structural mutation. Queued
// writers block new readers, so a burst of steps cannot starve a
// pending mutation.
//
// Waiters block on condition variables instead of spinning. Step
// exclusion (two blocks never being stepped at once) is a separate
// layer owned by the Engine, not by this lock.
type rwLock struct {
	mu        sync.Mutex
	readDone  *sync.Cond // a reader released, or a writer finished
	writeDone *sync.Cond // no more queued writers
	readers   int        // active readers
	writers   int        // queued plus active writers
	writing   bool       // a writer holds the lock
}

func newRWLock() *rwLock {
	l := &rwLock{}
	l.readDone = sync.NewCond(&l.mu)
	l.writeDone = sync.NewCond(&l.mu)
	return l
}

func (l *rwLock) lockRead() {
	l.mu.Lock()
	for l.writers > 0 {
		l.writeDone.Wait()
	}
	l.readers++
	l.mu.Unlock()
}

func (l *rwLock) unlockRead() {
	l.mu.Lock()
	l.readers--
	if l.readers == 0 {
		l.readDone.Broadcast()
	}
	l.mu.Unlock()
}

func (l *rwLock) lockWrite() {
	l.mu.Lock()
	l.writers++
	for l.readers > 0 || l.writing {
		l.readDone.Wait()
	}
	l.writing = true
	l.mu.Unlock()
}

func (l *rwLock) unlockWrite() {
	l.mu.Lock()
	l.writing = false
	l.writers--
	l.readDone.Broadcast()
	if l.writers == 0 {
		l.writeDone.Broadcast()
	}
	l.mu.Unlock()
}
