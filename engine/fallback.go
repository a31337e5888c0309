package engine

import "time"

// StartFallbackThread starts the goroutine that steps blocks using the
// wall clock while no master module is set. It parks itself as soon as
// a master module is designated and resumes when the master is unset.
// Safe to call once per engine; Close stops it.
func (e *Engine) StartFallbackThread() {
	e.fbOnce.Do(func() {
		e.fbWG.Add(1)
		go e.fallbackLoop()
	})
}

func (e *Engine) fallbackLoop() {
	defer e.fbWG.Done()
	e.log.Debug("fallback thread started")
	for {
		select {
		case <-e.fbStop:
			return
		default:
		}
		if e.MasterModule() != nil {
			// parked until the master module is unset
			select {
			case <-e.fbStop:
				return
			case <-e.fbKick:
			}
			continue
		}
		start := time.Now()
		e.StepBlock(e.blockSize)
		period := time.Duration(float64(e.blockSize) / float64(e.SampleRate()) * float64(time.Second))
		if sleep := period - time.Since(start); sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-e.fbStop:
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}
}
