// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"time"
)

// maxCatchUp bounds how many quanta one tick may render after a stall.
const maxCatchUp = 8

// run drives the render timeline. Each tick renders as many quanta as the
// wall clock says are due; a longer stall is dropped rather than replayed.
func (m *Mixer) run() {
	defer m.wg.Done()

	q := m.cfg.quantumFrames()
	mix := make([]float32, q*outputChannels)
	scratch := make([]float32, q*outputChannels)

	ticker := time.NewTicker(m.cfg.Quantum)
	defer ticker.Stop()

	start := time.Now()
	var lastErr string
	for {
		select {
		case <-m.quit:
			return
		case now := <-ticker.C:
			due := int64(now.Sub(start).Seconds() * float64(m.cfg.SampleRate))
			rendered := m.Now()
			if behind := due - rendered; behind > int64(maxCatchUp*q) {
				start = start.Add(time.Duration(float64(behind-int64(q)) / float64(m.cfg.SampleRate) * float64(time.Second)))
				due = rendered + int64(q)
			}

			for m.Now()+int64(q) <= due {
				m.renderQuantum(mix, scratch, q)
				if err := m.sink.Write(mix); err != nil {
					// one line per distinct failure
					if msg := err.Error(); msg != lastErr {
						m.log.Warn("sink write failed", "error", err)
						lastErr = msg
					}
				} else {
					lastErr = ""
				}
				m.frame.Add(int64(q))
			}
		}
	}
}

// renderQuantum mixes n frames at the current timeline position into mix
// and runs the master stages over it.
func (m *Mixer) renderQuantum(mix, scratch []float32, n int) {
	clear(mix)

	tracks := m.snapshot()
	solo := soloActive(tracks)
	base := m.Now()
	for _, t := range tracks {
		t.render(mix, scratch, base, n, solo)
	}

	m.bus.apply(mix, m.bus.analyzer)
}

func soloActive(tracks []*Track) bool {
	for _, t := range tracks {
		if t.soloed.Load() {
			return true
		}
	}

	return false
}

// tick delivers the elapsed time to listeners until stop is closed.
func (m *Mixer) tick(stop <-chan struct{}) {
	ticker := time.NewTicker(m.cfg.TimeUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-m.quit:
			return
		case <-ticker.C:
			elapsed := m.SecondsElapsed()

			m.mu.RLock()
			listeners := m.listeners
			m.mu.RUnlock()

			for _, cb := range listeners {
				cb(elapsed)
			}
		}
	}
}
