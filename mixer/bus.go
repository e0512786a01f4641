// SPDX-License-Identifier: EPL-2.0

package mixer

import "sync/atomic"

// Bus is the master stage every track sums into. A Mixer owns exactly one
// and hands the pointer to each of its tracks.
type Bus struct {
	volume   *param
	muted    atomic.Bool
	analyzer *Analyzer
}

func newBus(cfg Config) *Bus {
	return &Bus{
		volume:   newParam(1),
		analyzer: NewAnalyzer(cfg.FFTSize, cfg.Smoothing),
	}
}

// gain is the effective master gain with the mute overlay applied.
func (b *Bus) gain() float32 {
	if b.muted.Load() {
		return 0
	}

	return float32(b.volume.Load())
}

// apply scales the mix by the master gain and feeds the meter when one is
// given.
func (b *Bus) apply(mix []float32, meter *Analyzer) {
	g := b.gain()
	if g != 1 {
		for i := range mix {
			mix[i] *= g
		}
	}
	if meter != nil {
		meter.Write(mix, outputChannels)
	}
}
