// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"fmt"

	"github.com/ik5/audmix/peaks"
)

// Mixdown renders every loaded track from the start through the same gain,
// pan, mute, solo and master stages as live playback, as fast as possible,
// and writes the result to sink. It stops at the end of the longest track
// and returns the number of frames written. Live voices and meters are not
// touched and sink is not closed.
func (m *Mixer) Mixdown(ctx context.Context, sink Sink) (int64, error) {
	type lane struct {
		t *Track
		v *voice
		c *chain
	}

	var lanes []lane
	var length int64
	for _, t := range m.Tracks() {
		t.mu.Lock()
		buf := t.buf
		t.mu.Unlock()
		if buf == nil || buf.Len() == 0 {
			continue
		}

		lanes = append(lanes, lane{
			t: t,
			v: &voice{buf: buf},
			c: newChain(t.pan, nil),
		})
		length = max(length, int64(buf.Len()))
	}
	if len(lanes) == 0 {
		return 0, ErrNotLoaded
	}

	tracks := make([]*Track, len(lanes))
	for i, l := range lanes {
		tracks[i] = l.t
	}
	solo := soloActive(tracks)

	q := m.cfg.quantumFrames()
	mix := make([]float32, q*outputChannels)
	scratch := make([]float32, q*outputChannels)

	var frame int64
	for frame < length {
		if err := ctx.Err(); err != nil {
			return frame, fmt.Errorf("mixdown: %w", err)
		}

		n := int(min(int64(q), length-frame))
		out := mix[:n*outputChannels]
		clear(out)
		for _, l := range lanes {
			l.c.mix(out, scratch, l.v, frame, n, l.t.gain(solo))
		}
		m.bus.apply(out, nil)

		if err := sink.Write(out); err != nil {
			return frame, fmt.Errorf("mixdown: %w", err)
		}
		frame += int64(n)
	}

	return frame, nil
}

// MasterPeakList mixes every loaded track down and summarizes the master
// output as mono min/max pairs.
func (m *Mixer) MasterPeakList(samplesPerPixel, bits int) (*peaks.Data, error) {
	var left, right []float32
	collect := SinkFunc(func(frames []float32) error {
		for i := 0; i+1 < len(frames); i += outputChannels {
			left = append(left, frames[i])
			right = append(right, frames[i+1])
		}
		return nil
	})

	if _, err := m.Mixdown(context.Background(), collect); err != nil {
		return nil, err
	}

	return peaks.Extract([][]float32{left, right}, peaks.Options{
		SamplesPerPixel: samplesPerPixel,
		Bits:            bits,
		Mono:            true,
	})
}
