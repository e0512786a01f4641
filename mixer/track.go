// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/loader"
	"github.com/ik5/audmix/peaks"
)

// State is where a Track is in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StatePlaying
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Track is one audio lane of a Mixer: a decoded buffer, its gain and pan,
// the mute and solo overlays, and at most one playing voice.
type Track struct {
	id   string
	name string
	mx   *Mixer

	volume *param
	pan    *param
	muted  atomic.Bool
	soloed atomic.Bool

	loading  atomic.Bool
	released atomic.Bool

	meter *Analyzer

	// mu guards the fields below. The render loop holds it while rendering
	// this track's quantum.
	mu         sync.Mutex
	buf        *audio.Buffer
	voice      *voice
	chain      *chain
	meterReady bool
}

func newTrack(id, name string, mx *Mixer) *Track {
	return &Track{
		id:     id,
		name:   name,
		mx:     mx,
		volume: newParam(1),
		pan:    newParam(0),
		meter:  NewAnalyzer(mx.cfg.FFTSize, mx.cfg.Smoothing),
	}
}

func (t *Track) ID() string   { return t.id }
func (t *Track) Name() string { return t.name }

// LoadFile decodes source through the Mixer's loader and replaces the
// buffer. On failure the previous buffer stays in place and the error is a
// *loader.LoadError.
func (t *Track) LoadFile(ctx context.Context, source string) error {
	if t.released.Load() {
		return ErrReleased
	}
	if !t.loading.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer t.loading.Store(false)

	log := t.mx.log.With("track", t.id, "source", source)

	buf, err := t.mx.loader.Load(ctx, source)
	if err == nil && buf == nil {
		err = ErrNotLoaded
	}
	if err == nil && buf.SampleRate() != t.mx.cfg.SampleRate {
		buf, err = audio.ReadBuffer(audio.NewResampler(buf.Source(), t.mx.cfg.SampleRate), 0)
	}
	if err != nil {
		var le *loader.LoadError
		if !errors.As(err, &le) {
			err = &loader.LoadError{Source: source, Err: err}
		}
		log.Warn("load failed", "error", err)

		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released.Load() {
		return ErrReleased
	}
	t.buf = buf
	log.Debug("loaded", "channels", buf.NumChannels(), "duration", buf.Duration())

	return nil
}

// ClearBuffer drops the loaded buffer. A playing voice keeps its own
// reference and runs to the end.
func (t *Track) ClearBuffer() {
	t.mu.Lock()
	t.buf = nil
	t.mu.Unlock()
}

// Duration of the loaded buffer in seconds, zero when empty.
func (t *Track) Duration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.buf == nil {
		return 0
	}

	return t.buf.Duration()
}

func (t *Track) IsPlaying() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.voice != nil
}

func (t *Track) State() State {
	if t.released.Load() {
		return StateReleased
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.voice != nil:
		return StatePlaying
	case t.buf != nil:
		return StateLoaded
	default:
		return StateEmpty
	}
}

// Chain lists the stages the track is routed through, nil while it is not
// playing.
func (t *Track) Chain() []Stage {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.chain == nil {
		return nil
	}

	return t.chain.Stages()
}

// Play starts the buffer offset seconds in, at the current timeline frame.
func (t *Track) Play(offset float64) <-chan error {
	return t.PlayAt(t.mx.Now(), offset)
}

// PlayAt schedules playback at timeline frame when. If when has already
// been rendered the voice joins mid-way, as if it had started on time.
// The returned channel yields nil once the voice ends or is stopped.
func (t *Track) PlayAt(when int64, offset float64) <-chan error {
	done := make(chan error, 1)

	if t.released.Load() {
		done <- ErrReleased
		close(done)
		return done
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	switch {
	case t.buf == nil:
		err = ErrNotLoaded
	case t.voice != nil:
		err = ErrAlreadyPlaying
	case !inRange(offset, 0, t.buf.Duration()):
		err = fmt.Errorf("%w: offset %v outside [0, %v]", ErrInvalidParameter, offset, t.buf.Duration())
	}
	if err != nil {
		done <- err
		close(done)
		return done
	}

	v := &voice{
		buf:    t.buf,
		start:  when,
		offset: int(math.Round(offset * float64(t.buf.SampleRate()))),
		done:   done,
	}
	if v.offset >= t.buf.Len() {
		v.finish(nil)
		return done
	}
	t.chain = newChain(t.pan, t.meter)
	t.meterReady = true
	t.voice = v

	return done
}

// Stop ends the playing voice and resets the track meter. Calling it on a
// stopped track is harmless.
func (t *Track) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.meter.Reset()
}

func (t *Track) stopLocked() {
	if t.voice != nil {
		t.voice.finish(nil)
		t.voice = nil
	}
	t.chain = nil
}

func (t *Track) SetVolume(v float64) error {
	if t.released.Load() {
		return ErrReleased
	}
	if !inRange(v, 0, 1) {
		return fmt.Errorf("%w: volume %v outside [0, 1]", ErrInvalidParameter, v)
	}
	t.volume.Store(v)

	return nil
}

func (t *Track) SetPan(v float64) error {
	if t.released.Load() {
		return ErrReleased
	}
	if !inRange(v, -1, 1) {
		return fmt.Errorf("%w: pan %v outside [-1, 1]", ErrInvalidParameter, v)
	}
	t.pan.Store(v)

	return nil
}

// Volume is the stored volume; mute does not change it.
func (t *Track) Volume() float64 { return t.volume.Load() }
func (t *Track) Pan() float64    { return t.pan.Load() }

func (t *Track) Mute() {
	if !t.released.Load() {
		t.muted.Store(true)
	}
}

func (t *Track) UnMute() {
	if !t.released.Load() {
		t.muted.Store(false)
	}
}

func (t *Track) Solo() {
	if !t.released.Load() {
		t.soloed.Store(true)
	}
}

func (t *Track) UnSolo() {
	if !t.released.Load() {
		t.soloed.Store(false)
	}
}

func (t *Track) IsMuted() bool  { return t.muted.Load() }
func (t *Track) IsSoloed() bool { return t.soloed.Load() }

// gain is what the track contributes: zero when muted or when another
// track holds solo.
func (t *Track) gain(soloActive bool) float32 {
	if t.muted.Load() || (soloActive && !t.soloed.Load()) {
		return 0
	}

	return float32(t.volume.Load())
}

// Peak is the loudest bin of the track meter. It is unavailable until the
// track has been played once and after release.
func (t *Track) Peak() (uint8, bool) {
	if t.released.Load() {
		return 0, false
	}

	t.mu.Lock()
	ready := t.meterReady
	t.mu.Unlock()
	if !ready {
		return 0, false
	}

	return t.meter.Peak(), true
}

// PeakList summarizes the whole buffer as mono min/max pairs.
func (t *Track) PeakList() (*peaks.Data, bool) {
	t.mu.Lock()
	buf := t.buf
	t.mu.Unlock()

	if buf == nil {
		return nil, false
	}

	data, err := peaks.Extract(buf.Channels(), peaks.Options{
		SamplesPerPixel: t.mx.cfg.PeakSamplesPerPixel,
		Bits:            t.mx.cfg.PeakBits,
		Mono:            true,
	})
	if err != nil {
		t.mx.log.Warn("peak extraction failed", "track", t.id, "error", err)
		return nil, false
	}

	return data, true
}

// Release stops the track, drops its buffer and removes it from the Mixer.
func (t *Track) Release() {
	if !t.released.CompareAndSwap(false, true) {
		return
	}

	t.mu.Lock()
	t.stopLocked()
	t.buf = nil
	t.meterReady = false
	t.mu.Unlock()

	t.meter.Reset()
	t.mx.unregister(t)
}

// render adds this track's share of the quantum at base to mix.
func (t *Track) render(mix, scratch []float32, base int64, n int, soloActive bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.voice == nil {
		return
	}

	if t.chain.mix(mix, scratch, t.voice, base, n, t.gain(soloActive)) {
		// reset before the future resolves
		t.meter.Reset()
		t.stopLocked()
	}
}
