// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ik5/audmix/loader"
)

// Mixer owns a set of tracks, the master bus they sum into, and the render
// timeline that drives all of them.
type Mixer struct {
	cfg    Config
	log    *slog.Logger
	loader loader.Loader
	sink   Sink
	bus    *Bus

	// transport serializes Play, Stop and Release; a session and its
	// voices start as one step.
	transport sync.Mutex

	mu        sync.RWMutex
	tracks    map[string]*Track
	order     []*Track // sorted snapshot, replaced on every change
	released  bool
	session   session
	time      float64
	listeners []func(elapsed float64)

	frame atomic.Int64
	quit  chan struct{}
	wg    sync.WaitGroup
}

type session struct {
	id          uint64
	active      bool
	startFrame  int64
	startOffset float64
	stopTicker  chan struct{}
}

// New starts a Mixer rendering into sink. A nil sink discards output.
func New(cfg Config, ld loader.Loader, sink Sink) (*Mixer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if ld == nil {
		return nil, fmt.Errorf("%w: nil loader", ErrInvalidParameter)
	}
	if sink == nil {
		sink = Discard
	}

	cfg = cfg.withDefaults()
	m := &Mixer{
		cfg:    cfg,
		log:    cfg.Logger,
		loader: ld,
		sink:   sink,
		bus:    newBus(cfg),
		tracks: make(map[string]*Track),
		quit:   make(chan struct{}),
	}

	m.wg.Add(1)
	go m.run()

	return m, nil
}

func (m *Mixer) SampleRate() int { return m.cfg.SampleRate }
func (m *Mixer) Resolution() int { return m.cfg.Resolution }

// Now is the timeline position in frames.
func (m *Mixer) Now() int64 { return m.frame.Load() }

// LoadTrack registers an empty track under id.
func (m *Mixer) LoadTrack(id, name string) (*Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.released {
		return nil, ErrReleased
	}
	if _, ok := m.tracks[id]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}

	t := newTrack(id, name, m)
	m.tracks[id] = t
	m.reorder()

	return t, nil
}

func (m *Mixer) Track(id string) (*Track, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tracks[id]

	return t, ok
}

// Tracks lists the registered tracks ordered by id.
func (m *Mixer) Tracks() []*Track {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.order)
}

func (m *Mixer) unregister(t *Track) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tracks[t.id] == t {
		delete(m.tracks, t.id)
		m.reorder()
	}
}

// reorder rebuilds the snapshot the render loop iterates. Callers hold mu.
func (m *Mixer) reorder() {
	order := make([]*Track, 0, len(m.tracks))
	for _, t := range m.tracks {
		order = append(order, t)
	}
	slices.SortFunc(order, func(a, b *Track) int { return strings.Compare(a.id, b.id) })
	m.order = order
}

func (m *Mixer) snapshot() []*Track {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.order
}

// Play starts every loaded track at the same timeline frame, from the
// current time. The channel yields the joined per-track errors once all of
// them have ended, then closes.
func (m *Mixer) Play() <-chan error {
	out := make(chan error, 1)

	m.transport.Lock()
	defer m.transport.Unlock()

	m.mu.Lock()
	if m.released || m.session.active {
		err := ErrAlreadyPlaying
		if m.released {
			err = ErrReleased
		}
		m.mu.Unlock()
		out <- err
		close(out)
		return out
	}

	now := m.Now()
	offset := m.time
	tracks := slices.Clone(m.order)
	m.session = session{
		id:          m.session.id + 1,
		active:      true,
		startFrame:  now,
		startOffset: offset,
		stopTicker:  make(chan struct{}),
	}
	id := m.session.id
	go m.tick(m.session.stopTicker)
	m.mu.Unlock()

	var futures []<-chan error
	for _, t := range tracks {
		d := t.Duration()
		if d == 0 || offset >= d {
			continue
		}
		futures = append(futures, t.PlayAt(now, offset))
	}
	m.log.Debug("session started", "session", id, "tracks", len(futures), "offset", offset)

	go func() {
		errs := make([]error, 0, len(futures))
		for _, f := range futures {
			errs = append(errs, <-f)
		}
		err := errors.Join(errs...)

		m.endSession(id)
		m.log.Debug("session ended", "session", id, "error", err)

		out <- err
		close(out)
	}()

	return out
}

// endSession closes session id if it is still the current one.
func (m *Mixer) endSession(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.id != id || !m.session.active {
		return
	}
	close(m.session.stopTicker)
	m.session.active = false
	m.time = 0
}

// Stop stops every track, ends the session and rewinds to zero.
func (m *Mixer) Stop() {
	m.transport.Lock()
	defer m.transport.Unlock()

	m.mu.Lock()
	tracks := slices.Clone(m.order)
	if m.session.active {
		close(m.session.stopTicker)
		m.session.active = false
	}
	m.time = 0
	m.mu.Unlock()

	for _, t := range tracks {
		t.Stop()
	}
	m.bus.analyzer.Reset()
}

func (m *Mixer) IsPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.session.active
}

// SecondsElapsed is the session position: the start offset plus the time
// rendered since the session began. While stopped it is the time set with
// SetTime.
func (m *Mixer) SecondsElapsed() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.session.active {
		return m.time
	}

	rendered := max(0, m.Now()-m.session.startFrame)

	return m.session.startOffset + float64(rendered)/float64(m.cfg.SampleRate)
}

// Time is an alias of SecondsElapsed.
func (m *Mixer) Time() float64 { return m.SecondsElapsed() }

// SetTime picks the offset the next Play starts from.
func (m *Mixer) SetTime(t float64) error {
	if !inRange(t, 0, maxSeconds) {
		return fmt.Errorf("%w: time %v", ErrInvalidParameter, t)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.active {
		return ErrAlreadyPlaying
	}
	m.time = t

	return nil
}

const maxSeconds = 1 << 32

func (m *Mixer) SetMasterVolume(v float64) error {
	if !inRange(v, 0, 1) {
		return fmt.Errorf("%w: master volume %v outside [0, 1]", ErrInvalidParameter, v)
	}
	m.bus.volume.Store(v)

	return nil
}

func (m *Mixer) MasterVolume() float64 { return m.bus.volume.Load() }
func (m *Mixer) MuteMaster()           { m.bus.muted.Store(true) }
func (m *Mixer) UnMuteMaster()         { m.bus.muted.Store(false) }
func (m *Mixer) IsMasterMuted() bool   { return m.bus.muted.Load() }

// MasterPeak is the loudest bin of the master meter.
func (m *Mixer) MasterPeak() uint8 { return m.bus.analyzer.Peak() }

// OnTimeUpdate registers cb to receive the elapsed time while a session
// runs. Callbacks run on the ticker goroutine and must not block.
func (m *Mixer) OnTimeUpdate(cb func(elapsed float64)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, cb)
	m.mu.Unlock()
}

func (m *Mixer) RemoveListeners() {
	m.mu.Lock()
	m.listeners = nil
	m.mu.Unlock()
}

// Release stops and releases every track, halts the timeline and closes
// the sink. Later calls do nothing.
func (m *Mixer) Release() error {
	m.transport.Lock()
	defer m.transport.Unlock()

	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return nil
	}
	m.released = true
	tracks := slices.Clone(m.order)
	if m.session.active {
		close(m.session.stopTicker)
		m.session.active = false
	}
	m.listeners = nil
	m.mu.Unlock()

	for _, t := range tracks {
		t.Release()
	}

	close(m.quit)
	m.wg.Wait()

	if err := m.sink.Close(); err != nil {
		return fmt.Errorf("closing sink: %w", err)
	}

	return nil
}
