// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"testing"
	"time"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/loader"
)

const testRate = 8000

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SampleRate = testRate
	cfg.Quantum = 5 * time.Millisecond
	cfg.TimeUpdateInterval = 10 * time.Millisecond
	cfg.FFTSize = 256
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	return cfg
}

// mapLoader serves fixed buffers by source name.
func mapLoader(buffers map[string]*audio.Buffer) loader.Loader {
	return loader.Func(func(_ context.Context, source string) (*audio.Buffer, error) {
		buf, ok := buffers[source]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return buf, nil
	})
}

func newTestMixer(t *testing.T, buffers map[string]*audio.Buffer, sink Sink) *Mixer {
	t.Helper()

	m, err := New(testConfig(), mapLoader(buffers), sink)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = m.Release() })

	return m
}

// constBuffer holds frames of v in every channel at the test rate.
func constBuffer(t *testing.T, channels, frames int, v float32) *audio.Buffer {
	t.Helper()

	data := make([][]float32, channels)
	for c := range data {
		data[c] = audiotest.Constant(frames, v)
	}
	buf, err := audio.NewBuffer(data, testRate)
	if err != nil {
		t.Fatal(err)
	}

	return buf
}

func loadedTrack(t *testing.T, m *Mixer, id, source string) *Track {
	t.Helper()

	tr, err := m.LoadTrack(id, id)
	if err != nil {
		t.Fatalf("LoadTrack(%q): %v", id, err)
	}
	if err := tr.LoadFile(context.Background(), source); err != nil {
		t.Fatalf("LoadFile(%q): %v", source, err)
	}

	return tr
}

func await(t *testing.T, ch <-chan error) error {
	t.Helper()

	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for playback to settle")
		return nil
	}
}

// collector records master output one channel per slice.
type collector struct {
	left, right []float32
}

func (c *collector) sink() Sink {
	return SinkFunc(func(frames []float32) error {
		for i := 0; i+1 < len(frames); i += 2 {
			c.left = append(c.left, frames[i])
			c.right = append(c.right, frames[i+1])
		}
		return nil
	})
}
