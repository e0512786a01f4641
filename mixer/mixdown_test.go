// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/peaks"
)

func TestMixer_Mixdown(t *testing.T) {
	t.Parallel()

	const eps = 1e-5
	center := float32(math.Sqrt2 / 2)

	tests := []struct {
		name  string
		setup func(t *testing.T, a, b *Track, m *Mixer)
		left  float32
		right float32
	}{
		{
			name:  "mono centered plus stereo",
			setup: func(*testing.T, *Track, *Track, *Mixer) {},
			left:  0.5*center + 0.25,
			right: 0.5*center + 0.25,
		},
		{
			name: "volume and pan",
			setup: func(t *testing.T, a, _ *Track, _ *Mixer) {
				if err := a.SetVolume(0.5); err != nil {
					t.Fatal(err)
				}
				if err := a.SetPan(-1); err != nil {
					t.Fatal(err)
				}
			},
			left:  0.25 + 0.25,
			right: 0.25,
		},
		{
			name:  "muted",
			setup: func(_ *testing.T, a, _ *Track, _ *Mixer) { a.Mute() },
			left:  0.25,
			right: 0.25,
		},
		{
			name:  "soloed",
			setup: func(_ *testing.T, a, _ *Track, _ *Mixer) { a.Solo() },
			left:  0.5 * center,
			right: 0.5 * center,
		},
		{
			name: "master",
			setup: func(t *testing.T, _, _ *Track, m *Mixer) {
				if err := m.SetMasterVolume(0.5); err != nil {
					t.Fatal(err)
				}
				m.MuteMaster()
				m.UnMuteMaster()
			},
			left:  (0.5*center + 0.25) / 2,
			right: (0.5*center + 0.25) / 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMixer(t, map[string]*audio.Buffer{
				"mono":   constBuffer(t, 1, 300, 0.5),
				"stereo": constBuffer(t, 2, 100, 0.25),
			}, nil)
			a := loadedTrack(t, m, "a", "mono")
			b := loadedTrack(t, m, "b", "stereo")
			tt.setup(t, a, b, m)

			var out collector
			frames, err := m.Mixdown(context.Background(), out.sink())
			if err != nil {
				t.Fatal(err)
			}
			if frames != 300 || len(out.left) != 300 {
				t.Fatalf("rendered %d frames, collected %d", frames, len(out.left))
			}

			if math.Abs(float64(out.left[0]-tt.left)) > eps || math.Abs(float64(out.right[0]-tt.right)) > eps {
				t.Errorf("frame 0 = (%v, %v), want (%v, %v)", out.left[0], out.right[0], tt.left, tt.right)
			}
			// only the longer track is left past frame 100
			if out.left[299] > 0.5 || out.right[150] > 0.5 {
				t.Errorf("tail = (%v, %v)", out.left[299], out.right[150])
			}
			if a.IsPlaying() || b.IsPlaying() {
				t.Error("mixdown started live voices")
			}
		})
	}
}

func TestMixer_MixdownErrors(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t, map[string]*audio.Buffer{
		"long": constBuffer(t, 1, 10*testRate, 0.5),
	}, nil)

	if _, err := m.Mixdown(context.Background(), Discard); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("empty mixer = %v, want ErrNotLoaded", err)
	}

	loadedTrack(t, m, "a", "long")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Mixdown(ctx, Discard); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled = %v", err)
	}

	boom := errors.New("disk full")
	_, err := m.Mixdown(context.Background(), SinkFunc(func([]float32) error { return boom }))
	if !errors.Is(err, boom) {
		t.Errorf("sink failure = %v", err)
	}
}

func TestMixer_MixdownToWAV(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t, map[string]*audio.Buffer{
		"stereo": constBuffer(t, 2, 1000, 0.25),
	}, nil)
	loadedTrack(t, m, "a", "stereo")

	path := filepath.Join(t.TempDir(), "mix.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := wav.NewWriter(f, m.SampleRate(), 2)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Mixdown(context.Background(), w); err != nil {
		t.Fatal(err)
	}
	if w.Frames() != 1000 {
		t.Errorf("writer holds %d frames", w.Frames())
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	src, err := wav.Decoder{}.Decode(in)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := audio.ReadBuffer(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 1000 || buf.NumChannels() != 2 {
		t.Fatalf("decoded %d frames x %d channels", buf.Len(), buf.NumChannels())
	}
	if v := buf.Channel(1)[500]; math.Abs(float64(v)-0.25) > 1e-3 {
		t.Errorf("sample = %v, want 0.25", v)
	}
}

func TestMixer_MasterPeakList(t *testing.T) {
	t.Parallel()

	m := newTestMixer(t, map[string]*audio.Buffer{
		"stereo": constBuffer(t, 2, 2500, 0.5),
	}, nil)

	if _, err := m.MasterPeakList(1000, 8); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("empty mixer = %v", err)
	}

	loadedTrack(t, m, "a", "stereo")

	data, err := m.MasterPeakList(1000, 8)
	if err != nil {
		t.Fatal(err)
	}
	if data.Length != 3 || len(data.Data) != 1 {
		t.Fatalf("length %d channels %d", data.Length, len(data.Data))
	}
	if data.Max(0, 0) != peaks.Quantize(0.5, 8) {
		t.Errorf("max = %d", data.Max(0, 0))
	}

	if _, err := m.MasterPeakList(1000, 12); !errors.Is(err, peaks.ErrInvalidBits) {
		t.Errorf("bits 12 = %v", err)
	}
}
