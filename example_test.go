// SPDX-License-Identifier: EPL-2.0

package audmix_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/loader"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/peaks"
)

func ExampleNewRegistry() {
	reg := audmix.NewRegistry()
	fmt.Println(reg.Formats())

	_, format, ok := reg.Lookup("https://cdn.example.com/takes/bass.OGG?sig=abc")
	fmt.Println(format, ok)
	// Output:
	// [aif aiff mp3 oga ogg wav]
	// ogg true
}

func ExampleExtractPeaks() {
	buf, err := audio.NewBuffer([][]float32{{0.5, -0.5, 0.9, -0.9}}, 8000)
	if err != nil {
		fmt.Println(err)
		return
	}

	data, err := audmix.ExtractPeaks(buf.Source(), peaks.Options{SamplesPerPixel: 2, Bits: 8})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(data.Length, data.Data[0])
	// Output: 2 [-64 63 -115 114]
}

// A two track session rendered offline.
func Example_mixdown() {
	const rate = 8000

	takes := map[string]*audio.Buffer{}
	for name, frames := range map[string]int{"drums": rate, "bass": rate / 2} {
		buf, _ := audio.NewBuffer([][]float32{audiotest.Constant(frames, 0.25)}, rate)
		takes[name] = buf
	}
	ld := loader.Func(func(_ context.Context, source string) (*audio.Buffer, error) {
		return takes[source], nil
	})

	cfg := mixer.DefaultConfig()
	cfg.SampleRate = rate
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	mx, err := mixer.New(cfg, ld, mixer.Discard)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer mx.Release()

	for _, id := range []string{"drums", "bass"} {
		tr, _ := mx.LoadTrack(id, id)
		if err := tr.LoadFile(context.Background(), id); err != nil {
			fmt.Println(err)
			return
		}
	}

	var written int
	frames, err := mx.Mixdown(context.Background(), mixer.SinkFunc(func(f []float32) error {
		written += len(f)
		return nil
	}))

	fmt.Println(frames, written, err)
	// Output: 8000 16000 <nil>
}
