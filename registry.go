// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"fmt"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/loader"
	"github.com/ik5/audmix/mixer"
	"github.com/ik5/audmix/peaks"
)

// NewRegistry returns a registry with every bundled decoder.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})

	return reg
}

// NewMixer builds a Mixer whose tracks load local files and http(s) URLs
// with the bundled decoders, resampled to cfg.SampleRate. client may be
// nil.
func NewMixer(cfg mixer.Config, sink mixer.Sink, client loader.HTTPDoer) (*mixer.Mixer, error) {
	rate := cfg.SampleRate
	if rate == 0 {
		rate = mixer.DefaultConfig().SampleRate
	}

	ld := loader.New(loader.Options{
		Registry:   NewRegistry(),
		SampleRate: rate,
	}, client)

	return mixer.New(cfg, ld, sink)
}

// ExtractPeaks drains src and summarizes it with opts. src is closed.
func ExtractPeaks(src audio.Source, opts peaks.Options) (*peaks.Data, error) {
	defer src.Close()

	buf, err := audio.ReadBuffer(src, 0)
	if err != nil {
		return nil, fmt.Errorf("extract peaks: %w", err)
	}

	data, err := peaks.Extract(buf.Channels(), opts)
	if err != nil {
		return nil, fmt.Errorf("extract peaks: %w", err)
	}

	return data, nil
}
