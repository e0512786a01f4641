// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Buffer is fully decoded audio held as one float32 slice per channel.
// A Buffer is never modified after construction; holders may share it.
type Buffer struct {
	channels   [][]float32
	sampleRate int
}

// NewBuffer wraps per-channel sample slices. The slices are not copied.
func NewBuffer(channels [][]float32, sampleRate int) (*Buffer, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	n := len(channels[0])
	for c := 1; c < len(channels); c++ {
		if len(channels[c]) != n {
			return nil, fmt.Errorf("channel %d has %d samples, want %d: %w",
				c, len(channels[c]), n, ErrChannelLength)
		}
	}

	return &Buffer{channels: channels, sampleRate: sampleRate}, nil
}

func (b *Buffer) SampleRate() int  { return b.sampleRate }
func (b *Buffer) NumChannels() int { return len(b.channels) }

// Len is the number of frames (samples per channel).
func (b *Buffer) Len() int { return len(b.channels[0]) }

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.Len()) / float64(b.sampleRate)
}

// Channel returns the samples of channel c. Callers must not modify them.
func (b *Buffer) Channel(c int) []float32 { return b.channels[c] }

// Channels returns every channel. Callers must not modify them.
func (b *Buffer) Channels() [][]float32 { return b.channels }

// ReadBuffer drains src into a Buffer, de-interleaving its channels.
// bufSize is the read chunk in samples; when it is not positive the
// source's own BufSize is used.
func ReadBuffer(src Source, bufSize int) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}

	if bufSize <= 0 {
		bufSize = src.BufSize()
	}
	if bufSize < channels {
		bufSize = 4096
	}
	// keep reads frame aligned
	bufSize -= bufSize % channels

	out := make([][]float32, channels)
	buf := make([]float32, bufSize)

	for {
		n, err := src.ReadSamples(buf)
		frames := n / channels
		for f := range frames {
			base := f * channels
			for c := range channels {
				out[c] = append(out[c], buf[base+c])
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			// Some decoders signal a stall with (0, nil); treat a
			// zero read as the end rather than spinning.
			break
		}
	}

	for c := range out {
		if out[c] == nil {
			out[c] = []float32{}
		}
	}

	return NewBuffer(out, src.SampleRate())
}

// Source streams the buffer back as interleaved samples, so a Buffer can be
// fed through a Resampler or MonoMixer again.
func (b *Buffer) Source() Source {
	return &bufferSource{buf: b}
}

type bufferSource struct {
	buf *Buffer
	pos int
}

func (s *bufferSource) SampleRate() int { return s.buf.sampleRate }
func (s *bufferSource) Channels() int   { return len(s.buf.channels) }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	channels := len(s.buf.channels)
	frames := min(len(dst)/channels, s.buf.Len()-s.pos)
	if frames <= 0 {
		if s.pos >= s.buf.Len() {
			return 0, io.EOF
		}
		return 0, ErrInvalidDstSize
	}

	for f := range frames {
		for c, ch := range s.buf.channels {
			dst[f*channels+c] = ch[s.pos+f]
		}
	}
	s.pos += frames

	return frames * channels, nil
}
