// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audmix/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation. Works on interleaved samples and preserves the channel
// count. A one-pole low-pass runs on the input when downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// window of four frames around the read head: t-1, t0, t+1, t+2
	win   [4][]float32
	valid [4]bool
	pos   float64

	frame  []float32
	primed bool
	eof    bool

	lowpass    bool
	filterInit bool
	alpha      float32
	state      []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    ratio,
		channels: channels,
		frame:    make([]float32, channels),
		lowpass:  ratio > 1.0,
		alpha:    0.5,
		state:    make([]float32, channels),
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: close: %w", err)
	}

	return nil
}

// readFrame pulls one frame from the source into r.frame.
func (r *Resampler) readFrame() (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.frame)
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return false, fmt.Errorf("resampler: read: %w", err)
	}
	if n < r.channels {
		r.eof = true
		return false, nil
	}

	if r.lowpass {
		if !r.filterInit {
			copy(r.state, r.frame)
			r.filterInit = true
		}
		for c := range r.channels {
			r.frame[c] = r.alpha*r.frame[c] + (1-r.alpha)*r.state[c]
			r.state[c] = r.frame[c]
		}
	}

	return true, nil
}

// prime loads the first frames; t-1 starts as a copy of t0.
func (r *Resampler) prime() error {
	ok, err := r.readFrame()
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}
	copy(r.win[0], r.frame)
	copy(r.win[1], r.frame)
	r.valid[0], r.valid[1] = true, true

	for i := 2; i < len(r.win); i++ {
		ok, err := r.readFrame()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		copy(r.win[i], r.frame)
		r.valid[i] = true
	}
	r.primed = true

	return nil
}

// advance shifts the window forward by one source frame.
func (r *Resampler) advance() error {
	first := r.win[0]
	copy(r.win[:], r.win[1:])
	r.win[3] = first
	copy(r.valid[:], r.valid[1:])

	ok, err := r.readFrame()
	if err != nil {
		return err
	}
	r.valid[3] = ok
	if ok {
		copy(r.win[3], r.frame)
	}

	if !r.valid[1] {
		return io.EOF
	}

	return nil
}

// ReadSamples produces samples at the target rate. dst length must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	want := len(dst) / r.channels
	for written < want {
		if !r.valid[1] {
			return written * r.channels, io.EOF
		}
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range r.channels {
			y0, y1 := r.win[0][c], r.win[1][c]
			y2 := y1
			if r.valid[2] {
				y2 = r.win[2][c]
			}
			y3 := y2
			if r.valid[3] {
				y3 = r.win[3][c]
			}
			out[c] = utils.CubicInterpolate(y0, y1, y2, y3, x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
