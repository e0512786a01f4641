// SPDX-License-Identifier: EPL-2.0

package peaks

import (
	"fmt"
	"math"
)

const (
	DefaultSamplesPerPixel = 10000
	DefaultBits            = 8
)

// Data is a quantized min/max envelope. Data holds one slice per channel
// (a single one for mono summaries) of interleaved [min, max] pairs.
type Data struct {
	Length int       `json:"length"`
	Data   [][]int32 `json:"data"`
	Bits   int       `json:"bits"`
}

// Options controls Extract.
type Options struct {
	SamplesPerPixel int
	Bits            int
	// Mono averages every channel into one synthetic channel.
	Mono bool
	// CueIn and CueOut bound the analyzed range in samples. CueOut of zero
	// means the end of the channel.
	CueIn  int
	CueOut int
}

func DefaultOptions() Options {
	return Options{
		SamplesPerPixel: DefaultSamplesPerPixel,
		Bits:            DefaultBits,
		Mono:            true,
	}
}

// ValidBits reports whether bits is a supported quantization width.
func ValidBits(bits int) bool {
	return bits == 8 || bits == 16 || bits == 32
}

// Quantize maps v to a signed integer of the given width. Negative values
// scale by 2^(bits-1) and positive ones by 2^(bits-1) minus one step; the
// result is clipped to the representable range and truncated toward zero.
func Quantize(v float32, bits int) int32 {
	scale := math.Ldexp(1, bits-1)

	q := float64(v) * scale
	if v >= 0 {
		q--
	}
	q = math.Max(-scale, math.Min(scale-1, q))

	return int32(q)
}

// minMax scans the window once.
func minMax(window []float32) (lo, hi float32) {
	lo, hi = float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range window {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	return lo, hi
}

// ExtractChannel summarizes samples into ceil(len/samplesPerPixel) windows
// and returns their interleaved quantized [min, max] pairs. The last window
// may be shorter than samplesPerPixel.
func ExtractChannel(samples []float32, samplesPerPixel, bits int) ([]int32, error) {
	if !ValidBits(bits) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBits, bits)
	}
	if samplesPerPixel <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSamplesPerPixel, samplesPerPixel)
	}

	windows := (len(samples) + samplesPerPixel - 1) / samplesPerPixel
	out := make([]int32, windows*2)

	for i := range windows {
		start := i * samplesPerPixel
		end := min(start+samplesPerPixel, len(samples))

		lo, hi := minMax(samples[start:end])
		out[2*i] = Quantize(lo, bits)
		out[2*i+1] = Quantize(hi, bits)
	}

	return out, nil
}

// Mono folds per-channel peaks into one channel. Each window's min and max
// are averaged separately with equal weights over the quantized values and
// truncated toward zero. The sum is kept in integers so that identical
// channels average back to exactly themselves. A single channel is
// returned as is; ragged input is cut to the shortest channel.
func Mono(channels [][]int32) []int32 {
	if len(channels) == 0 {
		return nil
	}
	if len(channels) == 1 {
		return channels[0]
	}

	n := int64(len(channels))
	shortest := len(channels[0])
	for _, ch := range channels[1:] {
		shortest = min(shortest, len(ch))
	}
	out := make([]int32, shortest)
	for i := range out {
		var sum int64
		for _, ch := range channels {
			sum += int64(ch[i])
		}
		out[i] = int32(sum / n)
	}

	return out
}

// Extract runs ExtractChannel over every channel and optionally folds the
// result to mono.
func Extract(channels [][]float32, opts Options) (*Data, error) {
	if !ValidBits(opts.Bits) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBits, opts.Bits)
	}
	if opts.SamplesPerPixel <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSamplesPerPixel, opts.SamplesPerPixel)
	}

	for c := 1; c < len(channels); c++ {
		if len(channels[c]) != len(channels[0]) {
			return nil, fmt.Errorf("channel %d has %d samples, want %d: %w",
				c, len(channels[c]), len(channels[0]), ErrChannelLength)
		}
	}

	out := &Data{Bits: opts.Bits, Data: make([][]int32, 0, len(channels))}
	for c, ch := range channels {
		cueOut := opts.CueOut
		if cueOut == 0 {
			cueOut = len(ch)
		}
		if opts.CueIn < 0 || cueOut > len(ch) || opts.CueIn > cueOut {
			return nil, fmt.Errorf("channel %d: [%d, %d) of %d: %w",
				c, opts.CueIn, cueOut, len(ch), ErrInvalidCue)
		}

		p, err := ExtractChannel(ch[opts.CueIn:cueOut], opts.SamplesPerPixel, opts.Bits)
		if err != nil {
			return nil, err
		}
		out.Data = append(out.Data, p)
	}

	if opts.Mono && len(out.Data) > 1 {
		out.Data = [][]int32{Mono(out.Data)}
	}
	if len(out.Data) > 0 {
		out.Length = len(out.Data[0]) / 2
	}

	return out, nil
}

// Min and Max return the quantized extremes of window i of channel c.
func (d *Data) Min(c, i int) int32 { return d.Data[c][2*i] }
func (d *Data) Max(c, i int) int32 { return d.Data[c][2*i+1] }
