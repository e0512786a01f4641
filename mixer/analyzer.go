// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	minDecibels = -100.0
	maxDecibels = -30.0
)

// Analyzer is a spectrum meter over the most recent FFTSize frames of the
// signal passing through it. Multi-channel input is folded to mono.
// Frequency data follows the Web Audio AnalyserNode: Blackman window,
// magnitude smoothing over time, decibels mapped onto 0..255.
type Analyzer struct {
	mu sync.Mutex

	size      int
	smoothing float64

	ring []float64
	pos  int

	window   []float64
	smoothed []float64
	fft      *fourier.FFT
	seq      []float64
	coeff    []complex128
	bytes    []uint8
}

// NewAnalyzer returns an analyzer with the given FFT size, which must be a
// power of two, and smoothing time constant in [0, 1).
func NewAnalyzer(fftSize int, smoothing float64) *Analyzer {
	a := &Analyzer{
		size:      fftSize,
		smoothing: smoothing,
		ring:      make([]float64, fftSize),
		window:    blackman(fftSize),
		smoothed:  make([]float64, fftSize/2),
		fft:       fourier.NewFFT(fftSize),
		seq:       make([]float64, fftSize),
		coeff:     make([]complex128, fftSize/2+1),
		bytes:     make([]uint8, fftSize/2),
	}

	return a
}

func blackman(n int) []float64 {
	const alpha = 0.16
	a0, a1, a2 := (1-alpha)/2, 0.5, alpha/2

	w := make([]float64, n)
	for i := range w {
		x := float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}

	return w
}

// FrequencyBinCount is half the FFT size.
func (a *Analyzer) FrequencyBinCount() int { return a.size / 2 }

// Write appends interleaved frames with the given channel count.
func (a *Analyzer) Write(samples []float32, channels int) {
	if channels <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	scale := 1 / float64(channels)
	for f := 0; f+channels <= len(samples); f += channels {
		var sum float64
		for _, v := range samples[f : f+channels] {
			sum += float64(v)
		}
		a.ring[a.pos] = sum * scale
		a.pos = (a.pos + 1) % a.size
	}
}

// ByteFrequencyData computes a fresh spectrum snapshot and copies it into
// dst, returning the number of bins written.
func (a *Analyzer) ByteFrequencyData(dst []uint8) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.snapshot()

	return copy(dst, a.bytes)
}

// Peak is the largest byte of a fresh spectrum snapshot.
func (a *Analyzer) Peak() uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.snapshot()

	var peak uint8
	for _, b := range a.bytes {
		peak = max(peak, b)
	}

	return peak
}

// Reset forgets the signal history and smoothing state.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	clear(a.ring)
	clear(a.smoothed)
	clear(a.bytes)
	a.pos = 0
}

func (a *Analyzer) snapshot() {
	// oldest sample first
	for i := range a.seq {
		a.seq[i] = a.ring[(a.pos+i)%a.size] * a.window[i]
	}
	a.coeff = a.fft.Coefficients(a.coeff, a.seq)

	norm := 1 / float64(a.size)
	span := maxDecibels - minDecibels
	for k := range a.smoothed {
		mag := cmplx.Abs(a.coeff[k]) * norm
		s := a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if math.IsNaN(s) || math.IsInf(s, 0) {
			s = 0
		}
		a.smoothed[k] = s

		db := 20 * math.Log10(s)
		v := 255 / span * (db - minDecibels)
		switch {
		case math.IsNaN(v) || v <= 0:
			a.bytes[k] = 0
		case v >= 255:
			a.bytes[k] = 255
		default:
			a.bytes[k] = uint8(v)
		}
	}
}
