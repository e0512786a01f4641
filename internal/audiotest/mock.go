// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// ErrInjected is returned by FailingSource.
var ErrInjected = errors.New("audiotest: injected failure")

// MockSource generates audio on demand. It satisfies audio.Source without
// importing it so that package audio can use it in its own tests.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // frames to generate
	generated  int
	waveform   func(frame, channel int) float32
	closed     bool
}

// NewMockSource creates a source of frames frames whose values come from
// waveform.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

// NewSilentSource creates a mock source that generates silence.
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewSineSource creates a mock source that generates a sine wave on every
// channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with a constant value.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.frames {
		return 0, io.EOF
	}

	count := min(len(dst)/m.channels, m.frames-m.generated)
	for f := range count {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += count

	if m.generated >= m.frames {
		return count * m.channels, io.EOF
	}

	return count * m.channels, nil
}

// FailingSource yields silence for a number of frames and then fails.
type FailingSource struct {
	*MockSource
}

func NewFailingSource(sampleRate, channels, framesBeforeFailure int) *FailingSource {
	return &FailingSource{MockSource: NewSilentSource(sampleRate, channels, framesBeforeFailure)}
}

func (f *FailingSource) ReadSamples(dst []float32) (int, error) {
	n, err := f.MockSource.ReadSamples(dst)
	if err == io.EOF {
		return n, ErrInjected
	}

	return n, err
}

// Ramp returns n samples rising linearly from -1 towards 1.
func Ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = -1 + 2*float32(i)/float32(n)
	}

	return out
}

// Constant returns n copies of v.
func Constant(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}

	return out
}
