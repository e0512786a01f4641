// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/audmix/peaks"
)

// Config holds the engine settings. Zero fields take the DefaultConfig
// value.
type Config struct {
	// SampleRate of the render timeline in Hz. Buffers at another rate
	// are resampled when loaded.
	SampleRate int
	// Quantum is how much audio one render pass produces.
	Quantum time.Duration
	// Resolution is handed through to presentation code unchanged.
	Resolution int
	// TimeUpdateInterval paces OnTimeUpdate callbacks.
	TimeUpdateInterval time.Duration
	// PeakSamplesPerPixel and PeakBits shape Track.PeakList.
	PeakSamplesPerPixel int
	PeakBits            int
	// FFTSize and Smoothing configure every analyzer. Zero Smoothing takes
	// the default; use NoSmoothing for raw snapshots.
	FFTSize   int
	Smoothing float64

	Logger *slog.Logger
}

// NoSmoothing turns analyzer smoothing off.
const NoSmoothing = -1.0

func DefaultConfig() Config {
	return Config{
		SampleRate:          44100,
		Quantum:             10 * time.Millisecond,
		Resolution:          1000,
		TimeUpdateInterval:  20 * time.Millisecond,
		PeakSamplesPerPixel: 1000,
		PeakBits:            peaks.DefaultBits,
		FFTSize:             2048,
		Smoothing:           0.8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()

	if c.SampleRate == 0 {
		c.SampleRate = d.SampleRate
	}
	if c.Quantum == 0 {
		c.Quantum = d.Quantum
	}
	if c.Resolution == 0 {
		c.Resolution = d.Resolution
	}
	if c.TimeUpdateInterval == 0 {
		c.TimeUpdateInterval = d.TimeUpdateInterval
	}
	if c.PeakSamplesPerPixel == 0 {
		c.PeakSamplesPerPixel = d.PeakSamplesPerPixel
	}
	if c.PeakBits == 0 {
		c.PeakBits = d.PeakBits
	}
	if c.FFTSize == 0 {
		c.FFTSize = d.FFTSize
	}
	switch c.Smoothing {
	case 0:
		c.Smoothing = d.Smoothing
	case NoSmoothing:
		c.Smoothing = 0
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	return c
}

func (c Config) validate() error {
	switch {
	case c.SampleRate < 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidParameter, c.SampleRate)
	case c.Quantum < 0 || c.TimeUpdateInterval < 0:
		return fmt.Errorf("%w: negative interval", ErrInvalidParameter)
	case c.PeakSamplesPerPixel < 0:
		return fmt.Errorf("%w: samples per pixel %d", ErrInvalidParameter, c.PeakSamplesPerPixel)
	case c.PeakBits != 0 && !peaks.ValidBits(c.PeakBits):
		return fmt.Errorf("%w: peak bits %d", ErrInvalidParameter, c.PeakBits)
	case c.FFTSize != 0 && (c.FFTSize < 32 || c.FFTSize&(c.FFTSize-1) != 0):
		return fmt.Errorf("%w: fft size %d is not a power of two >= 32", ErrInvalidParameter, c.FFTSize)
	case c.Smoothing != NoSmoothing && (c.Smoothing < 0 || c.Smoothing >= 1):
		return fmt.Errorf("%w: smoothing %v outside [0, 1)", ErrInvalidParameter, c.Smoothing)
	}

	return nil
}

// quantumFrames is the frame count rendered per pass, at least one.
func (c Config) quantumFrames() int {
	return max(1, int(c.Quantum.Seconds()*float64(c.SampleRate)))
}
