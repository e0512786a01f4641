// SPDX-License-Identifier: EPL-2.0

package mixer

// Sink receives the rendered master output as interleaved stereo float32
// frames. formats/wav.Writer satisfies it.
type Sink interface {
	Write(frames []float32) error
	Close() error
}

type discard struct{}

func (discard) Write([]float32) error { return nil }
func (discard) Close() error          { return nil }

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

// SinkFunc adapts a function to a Sink with a no-op Close. The slice is
// reused after the call returns.
type SinkFunc func(frames []float32) error

func (f SinkFunc) Write(frames []float32) error { return f(frames) }
func (SinkFunc) Close() error                   { return nil }
