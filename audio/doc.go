// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives used to get decoded audio
// into the mixer.
//
// # Source Interface
//
// Every decoder and processor implements Source, a pull based stream of
// interleaved float32 samples in [-1.0, 1.0]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Sources chain. A Resampler converts the rate with cubic interpolation and a
// MonoMixer folds channels together:
//
//	src := audio.NewMonoMixer(audio.NewResampler(decoded, 44100))
//
// # Buffers
//
// The mixer does not stream from disk while playing. ReadBuffer drains a
// Source into a Buffer, which keeps one slice per channel and is treated as
// immutable from then on:
//
//	buf, err := audio.ReadBuffer(src, 4096)
//	fmt.Println(buf.NumChannels(), buf.Duration())
//
// # Format Registry
//
// Decoders are looked up by format key or by the extension of a path or
// URL:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	dec, format, ok := registry.Lookup("https://host/take-3.wav?sig=x")
//
// # Error Handling
//
// ReadSamples returns io.EOF when the stream is exhausted. Any other error
// comes from the underlying source and is wrapped with %w.
package audio
