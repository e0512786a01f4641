// SPDX-License-Identifier: EPL-2.0

// Package audmix is a multi-track audio mixing and playback engine.
//
// The root package wires the pieces together. The work itself lives in the
// subpackages:
//   - audio: the Source streaming interface, Resampler, MonoMixer, the
//     decoded Buffer and the decoder Registry
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders
//     (and a 16-bit WAV writer)
//   - loader: turns a file path or URL into a Buffer
//   - peaks: quantized min/max envelopes for waveform drawing
//   - mixer: tracks, the master bus, the render timeline and mixdown
//
// # Quick Start
//
//	mx, err := audmix.NewMixer(mixer.DefaultConfig(), mixer.Discard, nil)
//	if err != nil {
//	    return err
//	}
//	defer mx.Release()
//
//	vox, _ := mx.LoadTrack("vox", "Vocals")
//	if err := vox.LoadFile(ctx, "https://example.com/vox.ogg"); err != nil {
//	    return err
//	}
//	err = <-mx.Play()
//
// # Waveforms
//
// ExtractPeaks reads a whole Source and summarizes it:
//
//	src, _ := wav.Decoder{}.Decode(f)
//	data, err := audmix.ExtractPeaks(src, peaks.DefaultOptions())
//
// # Supported Formats
//
// NewRegistry knows wav, mp3, ogg/oga (Vorbis) and aif/aiff. Files are
// matched on their extension; HTTP responses without one fall back to the
// Content-Type header.
package audmix
