// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes PCM WAV files on top of github.com/go-audio/wav.
//
// The Decoder accepts integer PCM at 8, 16, 24 or 32 bits, any channel count
// and any sample rate, and returns an audio.Source of float32 samples in
// [-1.0, 1.0]. Non-seekable readers are buffered in memory first because the
// chunk parser needs to seek.
//
//	src, err := wav.Decoder{}.Decode(file)
//
// Writer is the other direction: it streams interleaved float32 frames into
// a 16-bit file and patches the RIFF sizes on Close. The mixer uses it as a
// render sink for offline mixdowns:
//
//	f, _ := os.Create("mix.wav")
//	w, _ := wav.NewWriter(f, 44100, 2)
//	_ = w.Write(frames)
//	_ = w.Close()
//	_ = f.Close()
package wav
