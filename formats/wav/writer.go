// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"sync"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audmix/utils"
)

// Writer streams interleaved float32 audio into a 16-bit PCM WAV file.
// The RIFF sizes are patched on Close, which is why the destination has
// to be seekable. Writer is safe for concurrent use.
type Writer struct {
	mu       sync.Mutex
	enc      *gowav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	frames   int
	closed   bool
}

// NewWriter prepares a 16-bit PCM WAV stream on w.
func NewWriter(w io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	if channels <= 0 {
		return nil, ErrInvalidWriterChannels
	}

	return &Writer{
		enc:      gowav.NewEncoder(w, sampleRate, 16, channels, pcmFormat),
		channels: channels,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// Write encodes interleaved samples. A trailing partial frame is dropped.
func (w *Writer) Write(samples []float32) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}

	n := len(samples) - len(samples)%w.channels
	if n == 0 {
		return nil
	}

	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]
	utils.Float32sToInts(w.buf.Data, samples[:n])

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav: write: %w", err)
	}
	w.frames += n / w.channels

	return nil
}

// Frames reports how many frames have been written so far.
func (w *Writer) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.frames
}

// Close finalizes the header. It does not close the underlying writer.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav: close: %w", err)
	}

	return nil
}
