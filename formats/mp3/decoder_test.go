// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

// mockMP3Reader stands in for gomp3.Decoder. chunk limits each Read to
// exercise short and odd-sized reads.
type mockMP3Reader struct {
	sampleRate int
	pcm        []byte
	chunk      int
	err        error
}

func newMockReader(sampleRate, chunk int, samples ...int16) *mockMP3Reader {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(s))
	}

	return &mockMP3Reader{sampleRate: sampleRate, pcm: pcm, chunk: chunk}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(p []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if len(m.pcm) == 0 {
		return 0, io.EOF
	}

	n := min(len(p), len(m.pcm))
	if m.chunk > 0 {
		n = min(n, m.chunk)
	}
	copy(p, m.pcm[:n])
	m.pcm = m.pcm[n:]

	return n, nil
}

func readAll(t *testing.T, s *source, chunk int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, chunk)
	for range 1000 {
		n, err := s.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("ReadSamples() never reached EOF")

	return nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("This is not MP3 data"))); err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
	if _, err := (Decoder{}).Decode(bytes.NewReader(nil)); err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	s := &source{dec: newMockReader(44100, 0)}
	if s.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", s.SampleRate())
	}
	if s.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", s.Channels())
	}
}

func TestSource_Conversion(t *testing.T) {
	t.Parallel()

	s := &source{dec: newMockReader(44100, 0, 0, 16384, -16384, 32767, -32768, 0)}
	got := readAll(t, s, 64)

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSource_OddShortReads(t *testing.T) {
	t.Parallel()

	// 3 byte reads split samples across calls
	s := &source{dec: newMockReader(48000, 3, 100, 200, 300, 400, 500, 600)}
	got := readAll(t, s, 4)

	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	for i, v := range got {
		want := float32(100*(i+1)) / 32768.0
		if v != want {
			t.Errorf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestSource_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := &source{dec: &mockMP3Reader{sampleRate: 44100, err: boom}}
	_, err := s.ReadSamples(make([]float32, 8))
	if !errors.Is(err, boom) {
		t.Fatalf("ReadSamples() error = %v, want %v", err, boom)
	}
	if !strings.HasPrefix(err.Error(), "mp3: read: ") {
		t.Errorf("ReadSamples() error = %q, want mp3: read: prefix", err)
	}
}
