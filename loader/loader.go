// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ik5/audmix/audio"
)

var (
	// ErrUnsupportedFormat is returned when no decoder matches the source.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrHTTPStatus is returned for a non-2xx response.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrNoRegistry is returned by loaders built without a decoder registry.
	ErrNoRegistry = errors.New("loader has no decoder registry")
)

// Loader turns a path or URL into decoded audio.
type Loader interface {
	Load(ctx context.Context, source string) (*audio.Buffer, error)
}

// Func adapts a function to the Loader interface. Errors it returns are
// wrapped in a LoadError.
type Func func(ctx context.Context, source string) (*audio.Buffer, error)

func (f Func) Load(ctx context.Context, source string) (*audio.Buffer, error) {
	buf, err := f(ctx, source)
	if err != nil {
		return nil, wrap(source, err)
	}

	return buf, nil
}

// LoadError reports a failed load. Track state is never changed by a load
// that fails with it.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func wrap(source string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}

	return &LoadError{Source: source, Err: err}
}

// Options shapes the decoded buffer.
type Options struct {
	Registry *audio.Registry
	// SampleRate resamples the decoded audio when non-zero and different
	// from the source rate.
	SampleRate int
	// Mono folds all channels into one.
	Mono bool
	// BufSize is the read chunk in samples; zero uses the decoder's.
	BufSize int
}

// Decode runs dec over r and collects the result into a Buffer, applying
// the resampling and channel folding requested in opts.
func Decode(r io.Reader, dec audio.Decoder, opts Options) (*audio.Buffer, error) {
	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	defer src.Close()

	if opts.SampleRate > 0 && opts.SampleRate != src.SampleRate() {
		src = audio.NewResampler(src, opts.SampleRate)
	}
	if opts.Mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}

	buf, err := audio.ReadBuffer(src, opts.BufSize)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return buf, nil
}

// Auto picks the HTTP loader for http and https URLs and the file loader
// for everything else.
type Auto struct {
	File Loader
	HTTP Loader
}

func (a Auto) Load(ctx context.Context, source string) (*audio.Buffer, error) {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if a.HTTP == nil {
			return nil, wrap(source, ErrUnsupportedFormat)
		}
		return a.HTTP.Load(ctx, source)
	}

	if a.File == nil {
		return nil, wrap(source, ErrUnsupportedFormat)
	}

	return a.File.Load(ctx, source)
}

// New returns an Auto loader backed by a FileLoader and an HTTPLoader that
// share opts. client may be nil.
func New(opts Options, client HTTPDoer) Auto {
	return Auto{
		File: NewFileLoader(opts),
		HTTP: NewHTTPLoader(client, opts),
	}
}
