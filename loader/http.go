// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/ik5/audmix/audio"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

var contentTypes = map[string]string{
	"audio/wav":       "wav",
	"audio/wave":      "wav",
	"audio/x-wav":     "wav",
	"audio/vnd.wave":  "wav",
	"audio/mpeg":      "mp3",
	"audio/mp3":       "mp3",
	"audio/ogg":       "ogg",
	"application/ogg": "ogg",
	"audio/vorbis":    "ogg",
	"audio/aiff":      "aiff",
	"audio/x-aiff":    "aiff",
}

// HTTPLoader fetches audio with a GET request. The decoder is chosen by the
// URL path extension, falling back to the response Content-Type.
type HTTPLoader struct {
	client HTTPDoer
	opts   Options
}

func NewHTTPLoader(client HTTPDoer, opts Options) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPLoader{client: client, opts: opts}
}

func (l *HTTPLoader) Load(ctx context.Context, rawURL string) (*audio.Buffer, error) {
	if l.opts.Registry == nil {
		return nil, wrap(rawURL, ErrNoRegistry)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, wrap(rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, wrap(rawURL, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, wrap(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, wrap(rawURL, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status))
	}

	dec, ok := l.decoderFor(u, resp.Header.Get("Content-Type"))
	if !ok {
		return nil, wrap(rawURL, ErrUnsupportedFormat)
	}

	// read the body up front: the go-audio decoders need to seek and the
	// transfer should not stay open while decoding
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrap(rawURL, err)
	}

	buf, err := Decode(bytes.NewReader(body), dec, l.opts)
	if err != nil {
		return nil, wrap(rawURL, err)
	}

	return buf, nil
}

func (l *HTTPLoader) decoderFor(u *url.URL, contentType string) (audio.Decoder, bool) {
	if dec, _, ok := l.opts.Registry.Lookup(u.Path); ok {
		return dec, true
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}

	format, ok := contentTypes[mt]
	if !ok {
		return nil, false
	}

	return l.opts.Registry.Get(format)
}
