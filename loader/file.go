// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/ik5/audmix/audio"
)

// FileLoader reads audio from the local file system. The decoder is chosen
// by file extension.
type FileLoader struct {
	opts Options
}

func NewFileLoader(opts Options) *FileLoader {
	return &FileLoader{opts: opts}
}

func (l *FileLoader) Load(ctx context.Context, path string) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap(path, err)
	}
	if l.opts.Registry == nil {
		return nil, wrap(path, ErrNoRegistry)
	}

	dec, format, ok := l.opts.Registry.Lookup(path)
	if !ok {
		return nil, wrap(path, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, wrap(path, err)
	}
	defer f.Close()

	// the go-audio decoders seek, everything else reads sequentially
	var buf *audio.Buffer
	if format == "wav" || format == "aif" || format == "aiff" {
		buf, err = Decode(f, dec, l.opts)
	} else {
		buf, err = Decode(bufio.NewReader(f), dec, l.opts)
	}
	if err != nil {
		return nil, wrap(path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, wrap(path, err)
	}

	return buf, nil
}
