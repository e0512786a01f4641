// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 and 32 bits is supported for any channel count
// and sample rate. Samples are normalized to float32 in [-1.0, 1.0):
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not an AIFF container
//	}
//
// go-audio needs an io.ReadSeeker. Other readers are read fully into memory
// before parsing.
package aiff
