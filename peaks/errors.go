// SPDX-License-Identifier: EPL-2.0

package peaks

import "errors"

var (
	// ErrInvalidBits is returned for a quantization width other than 8, 16 or 32.
	ErrInvalidBits = errors.New("invalid number of bits specified for peaks")

	// ErrInvalidSamplesPerPixel is returned for a window that is not positive.
	ErrInvalidSamplesPerPixel = errors.New("samples per pixel must be positive")

	// ErrInvalidCue is returned when the cue range does not fit the channel.
	ErrInvalidCue = errors.New("cue range outside channel")

	// ErrChannelLength is returned when channels hold different sample counts.
	ErrChannelLength = errors.New("channels differ in length")
)
