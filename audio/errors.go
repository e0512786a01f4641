// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrNoChannels is returned when a buffer or source reports zero channels.
	ErrNoChannels = errors.New("audio has no channels")

	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")

	// ErrChannelLength is returned when channels of one buffer differ in length.
	ErrChannelLength = errors.New("channels differ in length")
)
