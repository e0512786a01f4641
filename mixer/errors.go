// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	// ErrInvalidParameter is returned for out of range gain, pan, offset or
	// configuration values. Parameters are never clamped silently.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrAlreadyPlaying is returned by Play on a track or mixer that is
	// already playing. The running playback is left untouched.
	ErrAlreadyPlaying = errors.New("already playing")

	// ErrBusy is returned by LoadFile while another load on the same track
	// is in flight.
	ErrBusy = errors.New("track is busy loading")

	// ErrNotLoaded is returned when an operation needs a decoded buffer.
	ErrNotLoaded = errors.New("track has no buffer loaded")

	// ErrDuplicateID is returned by LoadTrack for an id already registered.
	ErrDuplicateID = errors.New("duplicate track id")

	// ErrReleased is returned by operations on a released track or mixer.
	ErrReleased = errors.New("released")
)
