// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams through
// github.com/jfreymuth/oggvorbis.
//
// Vorbis decodes straight to float32, so samples pass through without
// conversion. Reads are trimmed to whole frames.
package vorbis
