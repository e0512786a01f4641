// SPDX-License-Identifier: EPL-2.0

// Package peaks computes min/max envelopes of decoded audio for waveform
// drawing.
//
// A channel is cut into windows of SamplesPerPixel samples. Every window is
// scanned once for its minimum and maximum, and both are quantized to a
// signed 8, 16 or 32 bit integer:
//
//	scale = 2^(bits-1)
//	q     = v < 0 ? v*scale : v*scale - 1
//	q     = clip(q, -scale, scale-1), truncated toward zero
//
// For [0.5, -0.5, 0.9, -0.9] with two samples per window at 8 bits the
// result is [-64, 63, -115, 114].
//
// Multi-channel input can be folded into a single mono summary. The fold
// averages the already quantized values, not the raw samples.
package peaks
