// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 clamps x to [-1, 1] and scales it to the full int16 range.
// Negative values scale by 32768 and positive ones by 32767 so that both
// ends of the range are reachable without overflow.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return 32767
	case x <= -1:
		return -32768
	case x < 0:
		return int16(x * 32768.0)
	default:
		return int16(x * 32767.0)
	}
}

// Float32sToInts converts a block of samples into dst for use with int
// based PCM encoders. dst must be at least as long as src.
func Float32sToInts(dst []int, src []float32) {
	for i, v := range src {
		dst[i] = int(Float32ToInt16(v))
	}
}
