// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{"zero", 0, 0},
		{"max positive", 1, math.MaxInt16},
		{"max negative", -1, math.MinInt16},
		{"half positive", 0.5, 16383},
		{"half negative", -0.5, -16384},
		{"small positive", 0.001, 32},
		{"small negative", -0.001, -32},
		{"clamp over max", 1.5, math.MaxInt16},
		{"clamp under min", -100, math.MinInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloat32sToInts(t *testing.T) {
	t.Parallel()

	src := []float32{-1, 0, 1}
	dst := make([]int, 3)
	Float32sToInts(dst, src)

	want := []int{math.MinInt16, 0, math.MaxInt16}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestFloat32ToInt16_NoAllocs(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		_ = Float32ToInt16(0.5)
	})
	if allocs != 0 {
		t.Errorf("Float32ToInt16 allocated %v times, want 0", allocs)
	}
}
