// SPDX-License-Identifier: EPL-2.0

package utils

// Float is any sample type the interpolators accept.
type Float interface {
	~float32 | ~float64
}

// CubicInterpolate evaluates the Catmull-Rom segment between p1 and p2 at
// t in [0, 1]; p0 and p3 are the neighbours on either side.
func CubicInterpolate[T Float](p0, p1, p2, p3, t T) T {
	c3 := (3*(p1-p2) + p3 - p0) / 2
	c2 := p0 - (5*p1)/2 + 2*p2 - p3/2
	c1 := (p2 - p0) / 2

	return ((c3*t+c2)*t+c1)*t + p1
}
