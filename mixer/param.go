// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"
	"sync/atomic"
)

// param is a float64 shared between the control side and the render loop
// without a lock.
type param struct {
	bits atomic.Uint64
}

func newParam(v float64) *param {
	p := &param{}
	p.Store(v)

	return p
}

func (p *param) Load() float64   { return math.Float64frombits(p.bits.Load()) }
func (p *param) Store(v float64) { p.bits.Store(math.Float64bits(v)) }

// inRange rejects NaN together with anything outside [lo, hi].
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
