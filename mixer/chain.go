// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"math"

	"github.com/ik5/audmix/audio"
)

// outputChannels is the width of the master bus and every Sink.
const outputChannels = 2

// Stage is one node of the signal chain.
type Stage int

const (
	StageSource Stage = iota
	StageGain
	StagePan
	StageTrackAnalyzer
	StageMasterGain
	StageMasterAnalyzer
	StageSink
)

var stageNames = [...]string{
	StageSource:         "source",
	StageGain:           "gain",
	StagePan:            "pan",
	StageTrackAnalyzer:  "track-analyzer",
	StageMasterGain:     "master-gain",
	StageMasterAnalyzer: "master-analyzer",
	StageSink:           "sink",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}

	return stageNames[s]
}

// Topology is the order every voice is routed through.
var Topology = []Stage{
	StageSource,
	StageGain,
	StagePan,
	StageTrackAnalyzer,
	StageMasterGain,
	StageMasterAnalyzer,
	StageSink,
}

// voice is one playback of a buffer placed on the render timeline.
type voice struct {
	buf    *audio.Buffer
	start  int64 // timeline frame where playback begins
	offset int   // buffer frame heard at start
	done   chan error
}

// position maps a timeline frame to a buffer frame; negative means not
// started yet.
func (v *voice) position(frame int64) int64 {
	if frame < v.start {
		return -1
	}

	return int64(v.offset) + frame - v.start
}

func (v *voice) finish(err error) {
	v.done <- err
	close(v.done)
}

// chain is the per-track part of the signal path: gain, pan and the track
// meter. The master stages live on the Bus.
type chain struct {
	pan   *param
	meter *Analyzer // nil when rendering offline
}

func newChain(pan *param, meter *Analyzer) *chain {
	return &chain{pan: pan, meter: meter}
}

// Stages reports the wired topology.
func (c *chain) Stages() []Stage {
	return append([]Stage(nil), Topology...)
}

// mix renders n frames of v starting at timeline frame base into scratch,
// meters them, and adds them to mix. Both slices hold interleaved stereo.
// It reports whether the voice has run off the end of its buffer.
func (c *chain) mix(mix, scratch []float32, v *voice, base int64, n int, gain float32) bool {
	scratch = scratch[:n*outputChannels]
	clear(scratch)

	length := int64(v.buf.Len())
	left := v.buf.Channel(0)
	right := left
	stereo := v.buf.NumChannels() > 1
	if stereo {
		right = v.buf.Channel(1)
	}

	gl, gr, cross := panGains(c.pan.Load(), stereo)

	for f := range n {
		pos := v.position(base + int64(f))
		if pos < 0 || pos >= length {
			continue
		}

		l := left[pos] * gain
		r := right[pos] * gain
		if !stereo {
			scratch[f*2] = l * gl
			scratch[f*2+1] = l * gr
			continue
		}
		// cross routes the attenuated side into the other channel
		if cross < 0 {
			scratch[f*2] = l + r*gl
			scratch[f*2+1] = r * gr
		} else {
			scratch[f*2] = l * gl
			scratch[f*2+1] = r + l*gr
		}
	}

	if c.meter != nil {
		c.meter.Write(scratch, outputChannels)
	}
	for i, s := range scratch {
		mix[i] += s
	}

	return v.position(base+int64(n)) >= length
}

// panGains implements the equal-power StereoPannerNode law. For mono input
// gl and gr scale the single channel; for stereo input they apply to the
// side being panned away from and cross tells which side that is.
func panGains(pan float64, stereo bool) (gl, gr float32, cross int) {
	if !stereo {
		x := (pan + 1) / 2
		return float32(math.Cos(x * math.Pi / 2)), float32(math.Sin(x * math.Pi / 2)), 0
	}

	if pan <= 0 {
		x := pan + 1
		return float32(math.Cos(x * math.Pi / 2)), float32(math.Sin(x * math.Pi / 2)), -1
	}

	x := pan
	return float32(math.Cos(x * math.Pi / 2)), float32(math.Sin(x * math.Pi / 2)), 1
}
