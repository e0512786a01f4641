// SPDX-License-Identifier: EPL-2.0

// Package mixer plays several decoded tracks in sync through a shared
// master bus.
//
// A Mixer runs a render timeline on its own goroutine. Every quantum it
// pulls frames from each playing track, applies the track gain and stereo
// pan, meters the result, sums it into the master bus, applies the master
// gain and hands interleaved stereo float32 to a Sink:
//
//	source -> gain -> pan -> track analyzer -> master gain -> master analyzer -> sink
//
// Tracks are created with LoadTrack and filled with LoadFile, which goes
// through a loader.Loader:
//
//	mx, err := mixer.New(mixer.DefaultConfig(), loader.New(opts, nil), mixer.Discard)
//	drums, _ := mx.LoadTrack("drums", "Drums")
//	if err := drums.LoadFile(ctx, "drums.wav"); err != nil {
//	    return err
//	}
//	err = <-mx.Play()
//
// Play on a Track or Mixer returns a channel that yields once playback has
// ended, either at the end of the buffer or because of Stop. Mixer.Play
// starts every loaded track on the same timeline frame so they stay sample
// aligned.
//
// Mute and solo are overlays: the stored volume is kept while a track is
// muted or silenced by another track's solo.
//
// Mixdown renders the same chain offline, for example into a wav.Writer.
package mixer
