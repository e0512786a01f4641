// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/mixer"
)

func (a *app) mixdown(args []string) error {
	fs := flag.NewFlagSet("mixdown", flag.ContinueOnError)
	out := fs.String("o", "mixdown.wav", "output WAV file")
	master := fs.Float64("master", 1, "master volume")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("mixdown: no input files")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mx, err := audmix.NewMixer(a.cfg.Mixer(a.log), mixer.Discard, a.client)
	if err != nil {
		return err
	}
	defer mx.Release()

	if err := mx.SetMasterVolume(*master); err != nil {
		return err
	}

	for i, source := range fs.Args() {
		tr, err := mx.LoadTrack(fmt.Sprintf("%02d", i+1), filepath.Base(source))
		if err != nil {
			return err
		}
		if err := tr.LoadFile(ctx, source); err != nil {
			return err
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("mixdown: %w", err)
	}
	defer f.Close()

	w, err := wav.NewWriter(f, mx.SampleRate(), 2)
	if err != nil {
		return err
	}

	frames, err := mx.Mixdown(ctx, w)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	a.log.Info("mixdown written", "file", *out, "frames", frames,
		"seconds", float64(frames)/float64(mx.SampleRate()))

	return nil
}
