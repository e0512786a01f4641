// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/loader"
	"github.com/ik5/audmix/peaks"
)

func (a *app) peaks(args []string) error {
	fs := flag.NewFlagSet("peaks", flag.ContinueOnError)
	window := fs.Int("window", a.cfg.PeakSamplesPerPixel, "samples per peak window")
	bits := fs.Int("bits", a.cfg.PeakBits, "quantization bits (8, 16 or 32)")
	stereo := fs.Bool("stereo", false, "keep channels apart instead of averaging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("peaks: expected one file or URL")
	}

	ld := loader.New(loader.Options{Registry: audmix.NewRegistry()}, a.client)
	buf, err := ld.Load(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	data, err := peaks.Extract(buf.Channels(), peaks.Options{
		SamplesPerPixel: *window,
		Bits:            *bits,
		Mono:            !*stereo,
	})
	if err != nil {
		return err
	}

	a.log.Debug("peaks extracted", "source", fs.Arg(0), "windows", data.Length)

	return json.NewEncoder(os.Stdout).Encode(data)
}
