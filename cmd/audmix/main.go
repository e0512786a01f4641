// SPDX-License-Identifier: EPL-2.0

// Command audmix inspects and mixes audio files.
//
//	audmix peaks [-window N] [-bits B] [-stereo] <file>
//	audmix mixdown -o out.wav <file>...
//	audmix shell
//
// Settings come from AUDMIX_* environment variables.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/ik5/audmix/internal/config"
)

const usage = `usage: audmix <command> [flags]

commands:
  peaks    print the waveform summary of a file as JSON
  mixdown  mix files into a 16-bit WAV
  shell    interactive mixer
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	app := &app{
		cfg:    cfg,
		log:    logger,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "peaks":
		err = app.peaks(args)
	case "mixdown":
		err = app.mixdown(args)
	case "shell":
		err = app.shell()
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

type app struct {
	cfg    config.Config
	log    *slog.Logger
	client *http.Client
}
