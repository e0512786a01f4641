// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/mixer"
)

const shellHelp = `commands:
  load <id> <file|url>   create track id (if needed) and load audio into it
  tracks                 list tracks
  play [id] [offset]     play every track, or one track from offset seconds
  stop [id]              stop everything, or one track
  vol <id> <0..1>        track volume
  pan <id> <-1..1>       track pan
  mute|unmute <id>       mute overlay
  solo|unsolo <id>       solo overlay
  master <0..1>          master volume
  mutemaster|unmutemaster
  time [seconds]         show or set the session position
  peak [id]              current meter level of a track or the master
  clear <id>             drop the track buffer
  release <id>           remove the track
  bounce <out.wav>       render every loaded track to a file
  help
  exit
`

// shell is an interactive mixer. Output goes to the discard sink; the
// session is driven for its meters, timing and bounces.
func (a *app) shell() error {
	mx, err := audmix.NewMixer(a.cfg.Mixer(a.log), mixer.Discard, a.client)
	if err != nil {
		return err
	}
	defer mx.Release()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "audmix> ",
		HistoryFile: a.cfg.HistoryFile,
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("load"), readline.PcItem("tracks"),
			readline.PcItem("play"), readline.PcItem("stop"),
			readline.PcItem("vol"), readline.PcItem("pan"),
			readline.PcItem("mute"), readline.PcItem("unmute"),
			readline.PcItem("solo"), readline.PcItem("unsolo"),
			readline.PcItem("master"), readline.PcItem("mutemaster"),
			readline.PcItem("unmutemaster"), readline.PcItem("time"),
			readline.PcItem("peak"), readline.PcItem("clear"),
			readline.PcItem("release"), readline.PcItem("bounce"),
			readline.PcItem("help"), readline.PcItem("exit"),
		),
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	sh := &session{mx: mx, out: rl.Stdout()}
	fmt.Fprint(sh.out, shellHelp)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("readline: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}

		if err := sh.run(fields[0], fields[1:]); err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
}

type session struct {
	mx  *mixer.Mixer
	out io.Writer
}

var errUsage = errors.New("wrong arguments, see help")

func (s *session) track(id string) (*mixer.Track, error) {
	tr, ok := s.mx.Track(id)
	if !ok {
		return nil, fmt.Errorf("no track %q", id)
	}

	return tr, nil
}

func (s *session) run(cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprint(s.out, shellHelp)

	case "load":
		if len(args) != 2 {
			return errUsage
		}
		tr, ok := s.mx.Track(args[0])
		if !ok {
			var err error
			if tr, err = s.mx.LoadTrack(args[0], args[1]); err != nil {
				return err
			}
		}
		if err := tr.LoadFile(context.Background(), args[1]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s: %.2fs\n", tr.ID(), tr.Duration())

	case "tracks":
		for _, tr := range s.mx.Tracks() {
			flags := ""
			if tr.IsMuted() {
				flags += " muted"
			}
			if tr.IsSoloed() {
				flags += " solo"
			}
			fmt.Fprintf(s.out, "%-10s %-8s %6.2fs vol %.2f pan %+.2f%s\n",
				tr.ID(), tr.State(), tr.Duration(), tr.Volume(), tr.Pan(), flags)
		}

	case "play":
		return s.play(args)

	case "stop":
		if len(args) == 0 {
			s.mx.Stop()
			return nil
		}
		tr, err := s.track(args[0])
		if err != nil {
			return err
		}
		tr.Stop()

	case "vol", "pan":
		if len(args) != 2 {
			return errUsage
		}
		tr, err := s.track(args[0])
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return err
		}
		if cmd == "vol" {
			return tr.SetVolume(v)
		}
		return tr.SetPan(v)

	case "mute", "unmute", "solo", "unsolo", "clear", "release":
		if len(args) != 1 {
			return errUsage
		}
		tr, err := s.track(args[0])
		if err != nil {
			return err
		}
		map[string]func(){
			"mute":    tr.Mute,
			"unmute":  tr.UnMute,
			"solo":    tr.Solo,
			"unsolo":  tr.UnSolo,
			"clear":   tr.ClearBuffer,
			"release": tr.Release,
		}[cmd]()

	case "master":
		if len(args) != 1 {
			return errUsage
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		return s.mx.SetMasterVolume(v)

	case "mutemaster":
		s.mx.MuteMaster()

	case "unmutemaster":
		s.mx.UnMuteMaster()

	case "time":
		if len(args) == 0 {
			fmt.Fprintf(s.out, "%.3fs\n", s.mx.Time())
			return nil
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		return s.mx.SetTime(v)

	case "peak":
		if len(args) == 0 {
			fmt.Fprintf(s.out, "master %d\n", s.mx.MasterPeak())
			return nil
		}
		tr, err := s.track(args[0])
		if err != nil {
			return err
		}
		if p, ok := tr.Peak(); ok {
			fmt.Fprintf(s.out, "%s %d\n", tr.ID(), p)
		} else {
			fmt.Fprintf(s.out, "%s has not played yet\n", tr.ID())
		}

	case "bounce":
		if len(args) != 1 {
			return errUsage
		}
		return s.bounce(args[0])

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}

func (s *session) play(args []string) error {
	if len(args) == 0 {
		done := s.mx.Play()
		go func() {
			if err := <-done; err != nil {
				fmt.Fprintf(s.out, "playback: %v\n", err)
			}
		}()
		return nil
	}

	tr, err := s.track(args[0])
	if err != nil {
		return err
	}
	offset := 0.0
	if len(args) > 1 {
		if offset, err = strconv.ParseFloat(args[1], 64); err != nil {
			return err
		}
	}

	done := tr.Play(offset)
	go func() {
		if err := <-done; err != nil {
			fmt.Fprintf(s.out, "%s: %v\n", tr.ID(), err)
		}
	}()

	return nil
}

func (s *session) bounce(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := wav.NewWriter(f, s.mx.SampleRate(), 2)
	if err != nil {
		return err
	}
	frames, err := s.mx.Mixdown(context.Background(), w)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "wrote %s (%.2fs)\n", path, float64(frames)/float64(s.mx.SampleRate()))

	return nil
}
