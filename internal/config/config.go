// SPDX-License-Identifier: EPL-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ik5/audmix/mixer"
)

// Config holds the CLI settings, loaded from AUDMIX_* environment variables.
type Config struct {
	// Render
	SampleRate int
	Quantum    time.Duration
	Resolution int

	// Waveforms
	PeakSamplesPerPixel int
	PeakBits            int

	// Loading
	HTTPTimeout time.Duration

	// Shell
	HistoryFile string
	LogLevel    slog.Level
}

// Load reads configuration from the environment, falling back to defaults
// for anything unset or unparsable.
func Load() Config {
	d := mixer.DefaultConfig()

	return Config{
		SampleRate: envInt("AUDMIX_SAMPLE_RATE", d.SampleRate),
		Quantum:    time.Duration(envInt("AUDMIX_QUANTUM_MS", int(d.Quantum/time.Millisecond))) * time.Millisecond,
		Resolution: envInt("AUDMIX_RESOLUTION", d.Resolution),

		PeakSamplesPerPixel: envInt("AUDMIX_PEAK_WINDOW", d.PeakSamplesPerPixel),
		PeakBits:            envInt("AUDMIX_PEAK_BITS", d.PeakBits),

		HTTPTimeout: time.Duration(envFloat("AUDMIX_HTTP_TIMEOUT", 30) * float64(time.Second)),

		HistoryFile: envStr("AUDMIX_HISTORY_FILE", filepath.Join(os.TempDir(), "audmix.history")),
		LogLevel:    envLevel("AUDMIX_LOG_LEVEL", slog.LevelInfo),
	}
}

// Mixer turns the settings into an engine configuration.
func (c Config) Mixer(logger *slog.Logger) mixer.Config {
	cfg := mixer.DefaultConfig()
	cfg.SampleRate = c.SampleRate
	cfg.Quantum = c.Quantum
	cfg.Resolution = c.Resolution
	cfg.PeakSamplesPerPixel = c.PeakSamplesPerPixel
	cfg.PeakBits = c.PeakBits
	cfg.Logger = logger

	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// envLevel accepts slog level names such as "debug" or "warn+2".
func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}
