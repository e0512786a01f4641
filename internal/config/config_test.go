// SPDX-License-Identifier: EPL-2.0

package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

var envVars = []string{
	"AUDMIX_SAMPLE_RATE", "AUDMIX_QUANTUM_MS", "AUDMIX_RESOLUTION",
	"AUDMIX_PEAK_WINDOW", "AUDMIX_PEAK_BITS", "AUDMIX_HTTP_TIMEOUT",
	"AUDMIX_HISTORY_FILE", "AUDMIX_LOG_LEVEL",
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := Load()

	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.SampleRate)
	}
	if cfg.Quantum != 10*time.Millisecond {
		t.Errorf("Quantum = %v, want 10ms", cfg.Quantum)
	}
	if cfg.Resolution != 1000 {
		t.Errorf("Resolution = %d, want 1000", cfg.Resolution)
	}
	if cfg.PeakSamplesPerPixel != 1000 || cfg.PeakBits != 8 {
		t.Errorf("peaks = %d/%d, want 1000/8", cfg.PeakSamplesPerPixel, cfg.PeakBits)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if cfg.HistoryFile == "" {
		t.Error("HistoryFile is empty")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AUDMIX_SAMPLE_RATE", "48000")
	t.Setenv("AUDMIX_QUANTUM_MS", "5")
	t.Setenv("AUDMIX_RESOLUTION", "512")
	t.Setenv("AUDMIX_PEAK_WINDOW", "256")
	t.Setenv("AUDMIX_PEAK_BITS", "16")
	t.Setenv("AUDMIX_HTTP_TIMEOUT", "2.5")
	t.Setenv("AUDMIX_HISTORY_FILE", "/tmp/hist")
	t.Setenv("AUDMIX_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d", cfg.SampleRate)
	}
	if cfg.Quantum != 5*time.Millisecond {
		t.Errorf("Quantum = %v", cfg.Quantum)
	}
	if cfg.Resolution != 512 {
		t.Errorf("Resolution = %d", cfg.Resolution)
	}
	if cfg.PeakSamplesPerPixel != 256 || cfg.PeakBits != 16 {
		t.Errorf("peaks = %d/%d", cfg.PeakSamplesPerPixel, cfg.PeakBits)
	}
	if cfg.HTTPTimeout != 2500*time.Millisecond {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.HistoryFile != "/tmp/hist" {
		t.Errorf("HistoryFile = %q", cfg.HistoryFile)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}

	m := cfg.Mixer(slog.Default())
	if m.SampleRate != 48000 || m.PeakBits != 16 || m.Logger == nil {
		t.Errorf("Mixer config = %+v", m)
	}
}

func TestLoadInvalidFallsBack(t *testing.T) {
	t.Setenv("AUDMIX_SAMPLE_RATE", "fast")
	t.Setenv("AUDMIX_HTTP_TIMEOUT", "soon")
	t.Setenv("AUDMIX_LOG_LEVEL", "loud")

	cfg := Load()

	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want default", cfg.SampleRate)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want default", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want default", cfg.LogLevel)
	}
}
