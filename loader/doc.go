// SPDX-License-Identifier: EPL-2.0

// Package loader turns a path or URL into a decoded audio.Buffer.
//
// Loading strategies are picked by the caller. FileLoader reads the local
// file system, HTTPLoader issues a GET, and Auto dispatches on the URL
// scheme. Func adapts any function, which is handy for tests and for
// sources the package does not know about.
//
//	reg := audmix.NewRegistry()
//	ld := loader.New(loader.Options{Registry: reg, SampleRate: 44100}, nil)
//	buf, err := ld.Load(ctx, "https://example.com/takes/3.ogg")
//
// Every failure is reported as a *LoadError carrying the source and the
// cause, so callers can use errors.As regardless of the strategy.
package loader
