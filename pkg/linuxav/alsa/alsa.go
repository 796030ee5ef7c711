//go:build linux

// Package alsa provides pure Go bindings to the ALSA control API for
// sound card identification. Media controller graphs report audio
// entities as ALSA card and device numbers; this package resolves
// those numbers into card names and PCM device details.
//
// This package does not use cgo, enabling simple cross-compilation for
// different Linux architectures (amd64, arm64, arm).
package alsa
