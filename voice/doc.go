// Package voice runs the voice-changer pipeline over decoded clips.
//
// A Pipeline applies, in this fixed order:
//
//	pitch shift -> time stretch -> echo (optional) -> deep voice (optional)
//
// Each stage consumes the previous stage's whole output and returns a new
// buffer. Channels are processed independently with the same settings. The
// sample rate is unchanged at the pipeline boundary, so callers re-encode at
// the input rate.
package voice
