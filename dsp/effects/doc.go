// Package effects provides the voice-colouring stages that run after pitch
// and tempo changes.
//
//   - Echo: single feed-forward tap, out[i] = in[i] + gain*in[i-delay].
//   - DeepVoice: resample, restore length, boost and low-pass.
//
// Pitch shifting lives in the pitch subpackage. Every stage returns a buffer
// of the same length as its input and never clips.
package effects
