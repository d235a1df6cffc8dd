// Package pitch shifts the perceived pitch of a clip while keeping its
// duration.
//
// Shifter time-stretches by 2^(-semitones/12) with the phase vocoder from
// dsp/stretch and band-limits the result back to the original duration with
// dsp/resample. The output always has the input's length.
package pitch
