// Package design provides IIR filter coefficient designers producing
// [biquad.Coefficients] for the dsp/filter/biquad runtime.
//
// OnePoleLowpass is the first-order RC smoother used for timbre darkening.
// Lowpass is the RBJ cookbook second-order low-pass with adjustable Q.
package design
