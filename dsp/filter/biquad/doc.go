// Package biquad provides the second-order IIR filter runtime.
//
// A [Section] implements Direct Form II Transposed processing for a single
// section defined by [Coefficients]. First-order filters are sections with
// B2 = A2 = 0. Coefficient design lives in dsp/filter/design.
package biquad
