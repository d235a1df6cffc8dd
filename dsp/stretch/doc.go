// Package stretch changes the duration of a clip without changing its pitch
// using a phase vocoder over a centred STFT.
//
// A rate above 1 shortens the clip, a rate below 1 lengthens it. The output
// of Process always holds round(len(input)/rate) samples.
package stretch
