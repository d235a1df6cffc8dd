// Package stft provides centred short-time Fourier analysis and weighted
// overlap-add resynthesis for whole, in-memory clips.
//
// Frames are centred on multiples of the hop size: the signal is treated as
// zero-padded by FrameSize/2 on both sides, so a clip of n samples yields
// 1 + n/hop frames. Each frame stores the non-negative half spectrum
// (FrameSize/2 + 1 bins). Synthesis divides the overlap-added output by the
// summed squared window, which makes Analyze followed by Synthesize an
// identity up to floating-point rounding.
package stft
