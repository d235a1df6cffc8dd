// Package codec converts between audio files and voice.SampleBuffer.
//
// WAV is read and written as integer PCM with go-audio. MP3 is decoded with
// go-mp3 (always 16-bit stereo) and encoded with shine-mp3, which only takes
// interleaved stereo at the MPEG sample rates; other rates are converted with
// dsp/resample first. Samples are clipped to [-1, 1] on encode.
package codec
