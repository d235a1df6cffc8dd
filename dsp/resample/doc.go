// Package resample converts sample rates with Kaiser-windowed sinc filters.
//
// Two converters share the same quality profiles:
//   - Resampler: streaming rational (up/down) conversion with a polyphase FIR.
//     Used when a whole-number ratio is known, e.g. 44100 -> 48000 Hz.
//   - Bandlimited: one-shot conversion for arbitrary real ratios. Each output
//     sample evaluates a zero-phase windowed-sinc kernel centred on its exact
//     input position, so there is no group delay to compensate.
//
// Default quality/performance matrix:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
//
// Convert wraps Resampler for whole clips and removes its group delay.
package resample
