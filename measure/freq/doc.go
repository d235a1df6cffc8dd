// Package freq estimates the dominant frequency of a clip.
//
// Two estimators are provided:
//   - Autocorrelation: FFT-based autocorrelation with parabolic peak
//     interpolation, robust for periodic material such as voiced speech.
//   - SpectralPeak: Hann-windowed magnitude spectrum peak with parabolic
//     interpolation, exact for pure tones.
package freq
