// Package loudness measures programme loudness after ITU-R BS.1770 (as used
// by EBU R128): K-weighting, 400 ms momentary and 3 s short-term windows, and
// gated integrated loudness in LUFS.
package loudness
