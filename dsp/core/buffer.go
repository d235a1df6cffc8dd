package core

// FixLength returns a new slice of exactly n samples holding the head of in.
// Longer input is truncated, shorter input is zero-padded at the end.
func FixLength(in []float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	copy(out, in)
	return out
}

// Clone returns a copy of in that shares no memory with it.
func Clone(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}

// IsSilent reports whether every sample of buf is exactly zero.
func IsSilent(buf []float64) bool {
	for _, v := range buf {
		if v != 0 {
			return false
		}
	}
	return true
}
