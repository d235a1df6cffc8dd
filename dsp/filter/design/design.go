package design

import (
	"math"

	"github.com/cwbudde/algo-voice/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// OnePoleLowpass designs a first-order RC low-pass with cutoff freq (Hz):
//
//	y[n] = y[n-1] + alpha*(x[n] - y[n-1]),  alpha = dt/(RC+dt)
//
// with RC = 1/(2*pi*freq) and dt = 1/sampleRate. Invalid arguments yield
// zero coefficients.
func OnePoleLowpass(freq, sampleRate float64) biquad.Coefficients {
	if !validFreq(freq) || !validFreq(sampleRate) {
		return biquad.Coefficients{}
	}

	rc := 1 / (2 * math.Pi * freq)
	dt := 1 / sampleRate
	alpha := dt / (rc + dt)

	return biquad.Coefficients{B0: alpha, A1: alpha - 1}
}

// Lowpass designs an RBJ cookbook low-pass biquad at freq (Hz) with quality
// factor q. A non-positive q selects Butterworth (1/sqrt(2)).
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	if !validFreq(q) {
		q = defaultQ
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b1 := 1 - cw
	a0 := 1 + alpha

	return biquad.Coefficients{
		B0: b1 / 2 / a0,
		B1: b1 / a0,
		B2: b1 / 2 / a0,
		A1: -2 * cw / a0,
		A2: (1 - alpha) / a0,
	}
}

// Highpass designs an RBJ cookbook high-pass biquad. A non-positive q
// selects Butterworth.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	if !validFreq(q) {
		q = defaultQ
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b1 := 1 + cw

	return normalize(b1/2, -b1, b1/2, 1+alpha, -2*cw, 1-alpha)
}

// HighShelf designs an RBJ high shelf boosting (or cutting) everything above
// freq by gainDB.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	if !validFreq(q) {
		q = defaultQ
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * alpha

	return normalize(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	return biquad.Coefficients{B0: b0 / a0, B1: b1 / a0, B2: b2 / a0, A1: a1 / a0, A2: a2 / a0}
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if !validFreq(sampleRate) || !validFreq(freq) || freq >= sampleRate/2 {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func validFreq(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
