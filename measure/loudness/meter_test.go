package loudness

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

func TestMeterSine(t *testing.T) {
	const sr = 48000.0

	// A full-scale 1 kHz sine has mean square 0.5 and the K-weighting adds
	// about +0.67 dB at 1 kHz: -0.691 + 10*log10(0.5*1.167) = -3.03 LUFS.
	const want = -3.03

	m, err := NewMeter(sr, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Process([][]float64{testutil.DeterministicSine(1000, sr, 1, 4*sr)}); err != nil {
		t.Fatal(err)
	}

	for name, got := range map[string]float64{
		"momentary":  m.Momentary(),
		"short-term": m.ShortTerm(),
		"integrated": m.Integrated(),
	} {
		if math.Abs(got-want) > 0.2 {
			t.Errorf("%s = %.3f LUFS, want %.2f", name, got, want)
		}
	}
}

func TestMeterStereoSumsChannels(t *testing.T) {
	const sr = 48000.0

	sig := testutil.DeterministicSine(1000, sr, 1, 2*sr)

	mono, err := Measure([][]float64{sig}, sr)
	if err != nil {
		t.Fatal(err)
	}

	stereo, err := Measure([][]float64{sig, sig}, sr)
	if err != nil {
		t.Fatal(err)
	}

	if d := stereo.Integrated - mono.Integrated; math.Abs(d-3.01) > 0.05 {
		t.Fatalf("stereo - mono = %.3f dB, want 3.01", d)
	}
}

func TestMeterRelativeGate(t *testing.T) {
	const sr = 48000.0

	loud := testutil.DeterministicSine(1000, sr, 1, 4*sr)
	quiet := testutil.DeterministicSine(1000, sr, 0.01, 4*sr)

	res, err := Measure([][]float64{append(loud, quiet...)}, sr)
	if err != nil {
		t.Fatal(err)
	}

	// The -40 dB tail falls below the relative gate and is ignored.
	if math.Abs(res.Integrated-(-3.03)) > 0.5 {
		t.Fatalf("integrated = %.3f LUFS, want about -3.03", res.Integrated)
	}
}

func TestMeasureSilence(t *testing.T) {
	res, err := Measure([][]float64{make([]float64, 48000)}, 48000)
	if err != nil {
		t.Fatal(err)
	}

	if res.Integrated != Floor || res.Peak != Floor {
		t.Fatalf("silence = %+v, want floor", res)
	}
}

func TestMeasurePeakAndShortClip(t *testing.T) {
	const sr = 16000.0

	res, err := Measure([][]float64{testutil.DeterministicSine(500, sr, 0.5, 1600)}, sr)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(res.Peak-(-6.02)) > 0.05 {
		t.Fatalf("peak = %.3f dBFS, want -6.02", res.Peak)
	}

	if res.Integrated <= Floor || res.Integrated > -9 {
		t.Fatalf("integrated = %.3f LUFS, want a finite level below -9", res.Integrated)
	}
}

func TestMeterBlockSizeIndependent(t *testing.T) {
	const sr = 8000.0

	x := testutil.DeterministicNoise(7, 0.5, 3*sr)
	orig := append([]float64(nil), x...)

	whole, err := NewMeter(sr, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := whole.Process([][]float64{x}); err != nil {
		t.Fatal(err)
	}

	split, err := NewMeter(sr, 1)
	if err != nil {
		t.Fatal(err)
	}

	rest := x
	for _, size := range []int{1, 37, 0, 4800, 511} {
		if err := split.Process([][]float64{rest[:size]}); err != nil {
			t.Fatal(err)
		}

		rest = rest[size:]
	}

	if err := split.Process([][]float64{rest}); err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, x, orig, 0)

	for name, pair := range map[string][2]float64{
		"momentary":  {whole.Momentary(), split.Momentary()},
		"short-term": {whole.ShortTerm(), split.ShortTerm()},
		"integrated": {whole.Integrated(), split.Integrated()},
		"peak":       {whole.Peak(), split.Peak()},
	} {
		if math.Abs(pair[0]-pair[1]) > 1e-9 {
			t.Errorf("%s: whole %v, split %v", name, pair[0], pair[1])
		}
	}
}

func TestMeterReset(t *testing.T) {
	m, err := NewMeter(8000, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Process([][]float64{testutil.DeterministicSine(440, 8000, 1, 8000)}); err != nil {
		t.Fatal(err)
	}

	m.Reset()

	if m.Integrated() != Floor || m.Momentary() != Floor || m.Peak() != 0 {
		t.Fatal("reset meter still reports signal")
	}
}

func TestMeterValidation(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewMeter(sr, 1); !errors.Is(err, ErrInvalidSampleRate) {
			t.Fatalf("NewMeter(%v) err = %v", sr, err)
		}
	}

	if _, err := NewMeter(48000, 0); !errors.Is(err, ErrInvalidChannels) {
		t.Fatalf("NewMeter(0 channels) err = %v", err)
	}

	m, err := NewMeter(48000, 2)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Process([][]float64{{0}}); !errors.Is(err, ErrInvalidChannels) {
		t.Fatalf("channel mismatch err = %v", err)
	}

	if err := m.Process([][]float64{{0, 1}, {0}}); !errors.Is(err, ErrInvalidChannels) {
		t.Fatalf("ragged err = %v", err)
	}

	if _, err := Measure(nil, 48000); !errors.Is(err, ErrInvalidChannels) {
		t.Fatalf("Measure(nil) err = %v", err)
	}
}
