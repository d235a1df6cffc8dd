package loudness

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/filter/biquad"
	"github.com/cwbudde/algo-voice/dsp/filter/design"
)

const (
	// K-weighting stage 1 (head shelf) and stage 2 (RLB high-pass).
	shelfFreq   = 1500.0
	shelfGainDB = 4.0
	rlbFreq     = 38.0

	momentarySeconds = 0.4
	shortTermSeconds = 3.0

	// Gating blocks are momentary windows taken every 100 ms.
	blockStepSeconds = 0.1

	absoluteGate = -70.0
	relativeGate = -10.0

	// Floor reports silence.
	Floor = -120.0
)

var (
	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("loudness: invalid sample rate")
	// ErrInvalidChannels is returned when the channel count does not match.
	ErrInvalidChannels = errors.New("loudness: invalid channel count")
)

// window is a running sum of squares over the last len(hist) samples.
type window struct {
	hist []float64
	pos  int
	sum  float64
}

func newWindow(n int) window { return window{hist: make([]float64, max(n, 1))} }

func (w *window) push(sq float64) {
	w.sum += sq - w.hist[w.pos]
	if w.sum < 0 {
		w.sum = 0
	}

	w.hist[w.pos] = sq

	w.pos++
	if w.pos == len(w.hist) {
		w.pos = 0
	}
}

func (w *window) meanSquare() float64 { return w.sum / float64(len(w.hist)) }

func (w *window) reset() {
	clear(w.hist)
	w.pos = 0
	w.sum = 0
}

type channelState struct {
	shelf, rlb *biquad.Section
	momentary  window
	shortTerm  window
	peak       float64
	weighted   []float64
}

// Meter is a streaming loudness meter for planar (one slice per channel)
// audio. All channels carry weight 1.
type Meter struct {
	sampleRate float64
	channels   []channelState

	stepLen   int
	sinceStep int
	filled    int
	blocks    []float64
}

// NewMeter creates a meter for the given rate and channel count.
func NewMeter(sampleRate float64, channels int) (*Meter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}

	shelf := design.HighShelf(shelfFreq, shelfGainDB, 0, sampleRate)
	rlb := design.Highpass(rlbFreq, 0, sampleRate)

	m := &Meter{
		sampleRate: sampleRate,
		channels:   make([]channelState, channels),
		stepLen:    max(int(math.Round(blockStepSeconds*sampleRate)), 1),
	}

	for i := range m.channels {
		m.channels[i] = channelState{
			shelf:     biquad.NewSection(shelf),
			rlb:       biquad.NewSection(rlb),
			momentary: newWindow(int(math.Round(momentarySeconds * sampleRate))),
			shortTerm: newWindow(int(math.Round(shortTermSeconds * sampleRate))),
		}
	}

	return m, nil
}

// Reset clears filter state, windows, gating blocks and peaks.
func (m *Meter) Reset() {
	for i := range m.channels {
		ch := &m.channels[i]
		ch.shelf.Reset()
		ch.rlb.Reset()
		ch.momentary.reset()
		ch.shortTerm.reset()
		ch.peak = 0
	}

	m.sinceStep = 0
	m.filled = 0
	m.blocks = m.blocks[:0]
}

// Process feeds one block of planar audio. All channel slices must have the
// same length.
func (m *Meter) Process(block [][]float64) error {
	if len(block) != len(m.channels) {
		return fmt.Errorf("%w: got %d, meter has %d", ErrInvalidChannels, len(block), len(m.channels))
	}

	n := len(block[0])
	for _, ch := range block[1:] {
		if len(ch) != n {
			return fmt.Errorf("%w: ragged block", ErrInvalidChannels)
		}
	}

	for c := range m.channels {
		st := &m.channels[c]

		for _, x := range block[c] {
			if a := math.Abs(x); a > st.peak {
				st.peak = a
			}
		}

		if cap(st.weighted) < n {
			st.weighted = make([]float64, n)
		}

		st.weighted = st.weighted[:n]
		st.shelf.ProcessBlockTo(st.weighted, block[c])
		st.rlb.ProcessBlock(st.weighted)
	}

	blockLen := len(m.channels[0].momentary.hist)

	for i := range n {
		for c := range m.channels {
			st := &m.channels[c]
			y := st.weighted[i]
			st.momentary.push(y * y)
			st.shortTerm.push(y * y)
		}

		m.filled++

		m.sinceStep++
		if m.sinceStep == m.stepLen {
			m.sinceStep = 0

			// Only complete 400 ms blocks take part in gating.
			if m.filled >= blockLen {
				m.blocks = append(m.blocks, m.power(func(st *channelState) *window { return &st.momentary }))
			}
		}
	}

	return nil
}

// Momentary returns the loudness of the last 400 ms in LUFS.
func (m *Meter) Momentary() float64 {
	return toLUFS(m.power(func(st *channelState) *window { return &st.momentary }))
}

// ShortTerm returns the loudness of the last 3 s in LUFS.
func (m *Meter) ShortTerm() float64 {
	return toLUFS(m.power(func(st *channelState) *window { return &st.shortTerm }))
}

// Integrated returns the gated loudness of everything processed since the
// last Reset, or Floor when no block passes the gates.
func (m *Meter) Integrated() float64 {
	var sum float64

	var count int

	for _, b := range m.blocks {
		if toLUFS(b) > absoluteGate {
			sum += b
			count++
		}
	}

	if count == 0 {
		return Floor
	}

	gate := toLUFS(sum/float64(count)) + relativeGate
	sum, count = 0, 0

	for _, b := range m.blocks {
		if l := toLUFS(b); l > absoluteGate && l > gate {
			sum += b
			count++
		}
	}

	if count == 0 {
		return Floor
	}

	return toLUFS(sum / float64(count))
}

// Peak returns the largest absolute sample seen on any channel.
func (m *Meter) Peak() float64 {
	var p float64
	for i := range m.channels {
		p = max(p, m.channels[i].peak)
	}

	return p
}

func (m *Meter) power(sel func(*channelState) *window) float64 {
	var sum float64
	for i := range m.channels {
		sum += sel(&m.channels[i]).meanSquare()
	}

	return sum
}

func toLUFS(power float64) float64 {
	if power <= 0 {
		return Floor
	}

	return math.Max(Floor, -0.691+10*math.Log10(power))
}
