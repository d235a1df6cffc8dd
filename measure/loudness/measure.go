package loudness

import (
	"math"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// Result summarises a whole clip.
type Result struct {
	// Integrated is the gated programme loudness in LUFS.
	Integrated float64
	// Peak is the sample peak in dBFS.
	Peak float64
}

// Measure runs a fresh meter over a planar clip. Clips shorter than 400 ms
// are measured as if they were followed by silence up to one block.
func Measure(channels [][]float64, sampleRate float64) (Result, error) {
	m, err := NewMeter(sampleRate, len(channels))
	if err != nil {
		return Result{}, err
	}

	if err := m.Process(channels); err != nil {
		return Result{}, err
	}

	if len(m.blocks) == 0 {
		pad := int(math.Round(momentarySeconds*sampleRate)) - m.filled + m.stepLen
		if pad > 0 {
			silence := make([][]float64, len(channels))
			for i := range silence {
				silence[i] = make([]float64, pad)
			}

			if err := m.Process(silence); err != nil {
				return Result{}, err
			}
		}
	}

	peak := Floor
	if p := m.Peak(); p > 0 {
		peak = math.Max(Floor, core.LinearToDB(p))
	}

	return Result{Integrated: m.Integrated(), Peak: peak}, nil
}
