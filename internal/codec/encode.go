package codec

import (
	"fmt"
	"io"
	"math"

	mp3encoder "github.com/braheezy/shine-mp3/pkg/mp3"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/resample"
	"github.com/cwbudde/algo-voice/voice"
)

const (
	wavBitDepth = 16

	// mp3FrameLen is the number of samples per channel in an MPEG-1 Layer III frame.
	mp3FrameLen = 1152
)

// mp3Rates are the sample rates the MP3 encoder accepts (MPEG-1, 2 and 2.5).
var mp3Rates = []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000}

// Encode writes buf to w in the given format.
func Encode(w io.WriteSeeker, buf *voice.SampleBuffer, format Format) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("%w: %w", voice.ErrEncodeFailure, err)
	}

	switch format {
	case FormatWAV:
		return encodeWAV(w, buf)
	case FormatMP3:
		return encodeMP3(w, buf)
	default:
		return fmt.Errorf("%w: unsupported format %q", voice.ErrEncodeFailure, format)
	}
}

func encodeWAV(w io.WriteSeeker, buf *voice.SampleBuffer) error {
	channels := buf.NumChannels()
	enc := wav.NewEncoder(w, buf.SampleRate, wavBitDepth, channels, wavFormatPCM)

	data := make([]int, buf.Len()*channels)
	for ch, samples := range buf.Channels {
		for i, v := range samples {
			data[i*channels+ch] = int(toPCM16(v))
		}
	}

	pcm := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: buf.SampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("%w: writing WAV samples: %w", voice.ErrEncodeFailure, err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: finalising WAV: %w", voice.ErrEncodeFailure, err)
	}

	return nil
}

func encodeMP3(w io.Writer, buf *voice.SampleBuffer) error {
	left, right := stereoPair(buf)

	rate := NearestMP3Rate(buf.SampleRate)
	if rate != buf.SampleRate {
		var err error
		if left, err = resample.Convert(left, float64(buf.SampleRate), float64(rate)); err != nil {
			return fmt.Errorf("%w: converting to %d Hz: %w", voice.ErrEncodeFailure, rate, err)
		}

		if right, err = resample.Convert(right, float64(buf.SampleRate), float64(rate)); err != nil {
			return fmt.Errorf("%w: converting to %d Hz: %w", voice.ErrEncodeFailure, rate, err)
		}
	}

	// Whole frames only; the tail is padded with silence.
	frames := (len(left) + mp3FrameLen - 1) / mp3FrameLen * mp3FrameLen
	pcm := make([]int16, 2*frames)

	for i := range left {
		pcm[2*i] = toPCM16(left[i])
		pcm[2*i+1] = toPCM16(right[i])
	}

	// The encoder is always stereo; its mono path mis-steps through input.
	enc := mp3encoder.NewEncoder(rate, 2)
	if err := enc.Write(w, pcm); err != nil {
		return fmt.Errorf("%w: encoding MP3: %w", voice.ErrEncodeFailure, err)
	}

	return nil
}

// stereoPair maps buf onto two channels: mono is duplicated, stereo is kept
// and wider layouts are downmixed to mono first.
func stereoPair(buf *voice.SampleBuffer) (left, right []float64) {
	switch buf.NumChannels() {
	case 1:
		return buf.Channels[0], buf.Channels[0]
	case 2:
		return buf.Channels[0], buf.Channels[1]
	default:
		mono := buf.Mono().Channels[0]

		return mono, mono
	}
}

// NearestMP3Rate returns the encoder sample rate closest to sampleRate,
// preferring the higher rate on ties.
func NearestMP3Rate(sampleRate int) int {
	best := mp3Rates[0]
	for _, r := range mp3Rates {
		if absInt(r-sampleRate) <= absInt(best-sampleRate) {
			best = r
		}
	}

	return best
}

func toPCM16(v float64) int16 {
	if math.IsNaN(v) {
		return 0
	}

	return int16(math.Round(core.Clamp(v, -1, 1) * math.MaxInt16))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
