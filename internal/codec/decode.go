package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"

	"github.com/cwbudde/algo-voice/voice"
)

const (
	wavFormatPCM = 1
	sniffLen     = 12
)

// DecodeFile opens path and decodes it, detecting the format from its
// content or, failing that, its extension.
func DecodeFile(path string) (*voice.SampleBuffer, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", voice.ErrDecodeFailure, err)
	}
	defer f.Close()

	format, err := Detect(f)
	if err != nil {
		if format, err = FormatFromPath(path); err != nil {
			return nil, "", fmt.Errorf("%w: %s: %w", voice.ErrDecodeFailure, path, err)
		}
	}

	buf, err := Decode(f, format)

	return buf, format, err
}

// Detect sniffs the format of r and rewinds it.
func Detect(r io.ReadSeeker) (Format, error) {
	header := make([]byte, sniffLen)

	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("%w: reading header: %w", voice.ErrDecodeFailure, err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: rewinding: %w", voice.ErrDecodeFailure, err)
	}

	format, ok := Sniff(header[:n])
	if !ok {
		return "", fmt.Errorf("%w: unrecognised audio header", voice.ErrDecodeFailure)
	}

	return format, nil
}

// Decode reads a whole clip of the given format from r.
func Decode(r io.ReadSeeker, format Format) (*voice.SampleBuffer, error) {
	switch format {
	case FormatWAV:
		return decodeWAV(r)
	case FormatMP3:
		return decodeMP3(r)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", voice.ErrDecodeFailure, format)
	}
}

func decodeWAV(r io.ReadSeeker) (*voice.SampleBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAV file", voice.ErrDecodeFailure)
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: WAV encoding %d is not integer PCM", voice.ErrDecodeFailure, dec.WavAudioFormat)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: reading WAV samples: %w", voice.ErrDecodeFailure, err)
	}

	channels := int(dec.NumChans)
	if channels <= 0 {
		return nil, fmt.Errorf("%w: WAV has no channels", voice.ErrDecodeFailure)
	}

	bitDepth := int(dec.BitDepth)

	// 8-bit WAV is unsigned.
	offset, scale := 0.0, 1/float64(audio.IntMaxSignedValue(bitDepth)+1)
	if bitDepth == 8 {
		offset = 128
	}

	frames := len(pcm.Data) / channels
	buf := &voice.SampleBuffer{Channels: make([][]float64, channels), SampleRate: int(dec.SampleRate)}

	for ch := range buf.Channels {
		buf.Channels[ch] = make([]float64, frames)
	}

	for i := range frames {
		for ch := range channels {
			buf.Channels[ch][i] = (float64(pcm.Data[i*channels+ch]) - offset) * scale
		}
	}

	return buf, nil
}

func decodeMP3(r io.Reader) (*voice.SampleBuffer, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", voice.ErrDecodeFailure, err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: reading MP3 frames: %w", voice.ErrDecodeFailure, err)
	}

	// go-mp3 always yields 16-bit little-endian interleaved stereo.
	frames := len(raw) / 4
	left := make([]float64, frames)
	right := make([]float64, frames)

	for i := range frames {
		left[i] = float64(int16(binary.LittleEndian.Uint16(raw[4*i:]))) / 32768
		right[i] = float64(int16(binary.LittleEndian.Uint16(raw[4*i+2:]))) / 32768
	}

	return &voice.SampleBuffer{Channels: [][]float64{left, right}, SampleRate: dec.SampleRate()}, nil
}
