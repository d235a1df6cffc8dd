package codec

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voice/internal/testutil"
	"github.com/cwbudde/algo-voice/measure/freq"
	"github.com/cwbudde/algo-voice/voice"
)

func encodeToFile(t *testing.T, buf *voice.SampleBuffer, format Format) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip."+string(format))

	f, err := os.Create(path)
	require.NoError(t, err)

	defer f.Close()

	require.NoError(t, Encode(f, buf, format))

	return path
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"wav": FormatWAV, ".MP3": FormatMP3, "Wav": FormatWAV} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("ogg")
	require.Error(t, err)

	got, err := FormatFromPath("/tmp/modified_voice.mp3")
	require.NoError(t, err)
	assert.Equal(t, FormatMP3, got)
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   Format
		ok     bool
	}{
		{name: "wav", header: []byte("RIFF\x24\x00\x00\x00WAVEfmt "), want: FormatWAV, ok: true},
		{name: "id3", header: []byte("ID3\x04\x00"), want: FormatMP3, ok: true},
		{name: "frame sync", header: []byte{0xFF, 0xFB, 0x90, 0x00}, want: FormatMP3, ok: true},
		{name: "riff not wave", header: []byte("RIFF\x24\x00\x00\x00AVI LIST"), ok: false},
		{name: "ogg", header: []byte("OggS\x00\x02"), ok: false},
		{name: "short", header: []byte{0xFF}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sniff(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNearestMP3Rate(t *testing.T) {
	tests := map[int]int{
		44100: 44100,
		48000: 48000,
		96000: 48000,
		7000:  8000,
		46050: 48000,
		20000: 22050,
		11000: 11025,
	}

	for in, want := range tests {
		assert.Equal(t, want, NearestMP3Rate(in), "rate %d", in)
	}
}

func TestToPCM16Clips(t *testing.T) {
	assert.Equal(t, int16(32767), toPCM16(1.7))
	assert.Equal(t, int16(-32767), toPCM16(-3))
	assert.Equal(t, int16(0), toPCM16(0))
	assert.Equal(t, int16(16384), toPCM16(0.5))
	assert.Equal(t, int16(0), toPCM16(math.NaN()))
}

func TestWAVRoundTrip(t *testing.T) {
	left := testutil.DeterministicSine(440, 22050, 0.5, 5000)
	right := testutil.DeterministicNoise(7, 0.9, 5000)
	right[10] = 1.5 // clipped on encode

	in := &voice.SampleBuffer{Channels: [][]float64{left, right}, SampleRate: 22050}
	path := encodeToFile(t, in, FormatWAV)

	out, format, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatWAV, format)
	assert.Equal(t, 22050, out.SampleRate)
	require.Equal(t, 2, out.NumChannels())
	require.Equal(t, 5000, out.Len())

	for ch := range in.Channels {
		for i, want := range in.Channels[ch] {
			if want > 1 {
				want = 1
			}

			require.InDelta(t, want, out.Channels[ch][i], 1e-4, "channel %d index %d", ch, i)
		}
	}
}

func TestMP3RoundTrip(t *testing.T) {
	in := voice.NewMono(testutil.DeterministicSine(440, 44100, 0.5, 44100), 44100)
	path := encodeToFile(t, in, FormatMP3)

	out, format, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatMP3, format)
	assert.Equal(t, 44100, out.SampleRate)
	require.Equal(t, 2, out.NumChannels())
	require.GreaterOrEqual(t, out.Len(), 44100)

	mid := testutil.Segment(out.Channels[0], 10000, 30000)

	got, err := freq.SpectralPeak(mid, 44100)
	require.NoError(t, err)
	assert.InDelta(t, 440, got, 2)
	assert.InDelta(t, testutil.RMS(in.Channels[0]), testutil.RMS(mid), 0.05)
}

func TestMP3ConvertsUnsupportedRate(t *testing.T) {
	in := voice.NewMono(testutil.DeterministicSine(1000, 96000, 0.5, 96000), 96000)
	path := encodeToFile(t, in, FormatMP3)

	out, _, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 48000, out.SampleRate)

	got, err := freq.SpectralPeak(testutil.Segment(out.Channels[1], 8000, 40000), 48000)
	require.NoError(t, err)
	assert.InDelta(t, 1000, got, 3)
}

func TestDecodeFailures(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not audio")), FormatWAV)
	require.ErrorIs(t, err, voice.ErrDecodeFailure)

	_, err = Decode(bytes.NewReader(nil), Format("flac"))
	require.ErrorIs(t, err, voice.ErrDecodeFailure)

	_, _, err = DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	require.ErrorIs(t, err, voice.ErrDecodeFailure)

	junk := filepath.Join(t.TempDir(), "junk.txt")
	require.NoError(t, os.WriteFile(junk, []byte("hello world, not audio"), 0o600))

	_, _, err = DecodeFile(junk)
	require.ErrorIs(t, err, voice.ErrDecodeFailure)
}

func TestDetectRewinds(t *testing.T) {
	in := voice.NewMono([]float64{0, 0.25, -0.25}, 8000)
	path := encodeToFile(t, in, FormatWAV)

	f, err := os.Open(path)
	require.NoError(t, err)

	defer f.Close()

	format, err := Detect(f)
	require.NoError(t, err)
	assert.Equal(t, FormatWAV, format)

	out, err := Decode(f, format)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())
}

func TestEncodeFailures(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	require.NoError(t, err)

	defer f.Close()

	require.ErrorIs(t, Encode(f, voice.NewMono(nil, 44100), FormatWAV), voice.ErrEncodeFailure)
	require.ErrorIs(t, Encode(f, voice.NewMono([]float64{1}, 44100), Format("ogg")), voice.ErrEncodeFailure)
}
