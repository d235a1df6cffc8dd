package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voice/internal/codec"
	"github.com/cwbudde/algo-voice/internal/config"
	"github.com/cwbudde/algo-voice/internal/testutil"
	"github.com/cwbudde/algo-voice/voice"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeClip(t *testing.T, dir string, buf *voice.SampleBuffer) string {
	t.Helper()

	path := filepath.Join(dir, "input.wav")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, codec.Encode(f, buf, codec.FormatWAV))
	require.NoError(t, f.Close())

	return path
}

func parse(t *testing.T, cfg *config.Config, args ...string) *CLI {
	t.Helper()

	cli := &CLI{}
	parser, err := kong.New(cli, defaultVars(cfg), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	_, err = parser.Parse(args)
	require.NoError(t, err)

	return cli
}

func TestFlagDefaultsFollowConfig(t *testing.T) {
	input := writeClip(t, t.TempDir(), voice.NewMono(testutil.DeterministicSine(220, 8000, 0.3, 800), 8000))

	cfg := &config.Config{Pitch: 4, Speed: 1.5, Echo: false, Deep: true, Format: "wav", Mono: false}
	cli := parse(t, cfg, "process", input)

	assert.InDelta(t, 4.0, cli.Process.Pitch, 0)
	assert.InDelta(t, 1.5, cli.Process.Speed, 0)
	assert.False(t, cli.Process.Echo)
	assert.True(t, cli.Process.Deep)
	assert.Equal(t, "wav", cli.Process.Format)
	assert.False(t, cli.Process.Mono)
	assert.Equal(t, "none", cli.Process.Profile)

	cli = parse(t, cfg, "process", "--echo", "--no-deep", "--pitch=-7", "--format=mp3", "-o", "x.mp3", input)

	assert.True(t, cli.Process.Echo)
	assert.False(t, cli.Process.Deep)
	assert.InDelta(t, -7.0, cli.Process.Pitch, 0)
	assert.Equal(t, "mp3", cli.Process.Format)
	assert.Equal(t, "x.mp3", cli.Process.Output)
}

func TestProcessWritesWAV(t *testing.T) {
	dir := t.TempDir()
	stereo := &voice.SampleBuffer{
		Channels: [][]float64{
			testutil.DeterministicSine(300, 16000, 0.4, 16000),
			testutil.DeterministicSine(300, 16000, 0.2, 16000),
		},
		SampleRate: 16000,
	}
	output := filepath.Join(dir, "out.wav")

	cmd := &ProcessCmd{
		Input:   writeClip(t, dir, stereo),
		Output:  output,
		Pitch:   -3,
		Speed:   0.5,
		Echo:    true,
		Deep:    true,
		Format:  "wav",
		Mono:    true,
		Profile: "none",
	}
	require.NoError(t, cmd.Run(quietLogger()))

	out, format, err := codec.DecodeFile(output)
	require.NoError(t, err)
	assert.Equal(t, codec.FormatWAV, format)
	assert.Equal(t, 1, out.NumChannels())
	assert.Equal(t, 16000, out.SampleRate)
	assert.Equal(t, 32000, out.Len())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestProcessDefaultOutputName(t *testing.T) {
	dir := t.TempDir()
	input := writeClip(t, dir, voice.NewMono(testutil.DeterministicSine(200, 8000, 0.3, 4000), 8000))

	t.Chdir(dir)

	cmd := &ProcessCmd{Input: input, Speed: 1, Format: "wav", Profile: "none"}
	require.NoError(t, cmd.Run(quietLogger()))

	out, _, err := codec.DecodeFile(filepath.Join(dir, "modified_voice.wav"))
	require.NoError(t, err)
	assert.Equal(t, 4000, out.Len())
}

func TestProcessFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.wav")

	cmd := &ProcessCmd{
		Input:   writeClip(t, dir, voice.NewMono(testutil.DeterministicSine(200, 8000, 0.3, 4000), 8000)),
		Output:  output,
		Pitch:   40,
		Speed:   1,
		Format:  "wav",
		Profile: "none",
	}

	err := cmd.Run(quietLogger())
	require.ErrorIs(t, err, errProcessing)
	require.ErrorIs(t, err, voice.ErrUnsupportedConfiguration)
	assert.NoFileExists(t, output)
}

func TestProcessRejectsUndecodableInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.wav")
	require.NoError(t, os.WriteFile(input, []byte("not really a wav file"), 0o600))

	cmd := &ProcessCmd{Input: input, Output: filepath.Join(dir, "out.wav"), Speed: 1, Format: "wav", Profile: "none"}

	err := cmd.Run(quietLogger())
	require.ErrorIs(t, err, errProcessing)
	require.ErrorIs(t, err, voice.ErrDecodeFailure)
}

func TestWriteAtomicCleansUpOnEncodeFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wav")

	err := writeAtomic(path, voice.NewMono(nil, 8000), codec.FormatWAV)
	require.ErrorIs(t, err, voice.ErrEncodeFailure)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInfo(t *testing.T) {
	input := writeClip(t, t.TempDir(), voice.NewMono(testutil.DeterministicSine(250, 16000, 0.5, 8000), 16000))

	var out bytes.Buffer
	require.NoError(t, (&InfoCmd{Input: input}).write(&out))

	text := out.String()
	assert.Contains(t, text, "wav")
	assert.Contains(t, text, "16000 Hz")
	assert.Contains(t, text, "500ms")
	assert.Contains(t, text, "LUFS")
	assert.Contains(t, text, "-6.0 dBFS")

	m := regexp.MustCompile(`dominant frequency\s+([0-9.]+) Hz`).FindStringSubmatch(text)
	require.Len(t, m, 2, text)

	f0, err := strconv.ParseFloat(m[1], 64)
	require.NoError(t, err)
	assert.InDelta(t, 250, f0, 1)
}

func TestInfoSilent(t *testing.T) {
	input := writeClip(t, t.TempDir(), voice.NewMono(make([]float64, 4000), 8000))

	var out bytes.Buffer
	require.NoError(t, (&InfoCmd{Input: input}).write(&out))
	assert.Contains(t, out.String(), "n/a (silent)")
}
