package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-voice/internal/codec"
	"github.com/cwbudde/algo-voice/measure/freq"
	"github.com/cwbudde/algo-voice/measure/loudness"
)

// InfoCmd prints basic properties of an audio file.
type InfoCmd struct {
	Input string `arg:"" type:"existingfile" help:"Audio file (wav or mp3)"`
}

// Run executes the info command.
func (c *InfoCmd) Run() error {
	return c.write(os.Stdout)
}

func (c *InfoCmd) write(w io.Writer) error {
	buf, format, err := codec.DecodeFile(c.Input)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "file\t%s\n", c.Input)
	fmt.Fprintf(tw, "format\t%s\n", format)
	fmt.Fprintf(tw, "channels\t%d\n", buf.NumChannels())
	fmt.Fprintf(tw, "sample rate\t%d Hz\n", buf.SampleRate)
	fmt.Fprintf(tw, "duration\t%s\n", buf.Duration())

	f0, err := freq.Autocorrelation(buf.Mono().Channels[0], float64(buf.SampleRate), freq.DefaultMinHz, freq.DefaultMaxHz)

	switch {
	case err != nil:
		fmt.Fprintf(tw, "dominant frequency\tn/a (%v)\n", err)
	case f0 == 0:
		fmt.Fprintf(tw, "dominant frequency\tn/a (silent)\n")
	default:
		fmt.Fprintf(tw, "dominant frequency\t%.1f Hz\n", f0)
	}

	if lv, err := loudness.Measure(buf.Channels, float64(buf.SampleRate)); err == nil {
		fmt.Fprintf(tw, "loudness\t%.1f LUFS\n", lv.Integrated)
		fmt.Fprintf(tw, "peak\t%.1f dBFS\n", lv.Peak)
	}

	return tw.Flush()
}
