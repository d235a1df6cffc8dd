package voice

import (
	"errors"

	"github.com/cwbudde/algo-voice/dsp/core"
)

var (
	// ErrInvalidInput reports an empty buffer, a non-positive sample rate or
	// a non-positive speed factor.
	ErrInvalidInput = core.ErrInvalidInput
	// ErrUnsupportedConfiguration reports parameters the stages cannot honour,
	// such as extreme pitch or speed values.
	ErrUnsupportedConfiguration = core.ErrUnsupportedConfiguration
	// ErrDecodeFailure is returned by decoders for unreadable input.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrEncodeFailure is returned by encoders that cannot produce output.
	ErrEncodeFailure = errors.New("encode failure")
)
