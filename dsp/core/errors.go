package core

import "errors"

var (
	// ErrInvalidInput reports an empty buffer, a non-positive sample rate or a
	// non-positive rate/speed factor.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedConfiguration reports parameters that are well-formed but
	// would drive a processor into a degenerate state, for example a pitch
	// ratio that collapses the STFT hop or a stretch that yields no samples.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
)
