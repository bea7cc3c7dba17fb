package gomotion

import "errors"

// ExceptionCode represents the category of a failure returned by gomotion
// operations.
//
// Every operation returns a plain Go error. ExceptionCode exists so callers
// that report or persist failures can classify them without string matching:
// CodeOf maps any returned error back to its category.
type ExceptionCode int

// Predefined ExceptionCodes. Each one except ExceptionCodeNoError has a
// matching sentinel error that returned errors wrap.
const (
	ExceptionCodeNoError ExceptionCode = iota
	// Frames with non-positive size, inconsistent sample buffers, or two
	// operands whose dimensions differ.
	ExceptionCodeInvalidDimension
	// Non-positive block size or negative search radius.
	ExceptionCodeInvalidParameter
	// A vector archive stream that cannot be decoded.
	ExceptionCodeCorruptArchive
	// Any error not produced by this package.
	ExceptionCodeUnknown
)

var (
	ErrInvalidDimension = errors.New("gomotion: invalid frame dimensions")
	ErrInvalidParameter = errors.New("gomotion: invalid parameter")
	ErrCorruptArchive   = errors.New("gomotion: corrupt vector archive")
)

// IsNone returns true if the code represents success.
func (e ExceptionCode) IsNone() bool { return e == ExceptionCodeNoError }

// GetError returns the sentinel error of the code, or nil for
// ExceptionCodeNoError.
func (e ExceptionCode) GetError() error {
	switch e {
	case ExceptionCodeNoError:
		return nil
	case ExceptionCodeInvalidDimension:
		return ErrInvalidDimension
	case ExceptionCodeInvalidParameter:
		return ErrInvalidParameter
	case ExceptionCodeCorruptArchive:
		return ErrCorruptArchive
	default:
		return errors.New("gomotion: unknown error")
	}
}

func (e ExceptionCode) String() string {
	switch e {
	case ExceptionCodeNoError:
		return "no error"
	case ExceptionCodeInvalidDimension:
		return "invalid dimension"
	case ExceptionCodeInvalidParameter:
		return "invalid parameter"
	case ExceptionCodeCorruptArchive:
		return "corrupt archive"
	default:
		return "unknown"
	}
}

// CodeOf classifies err. A nil error maps to ExceptionCodeNoError and errors
// that do not wrap one of the package sentinels map to ExceptionCodeUnknown.
func CodeOf(err error) ExceptionCode {
	switch {
	case err == nil:
		return ExceptionCodeNoError
	case errors.Is(err, ErrInvalidDimension):
		return ExceptionCodeInvalidDimension
	case errors.Is(err, ErrInvalidParameter):
		return ExceptionCodeInvalidParameter
	case errors.Is(err, ErrCorruptArchive):
		return ExceptionCodeCorruptArchive
	default:
		return ExceptionCodeUnknown
	}
}
