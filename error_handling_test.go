package gomotion_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

func Test_ExceptionCode_IsNone(t *testing.T) {
	if !motion.ExceptionCodeNoError.IsNone() {
		t.Fatal("ExceptionCodeNoError should report IsNone() == true")
	}

	if motion.ExceptionCodeInvalidParameter.IsNone() {
		t.Fatal("non-zero ExceptionCode should report IsNone() == false")
	}
}

func Test_CodeOf(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want motion.ExceptionCode
	}{
		{nil, motion.ExceptionCodeNoError},
		{fmt.Errorf("%w: 3x0", motion.ErrInvalidDimension),
			motion.ExceptionCodeInvalidDimension},
		{fmt.Errorf("wrapped: %w", fmt.Errorf("%w: block size 0",
			motion.ErrInvalidParameter)), motion.ExceptionCodeInvalidParameter},
		{motion.ErrCorruptArchive, motion.ExceptionCodeCorruptArchive},
		{io.EOF, motion.ExceptionCodeUnknown},
	} {
		if got := motion.CodeOf(tc.err); got != tc.want {
			t.Errorf("CodeOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
		if tc.want != motion.ExceptionCodeUnknown && tc.err != nil &&
			!errors.Is(tc.err, tc.want.GetError()) {
			t.Errorf("%v does not wrap %v", tc.err, tc.want.GetError())
		}
	}

	if motion.ExceptionCodeNoError.GetError() != nil {
		t.Fatal("ExceptionCodeNoError.GetError() should be nil")
	}
}
