package main

import (
	"fmt"

	"github.com/GreatValueCreamSoda/gopixfmts"
)

// checkLumaFormat makes sure plane 0 of frames in the given pixel format
// holds 8-bit luma samples that can be used directly as a grayscale frame.
func checkLumaFormat(format gopixfmts.PixelFormat) error {
	logf(LogInfo, "Checking decoded pixel format")

	desc, err := gopixfmts.PixFmtDescGet(format)
	if err != nil {
		logf(LogError, "Failed to get pixel format descriptor for Converted"+
			"PixelFormat=%d: %v", format, err)
		return err
	}

	logf(LogDebug, "Pixel format: %s", desc.Name())

	comp, err := desc.Component(0)
	if err != nil {
		logf(LogError, "Failed to get component 0 from pixel format: %v", err)
		return err
	}

	if comp.Depth != 8 {
		logf(LogError, "Unsupported bit depth %d in pixel format %s",
			comp.Depth, desc.Name())
		return fmt.Errorf("pixel format %s has %d-bit samples, only 8-bit "+
			"input is supported", desc.Name(), comp.Depth)
	}

	return nil
}
