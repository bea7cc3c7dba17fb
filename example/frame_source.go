package main

import motion "github.com/GreatValueCreamSoda/gomotion"

// FrameSource yields consecutive grayscale frames in display order.
//
// Next returns io.EOF once the input is exhausted. Frames returned by Next
// are owned by the caller and never reused by the source.
type FrameSource interface {
	Next() (*motion.Frame, error)
	Close() error
}

// scaledSize returns the size of a width×height frame scaled to
// targetWidth with its aspect ratio kept and the height rounded to an even
// number, as ffmpeg's scale=W:-2 does. A targetWidth of 0 or equal to width
// keeps the native size, odd or not; ffmpegEncoder pads odd sizes.
func scaledSize(width, height, targetWidth int) (int, int) {
	if targetWidth <= 0 || width <= 0 || targetWidth == width {
		return width, height
	}
	h := (height*targetWidth + width/2) / width
	h += h & 1
	return targetWidth, max(h, 2)
}
