package main

import (
	"fmt"
	"io"
	"runtime"

	ffms "github.com/GreatValueCreamSoda/goffms2"
	"github.com/GreatValueCreamSoda/gopixfmts"
	motion "github.com/GreatValueCreamSoda/gomotion"
)

// ffms2Source decodes a video with ffms2 and returns the luma plane of each
// frame, scaled by ffms2 to the requested size.
type ffms2Source struct {
	video  *ffms.VideoSource
	props  *ffms.VideoProperties
	next   int
	width  int
	height int
}

func openFFMS2Source(path string, targetWidth int) (*ffms2Source, error) {
	indexer, _, err := ffms.CreateIndexer(path)
	if err != nil {
		return nil, err
	}

	index, _, err := indexer.DoIndexing(ffms.IEHAbort)
	if err != nil {
		return nil, err
	}

	track, _, err := index.GetFirstTrackOfType(ffms.TypeVideo)
	if err != nil {
		return nil, err
	}

	video, _, err := ffms.CreateVideoSource(path, index, track,
		runtime.NumCPU()/2, ffms.SeekNormal)
	if err != nil {
		return nil, err
	}

	props, err := video.GetVideoProperties()
	if err != nil {
		return nil, err
	}

	firstFrame, _, err := video.GetFrame(0)
	if err != nil {
		return nil, err
	}

	width, height := scaledSize(firstFrame.EncodedWidth,
		firstFrame.EncodedHeight, targetWidth)

	// Keep the encoded pixel format so plane 0 stays the luma plane; only
	// the size changes.
	_, _, err = video.SetOutputFormatV2([]int{firstFrame.EncodedPixelFormat},
		width, height, ffms.ResizerBicubic)
	if err != nil {
		return nil, err
	}

	firstFrame, _, err = video.GetFrame(0)
	if err != nil {
		return nil, err
	}

	if err := checkLumaFormat(gopixfmts.PixelFormat(
		firstFrame.ConvertedPixelFormat)); err != nil {
		return nil, err
	}

	logf(LogInfo, "Opened %s: %d frames, %dx%d scaled to %dx%d", path,
		props.NumFrames, firstFrame.EncodedWidth, firstFrame.EncodedHeight,
		firstFrame.ScaledWidth, firstFrame.ScaledHeight)

	return &ffms2Source{video: video, props: &props,
		width: firstFrame.ScaledWidth, height: firstFrame.ScaledHeight,
	}, nil
}

func (s *ffms2Source) Next() (*motion.Frame, error) {
	if s.next >= s.props.NumFrames {
		return nil, io.EOF
	}

	src, _, err := s.video.GetFrame(s.next)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", s.next, err)
	}
	s.next++

	return motion.NewFrameFromPlane(src.Data[0], src.Linesize[0],
		s.width, s.height)
}

func (s *ffms2Source) Close() error { return nil }
