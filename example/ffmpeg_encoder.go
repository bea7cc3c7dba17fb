package main

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

// ffmpegEncoder pipes 8-bit grayscale frames of a fixed size into an ffmpeg
// process that encodes them to outputPath. yuv420p needs even dimensions, so
// frames with an odd width or height are padded by repeating their last
// column or row.
type ffmpegEncoder struct {
	ffmpegCmd     *exec.Cmd
	ffmpegPipe    io.WriteCloser
	videoPath     string
	width, height int
	// Encoded size, width and height rounded up to even.
	padWidth, padHeight int
	padded              []byte
}

func evenUp(n int) int { return n + n&1 }

// padToEven writes f into dst, which holds an evenUp(f.Width) by
// evenUp(f.Height) frame, repeating the last column and row into the padding.
func padToEven(dst []byte, f *motion.Frame) {
	w := evenUp(f.Width)
	for y := 0; y < evenUp(f.Height); y++ {
		row := f.Row(min(y, f.Height-1))
		out := dst[y*w : (y+1)*w]
		copy(out, row)
		if w > f.Width {
			out[w-1] = row[f.Width-1]
		}
	}
}

func ffmpegEncoderArgs(width, height int, frameRate float32,
	settings []string, outputPath string) []string {
	frameRateString := strconv.FormatFloat(float64(frameRate), 'f', 2, 64)
	resolution := fmt.Sprintf("%dx%d", width, height)

	args := []string{
		"-y", "-loglevel", "error", "-f", "rawvideo", "-pixel_format", "gray",
		"-s", resolution, "-r", frameRateString, "-i", "-", "-pix_fmt",
		"yuv420p"}
	args = append(args, settings...)
	return append(args, outputPath)
}

func newFFmpegEncoder(width, height int, frameRate float32, settings []string,
	outputPath string) (*ffmpegEncoder, error) {
	var enc ffmpegEncoder
	enc.videoPath = outputPath
	enc.width, enc.height = width, height
	enc.padWidth, enc.padHeight = evenUp(width), evenUp(height)
	if enc.padWidth != width || enc.padHeight != height {
		logf(LogInfo, "Padding %dx%d frames to %dx%d for %s", width, height,
			enc.padWidth, enc.padHeight, outputPath)
		enc.padded = make([]byte, enc.padWidth*enc.padHeight)
	}

	args := ffmpegEncoderArgs(enc.padWidth, enc.padHeight, frameRate,
		settings, outputPath)
	enc.ffmpegCmd = exec.Command("ffmpeg", args...)

	var err error

	enc.ffmpegPipe, err = enc.ffmpegCmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin pipe failed: %w", err)
	}

	if err = enc.ffmpegCmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start failed: %w", err)
	}

	logf(LogInfo, "Video will be saved to %s", outputPath)

	return &enc, nil
}

func (e *ffmpegEncoder) WriteFrame(f *motion.Frame) error {
	if f.Width != e.width || f.Height != e.height {
		return fmt.Errorf("%s: frame is %dx%d, encoder expects %dx%d",
			e.videoPath, f.Width, f.Height, e.width, e.height)
	}

	pix := f.Pix
	if e.padded != nil {
		padToEven(e.padded, f)
		pix = e.padded
	}

	if _, err := e.ffmpegPipe.Write(pix); err != nil {
		logf(LogError, "Failed to write frame to ffmpeg: %v", err)
		return err
	}
	return nil
}

func (e *ffmpegEncoder) Close() error {
	if e.ffmpegPipe != nil {
		e.ffmpegPipe.Close()
	}
	err := e.ffmpegCmd.Wait()
	if err != nil {
		logf(LogError, "FFmpeg failed to save video (%s): %v", e.videoPath,
			err)
		return err
	}
	logf(LogInfo, "Video saved to path: \"%s\"", e.videoPath)
	return nil
}

// videoSink encodes the actual | predicted comparison and the amplified
// residual of every pair. Encoders start on the first result, once the frame
// size is known.
type videoSink struct {
	comparisonPath, residualPath string
	frameRate                    float32
	gain                         int
	settings                     []string

	comparison, residual *ffmpegEncoder
	started              bool
}

func newVideoSink(comparisonPath, residualPath string, frameRate float32,
	gain int, settings []string) *videoSink {
	return &videoSink{
		comparisonPath: comparisonPath,
		residualPath:   residualPath,
		frameRate:      frameRate,
		gain:           gain,
		settings:       settings,
	}
}

func (s *videoSink) start(width, height int) error {
	s.started = true

	var err error
	if s.comparisonPath != "" {
		s.comparison, err = newFFmpegEncoder(width*2, height, s.frameRate,
			s.settings, s.comparisonPath)
		if err != nil {
			return err
		}
	}
	if s.residualPath != "" {
		s.residual, err = newFFmpegEncoder(width, height, s.frameRate,
			s.settings, s.residualPath)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *videoSink) WriteResult(r *pairResult) error {
	if !s.started {
		if err := s.start(r.current.Width, r.current.Height); err != nil {
			return err
		}
	}

	if s.comparison != nil {
		view, err := motion.SideBySide(r.current, r.predicted)
		if err != nil {
			return err
		}
		if err := s.comparison.WriteFrame(view); err != nil {
			return err
		}
	}

	if s.residual != nil {
		amplified, err := motion.Amplify(r.residual, s.gain)
		if err != nil {
			return err
		}
		if err := s.residual.WriteFrame(amplified); err != nil {
			return err
		}
	}
	return nil
}

func (s *videoSink) Close() error {
	var first error
	for _, enc := range []*ffmpegEncoder{s.comparison, s.residual} {
		if enc == nil {
			continue
		}
		if err := enc.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
