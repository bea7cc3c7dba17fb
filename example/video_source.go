package main

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

// VideoSource decodes a video through an ffmpeg subprocess that writes raw
// 8-bit grayscale frames to its stdout.
type VideoSource struct {
	cmd           *exec.Cmd
	reader        *bufio.Reader
	width, height int
	eof           bool
}

// probeVideoSize asks ffprobe for the dimensions of the first video stream.
func probeVideoSize(path string) (int, int, error) {
	out, err := exec.Command("ffprobe", "-v", "error", "-select_streams",
		"v:0", "-show_entries", "stream=width,height", "-of", "csv=p=0",
		path).Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe: %w", err)
	}

	fields := strings.Split(strings.TrimSpace(string(out)), ",")
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("ffprobe: unexpected output %q", out)
	}
	w, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe width: %w", err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe height: %w", err)
	}
	return w, h, nil
}

func NewVideoSource(path string, targetWidth int) (*VideoSource, error) {
	nativeW, nativeH, err := probeVideoSize(path)
	if err != nil {
		return nil, err
	}
	width, height := scaledSize(nativeW, nativeH, targetWidth)

	args := []string{"-loglevel", "panic", "-i", path, "-vf",
		fmt.Sprintf("scale=%d:%d", width, height), "-f", "rawvideo",
		"-pix_fmt", "gray", "-"}
	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	logf(LogInfo, "Decoding %s with ffmpeg: %dx%d scaled to %dx%d", path,
		nativeW, nativeH, width, height)

	return &VideoSource{
		cmd:    cmd,
		reader: bufio.NewReader(stdout),
		width:  width,
		height: height,
	}, nil
}

// Next reads one frame. An incomplete trailing frame is treated as the end of
// the stream.
func (v *VideoSource) Next() (*motion.Frame, error) {
	f, err := motion.NewFrame(v.width, v.height)
	if err != nil {
		return nil, err
	}

	_, err = io.ReadFull(v.reader, f.Pix)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		v.eof = true
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Close stops ffmpeg if it is still running and waits for it to exit.
func (v *VideoSource) Close() error {
	if v.cmd == nil {
		return nil
	}
	if !v.eof {
		// Stopped early: ffmpeg would block on the full pipe forever.
		_ = v.cmd.Process.Kill()
		_ = v.cmd.Wait()
		return nil
	}
	if err := v.cmd.Wait(); err != nil {
		return err
	}
	return nil
}

// readerSource adapts a raw gray8 stream of fixed-size frames to a
// FrameSource.
func readerSource(r io.Reader, width, height int) *VideoSource {
	return &VideoSource{reader: bufio.NewReader(r), width: width,
		height: height}
}
