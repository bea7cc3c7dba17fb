package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	motion "github.com/GreatValueCreamSoda/gomotion"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// imageSequenceSource reads a sorted list of still images as consecutive
// frames. Every image is resized to the size of the first scaled image and
// converted to grayscale.
type imageSequenceSource struct {
	paths         []string
	next          int
	width, height int
	gray          *gift.GIFT
}

// listImages expands pattern into a sorted list of image files. A directory
// yields every image inside it; anything else is treated as a glob.
func listImages(pattern string) ([]string, error) {
	var matches []string

	info, err := os.Stat(pattern)
	if err == nil && info.IsDir() {
		entries, err := os.ReadDir(pattern)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !e.IsDir() && imageExtensions[ext] {
				matches = append(matches, filepath.Join(pattern, e.Name()))
			}
		}
	} else {
		matches, err = filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no images match %q", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

func newImageSequenceSource(pattern string, targetWidth int) (
	*imageSequenceSource, error) {
	paths, err := listImages(pattern)
	if err != nil {
		return nil, err
	}

	first, err := decodeImage(paths[0])
	if err != nil {
		return nil, err
	}
	b := first.Bounds()
	width, height := scaledSize(b.Dx(), b.Dy(), targetWidth)

	logf(LogInfo, "Reading %d images from %s: %dx%d scaled to %dx%d",
		len(paths), pattern, b.Dx(), b.Dy(), width, height)

	return &imageSequenceSource{
		paths:  paths,
		width:  width,
		height: height,
		gray:   gift.New(gift.Grayscale()),
	}, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func (s *imageSequenceSource) Next() (*motion.Frame, error) {
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() != s.width || b.Dy() != s.height {
		img = resize.Resize(uint(s.width), uint(s.height), img,
			resize.Bilinear)
	}

	gray := image.NewGray(s.gray.Bounds(img.Bounds()))
	s.gray.Draw(gray, img)

	logf(LogDebug, "Loaded %s", path)
	return motion.NewFrameFromPlane(gray.Pix, gray.Stride, s.width, s.height)
}

func (s *imageSequenceSource) Close() error { return nil }
