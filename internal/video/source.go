// Package video provides frame access to video containers using GoCV (OpenCV).
package video

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// DefaultFPS is assumed when a container does not report its frame rate.
const DefaultFPS = 30.0

// ErrEndOfStream is returned by Read when no further frame can be decoded.
// Mid-stream decode failures are not distinguished from normal exhaustion;
// callers keep whatever they have produced so far.
var ErrEndOfStream = errors.New("end of stream")

// Stream is a finite, single-pass sequence of decoded frames.
type Stream interface {
	// FPS returns the frame rate of the stream.
	FPS() float64

	// Read decodes the next frame and returns it together with its ordinal
	// index, starting at 0. The caller is responsible for closing the
	// returned Mat. Returns ErrEndOfStream once the stream is exhausted.
	Read() (*gocv.Mat, int, error)
}

// Source decodes frames sequentially from a video container on disk.
// It is not restartable; open a new Source to scan the same file again.
type Source struct {
	capture *gocv.VideoCapture
	path    string
	fps     float64
	width   int
	height  int
	next    int
}

// Open opens the video container at path for sequential decoding.
// It fails immediately if the path cannot be opened as a video.
func Open(path string) (*Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("open video %s: container not readable", path)
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = DefaultFPS
	}

	return &Source{
		capture: capture,
		path:    path,
		fps:     fps,
		width:   int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:  int(capture.Get(gocv.VideoCaptureFrameHeight)),
	}, nil
}

// FPS returns the frame rate reported by the container.
func (s *Source) FPS() float64 {
	return s.fps
}

// Width returns the frame width in pixels.
func (s *Source) Width() int {
	return s.width
}

// Height returns the frame height in pixels.
func (s *Source) Height() int {
	return s.height
}

// Path returns the path the source was opened from.
func (s *Source) Path() string {
	return s.path
}

// Read decodes the next frame in decode order.
// The caller is responsible for closing the returned Mat.
func (s *Source) Read() (*gocv.Mat, int, error) {
	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, s.next, ErrEndOfStream
	}

	idx := s.next
	s.next++

	return &mat, idx, nil
}

// Close releases the underlying decode session.
func (s *Source) Close() error {
	return s.capture.Close()
}
