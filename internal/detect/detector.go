package detect

import (
	"image"

	"github.com/dkrasnov/slidescan/internal/video"
	"gocv.io/x/gocv"
)

// Default detection parameters.
const (
	// DefaultMinSceneDuration is the minimum time in seconds between
	// accepted slide transitions.
	DefaultMinSceneDuration = 2.0
	// DefaultMinAreaRatio is the fraction of frame area (0.0-1.0) that must
	// change for a frame to count as a new slide.
	DefaultMinAreaRatio = 0.20
	// DefaultWorkingWidth bounds the horizontal resolution frames are
	// fingerprinted at. Wider frames are downscaled proportionally.
	DefaultWorkingWidth = 1280
)

// Segment marks a detected slide transition within a scanned video.
type Segment struct {
	// FrameIndex is the ordinal position of the frame in decode order.
	FrameIndex int `json:"frame_index"`

	// TimestampSec is FrameIndex divided by the stream frame rate.
	TimestampSec float64 `json:"timestamp_sec"`

	// ChangeRatio is the fraction of frame area judged changed relative to
	// the previous retained slide. The first segment is 1.0 by convention.
	ChangeRatio float64 `json:"change_ratio"`
}

// Progress describes the state of a running scan. It is delivered once per
// processed frame.
type Progress struct {
	// FrameIndex is the index of the frame just processed.
	FrameIndex int `json:"frame_index"`

	// TimestampSec is the timestamp of that frame.
	TimestampSec float64 `json:"timestamp_sec"`

	// Segment is non-nil when the frame was accepted as a slide transition.
	Segment *Segment `json:"segment,omitempty"`
}

// Config holds configuration options for slide detection.
type Config struct {
	// MinSceneDuration is the debounce interval in seconds: a transition is
	// only accepted this long after the previously accepted one. Rejects
	// rapid flicker such as a speaker briefly flipping back a slide.
	MinSceneDuration float64

	// MinAreaRatio is the changed-area threshold (0.0-1.0) a frame must
	// exceed to count as a new slide.
	MinAreaRatio float64

	// WorkingWidth is the maximum width in pixels frames are processed at.
	// Zero selects DefaultWorkingWidth.
	WorkingWidth int

	// OnProgress, when set, is invoked from the scanning goroutine once per
	// processed frame.
	OnProgress func(Progress)
}

// DefaultConfig returns a Config with the standard detection parameters.
func DefaultConfig() Config {
	return Config{
		MinSceneDuration: DefaultMinSceneDuration,
		MinAreaRatio:     DefaultMinAreaRatio,
		WorkingWidth:     DefaultWorkingWidth,
	}
}

// Detector finds slide transitions in a video by comparing each frame's
// structural fingerprint against the fingerprint of the last accepted slide.
// Comparing against the last accepted slide rather than the previous frame
// keeps slow cumulative changes from escaping detection.
//
// A Detector holds no state between scans; independent scans may run
// concurrently on separate goroutines.
type Detector struct {
	config Config
}

// New creates a Detector with the given configuration. MinSceneDuration and
// MinAreaRatio are taken as-is without clamping.
func New(config Config) *Detector {
	if config.WorkingWidth <= 0 {
		config.WorkingWidth = DefaultWorkingWidth
	}
	return &Detector{config: config}
}

// Config returns the configuration the detector was created with.
func (d *Detector) Config() Config {
	return d.config
}

// ProcessVideo scans the video at path and returns every detected slide
// segment in frame order. Opening failures are returned immediately with no
// partial result; a decode failure mid-stream ends the scan and the segments
// collected up to that point are returned.
func (d *Detector) ProcessVideo(path string) ([]Segment, error) {
	src, err := video.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return d.Scan(src), nil
}

// Scan consumes stream until exhaustion and returns the detected segments.
// The first decoded frame always starts the first slide with a change ratio
// of 1.0. Segments are emitted in strictly increasing frame order.
func (d *Detector) Scan(stream video.Stream) []Segment {
	fps := stream.FPS()

	var segments []Segment

	// Fingerprint of the last accepted slide. Replaced wholesale on each
	// accepted transition, never merged.
	reference := gocv.NewMat()
	defer reference.Close()

	lastSlideTime := -d.config.MinSceneDuration // frame 0 is always eligible

	for {
		frame, idx, err := stream.Read()
		if err != nil {
			break
		}

		current := d.fingerprint(frame)
		frame.Close()

		timestamp := float64(idx) / fps
		accepted := false

		if reference.Empty() {
			segments = append(segments, Segment{FrameIndex: idx, TimestampSec: timestamp, ChangeRatio: 1.0})
			lastSlideTime = timestamp
			current.CopyTo(&reference)
			accepted = true
		} else {
			score := ChangeRatio(reference, current)
			if score > d.config.MinAreaRatio && timestamp-lastSlideTime >= d.config.MinSceneDuration {
				segments = append(segments, Segment{FrameIndex: idx, TimestampSec: timestamp, ChangeRatio: score})
				lastSlideTime = timestamp
				current.CopyTo(&reference)
				accepted = true
			}
		}

		current.Close()

		if d.config.OnProgress != nil {
			p := Progress{FrameIndex: idx, TimestampSec: timestamp}
			if accepted {
				seg := segments[len(segments)-1]
				p.Segment = &seg
			}
			d.config.OnProgress(p)
		}
	}

	return segments
}

// fingerprint extracts the structural edge map of a frame, downscaling
// frames wider than the working width first. All subsequent geometry runs at
// the downscaled size; since the detection threshold is an area ratio, the
// result is resolution independent.
func (d *Detector) fingerprint(frame *gocv.Mat) gocv.Mat {
	if frame.Cols() <= d.config.WorkingWidth {
		return EdgeMap(*frame)
	}

	scale := float64(d.config.WorkingWidth) / float64(frame.Cols())

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(*frame, &resized, image.Point{}, scale, scale, gocv.InterpolationLinear)

	return EdgeMap(resized)
}
