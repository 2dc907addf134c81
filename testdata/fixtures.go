// Package testdata builds synthetic video frames for tests. Frames are drawn
// rather than embedded so they carry real structural edges at any resolution.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// SlideFrame draws a synthetic presentation slide: a light background with a
// title bar and a block of dark text-like bars. All geometry is derived
// proportionally from the frame size, so the same seed produces the same
// content at any resolution. Different seeds produce structurally different
// slides. The caller is responsible for closing the returned Mat.
func SlideFrame(width, height, seed int) *gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(245, 245, 245, 0))

	ink := color.RGBA{R: 20, G: 20, B: 20, A: 0}

	// Title bar
	gocv.Rectangle(&mat, image.Rect(width/20, height/20, width-width/20, height/8), ink, -1)

	// Text-like bars, placement varied by seed
	lines := 10
	top := height / 5
	rowH := (height - top - height/10) / lines

	for i := 0; i < lines; i++ {
		y := top + i*rowH
		// Deterministic per-seed variation in bar length and indent
		indent := width/16 + ((seed*37+i*13)%4)*(width/32)
		length := width/3 + ((seed*53+i*29)%(width/3))
		gocv.Rectangle(&mat, image.Rect(indent, y, indent+length, y+rowH/2), ink, -1)
	}

	return &mat
}

// BlankFrame returns a uniform frame with no structural edges.
// The caller is responsible for closing the returned Mat.
func BlankFrame(width, height int, value float64) *gocv.Mat {
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(value, value, value, 0))
	return &mat
}

// Repeat appends count clones of frame to seq and returns the extended slice.
func Repeat(seq []*gocv.Mat, frame *gocv.Mat, count int) []*gocv.Mat {
	for i := 0; i < count; i++ {
		clone := frame.Clone()
		seq = append(seq, &clone)
	}
	return seq
}

// CloseFrames closes every frame in seq.
func CloseFrames(seq []*gocv.Mat) {
	for _, f := range seq {
		f.Close()
	}
}
