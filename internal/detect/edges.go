// Package detect implements slide transition detection over a stream of
// video frames using structural edge comparison.
package detect

import (
	"image"

	"gocv.io/x/gocv"
)

// Edge extraction constants
const (
	// GaussianBlurSize is the kernel size for the pre-detection blur (5x5)
	GaussianBlurSize = 5
	// CannyThresholdLow is the lower hysteresis threshold for edge detection
	CannyThresholdLow = 50
	// CannyThresholdHigh is the upper hysteresis threshold for edge detection
	CannyThresholdHigh = 150
	// DilationKernelSize is the size of the rectangular dilation kernel (3x3)
	DilationKernelSize = 3
)

// EdgeMap converts a color frame into its structural fingerprint: a
// single-channel edge map of the same spatial size.
//
// Pipeline:
// 1. Convert to grayscale (color carries no structural information here)
// 2. Gaussian blur (5x5) so compression artifacts don't register as edges
// 3. Canny edge detection, keeping only sharp transitions (text strokes,
//    image borders); smooth gradients such as a speaker's face mostly vanish
// 4. Dilate with a 3x3 kernel so sub-pixel jitter of text between frames
//    doesn't produce large positional disagreement when differencing
//
// The transform is pure and deterministic. The caller is responsible for
// closing the returned Mat.
func EdgeMap(frame gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, CannyThresholdLow, CannyThresholdHigh)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: DilationKernelSize, Y: DilationKernelSize})
	defer kernel.Close()

	dilated := gocv.NewMat()
	gocv.Dilate(edges, &dilated, kernel)

	return dilated
}
