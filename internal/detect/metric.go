package detect

import "gocv.io/x/gocv"

// ChangeRatio estimates the fraction of frame area that differs between two
// structural fingerprints of equal dimensions.
//
// It computes the absolute pixel-wise difference, finds the external
// connected regions of that difference, and sums the area of each region's
// axis-aligned bounding rectangle divided by total frame area. Bounding
// rectangles over-count for concave change regions but stay robust to small
// broken edges; exact pixel counts would shift the effective meaning of the
// detection threshold.
//
// If either fingerprint is empty the result is 1.0, so an uninitialized
// reference is always treated as new content. Zero-area mats are empty in
// OpenCV, which also guards the division.
func ChangeRatio(ref, cur gocv.Mat) float64 {
	if ref.Empty() || cur.Empty() {
		return 1.0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(ref, cur, &diff)

	contours := gocv.FindContours(diff, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	frameArea := float64(diff.Rows() * diff.Cols())
	if frameArea == 0 {
		return 1.0
	}

	var changed float64
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		changed += float64(rect.Dx() * rect.Dy())
	}

	return changed / frameArea
}
