package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// GrabFrame opens an independent decode session on the video at path, seeks
// to frameIndex and decodes exactly one frame. It shares no state with any
// ongoing sequential scan of the same file and may be called concurrently
// with one.
//
// An index beyond the end of the stream (or one that fails to decode) is not
// an error: an empty Mat is returned so callers can distinguish "frame not
// available" from a failure to open the container. The caller is responsible
// for closing the returned Mat.
func GrabFrame(path string, frameIndex int) (gocv.Mat, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("open video %s: %w", path, err)
	}
	defer capture.Close()

	if !capture.IsOpened() {
		return gocv.NewMat(), fmt.Errorf("open video %s: container not readable", path)
	}

	mat := gocv.NewMat()
	if frameIndex < 0 {
		return mat, nil
	}

	capture.Set(gocv.VideoCapturePosFrames, float64(frameIndex))
	if ok := capture.Read(&mat); !ok {
		// Seek past the end of the stream. The empty Mat is the result.
		return mat, nil
	}

	return mat, nil
}
