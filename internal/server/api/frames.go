package api

import (
	"fmt"
	"net/http"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/dkrasnov/slidescan/internal/video"
)

// FrameHandler serves single decoded frames as JPEG images.
type FrameHandler struct{}

// NewFrameHandler creates a new FrameHandler.
func NewFrameHandler() *FrameHandler {
	return &FrameHandler{}
}

// ServeHTTP handles GET /api/frames?path={video}&index={frame}.
// An index past the end of the video yields 404, not a server error, so
// clients can probe indices returned by earlier scans.
func (h *FrameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	frame, err := video.GrabFrame(path, index)
	if err != nil {
		frame.Close()
		writeError(w, http.StatusUnprocessableEntity, "Could not open video")
		return
	}

	if frame.Empty() {
		frame.Close()
		writeError(w, http.StatusNotFound, "Frame not available")
		return
	}

	buf, err := gocv.IMEncode(".jpg", frame)
	frame.Close()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode frame")
		return
	}
	defer buf.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.Write(buf.GetBytes())
}
