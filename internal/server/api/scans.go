// Package api provides HTTP API handlers for the slidescan service.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkrasnov/slidescan/internal/detect"
	"github.com/dkrasnov/slidescan/internal/metrics"
	"github.com/dkrasnov/slidescan/internal/probe"
	"github.com/dkrasnov/slidescan/internal/store"
	"github.com/dkrasnov/slidescan/internal/video"
)

// progressBroadcastInterval is the number of frames between broadcast
// progress events. Accepted segments are always broadcast.
const progressBroadcastInterval = 25

// ProgressNotifier receives live scan events for connected observers.
type ProgressNotifier interface {
	Broadcast(event interface{})
}

// ScanHandler handles HTTP requests for scan resources.
type ScanHandler struct {
	store    *store.Store
	detect   detect.Config
	notifier ProgressNotifier
}

// NewScanHandler creates a new ScanHandler with the given store, base
// detection configuration, and progress notifier.
func NewScanHandler(s *store.Store, cfg detect.Config, notifier ProgressNotifier) *ScanHandler {
	return &ScanHandler{store: s, detect: cfg, notifier: notifier}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ScanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/scans or /api/scans/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/scans")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createScanRequest struct {
	VideoPath        string   `json:"video_path"`
	MinSceneDuration *float64 `json:"min_scene_duration,omitempty"`
	MinAreaRatio     *float64 `json:"min_area_ratio,omitempty"`
}

type segmentResponse struct {
	FrameIndex   int     `json:"frame_index"`
	TimestampSec float64 `json:"timestamp_sec"`
	ChangeRatio  float64 `json:"change_ratio"`
}

type scanResponse struct {
	ID               string            `json:"id"`
	VideoPath        string            `json:"video_path"`
	MinSceneDuration float64           `json:"min_scene_duration"`
	MinAreaRatio     float64           `json:"min_area_ratio"`
	FPS              float64           `json:"fps"`
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	SegmentCount     int               `json:"segment_count"`
	CreatedAt        string            `json:"created_at"`
	Segments         []segmentResponse `json:"segments,omitempty"`
}

type listScansResponse struct {
	Scans []scanResponse `json:"scans"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type progressEvent struct {
	ScanID string `json:"scan_id"`
	detect.Progress
}

// toResponse converts a store.Scan to a scanResponse.
func toResponse(scan *store.Scan, segments []store.Segment) scanResponse {
	resp := scanResponse{
		ID:               scan.ID,
		VideoPath:        scan.VideoPath,
		MinSceneDuration: scan.MinSceneDuration,
		MinAreaRatio:     scan.MinAreaRatio,
		FPS:              scan.FPS,
		Width:            scan.Width,
		Height:           scan.Height,
		SegmentCount:     scan.SegmentCount,
		CreatedAt:        scan.CreatedAt.Format(time.RFC3339),
	}
	for _, seg := range segments {
		resp.Segments = append(resp.Segments, segmentResponse(seg))
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/scans and returns all stored scans.
func (h *ScanHandler) list(w http.ResponseWriter, r *http.Request) {
	scans, err := h.store.Scans().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scans")
		return
	}

	response := listScansResponse{
		Scans: make([]scanResponse, 0, len(scans)),
	}

	for _, scan := range scans {
		response.Scans = append(response.Scans, toResponse(scan, nil))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/scans/{id} and returns a scan with its segments.
func (h *ScanHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	scan, err := h.store.Scans().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Scan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get scan")
		return
	}

	segments, err := h.store.Scans().Segments(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load segments")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(scan, segments))
}

// create handles POST /api/scans: it validates the video, runs a full
// detection scan, persists the result, and returns it with all segments.
func (h *ScanHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VideoPath == "" {
		writeError(w, http.StatusBadRequest, "video_path is required")
		return
	}

	info, err := probe.File(req.VideoPath)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Not a readable video")
		return
	}
	if !info.HasVideo() {
		writeError(w, http.StatusUnprocessableEntity, "Container has no video stream")
		return
	}

	cfg := h.detect
	if req.MinSceneDuration != nil {
		cfg.MinSceneDuration = *req.MinSceneDuration
	}
	if req.MinAreaRatio != nil {
		cfg.MinAreaRatio = *req.MinAreaRatio
	}

	scanID := uuid.New().String()
	cfg.OnProgress = h.progressFunc(scanID)

	src, err := video.Open(req.VideoPath)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("failed").Inc()
		writeError(w, http.StatusUnprocessableEntity, "Could not open video")
		return
	}
	defer src.Close()

	start := time.Now()
	segments := detect.New(cfg).Scan(src)
	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	metrics.ScansTotal.WithLabelValues("completed").Inc()

	scan := &store.Scan{
		ID:               scanID,
		VideoPath:        req.VideoPath,
		MinSceneDuration: cfg.MinSceneDuration,
		MinAreaRatio:     cfg.MinAreaRatio,
		FPS:              src.FPS(),
		Width:            src.Width(),
		Height:           src.Height(),
	}

	stored := make([]store.Segment, 0, len(segments))
	for _, seg := range segments {
		stored = append(stored, store.Segment(seg))
	}

	if err := h.store.Scans().Create(scan, stored); err != nil {
		log.Printf("persist scan %s: %v", scanID, err)
		writeError(w, http.StatusInternalServerError, "Failed to persist scan")
		return
	}

	log.Printf("scan %s: %d segments in %s (%s)", scanID, len(segments), time.Since(start), req.VideoPath)
	writeJSON(w, http.StatusCreated, toResponse(scan, stored))
}

// progressFunc builds the per-frame callback wired into a scan: it feeds the
// Prometheus counters and broadcasts throttled progress events.
func (h *ScanHandler) progressFunc(scanID string) func(detect.Progress) {
	return func(p detect.Progress) {
		metrics.FramesProcessedTotal.Inc()
		if p.Segment != nil {
			metrics.SegmentsDetectedTotal.Inc()
		}

		if h.notifier == nil {
			return
		}
		if p.Segment != nil || p.FrameIndex%progressBroadcastInterval == 0 {
			h.notifier.Broadcast(progressEvent{ScanID: scanID, Progress: p})
		}
	}
}

// delete handles DELETE /api/scans/{id} and removes a scan with its segments.
func (h *ScanHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Scans().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Scan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete scan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
