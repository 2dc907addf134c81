// Package probe inspects video containers with ffprobe before scanning.
package probe

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// StreamInfo describes a single stream inside a container.
type StreamInfo struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Info summarizes a probed container.
type Info struct {
	FormatName  string
	DurationSec float64
	Streams     []StreamInfo
}

// HasVideo reports whether the container holds at least one video stream.
func (i *Info) HasVideo() bool {
	for _, s := range i.Streams {
		if s.CodecType == "video" {
			return true
		}
	}
	return false
}

// VideoStream returns the first video stream, or nil if there is none.
func (i *Info) VideoStream() *StreamInfo {
	for idx := range i.Streams {
		if i.Streams[idx].CodecType == "video" {
			return &i.Streams[idx]
		}
	}
	return nil
}

type ffprobeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
	Streams []StreamInfo `json:"streams"`
}

// File probes the container at path.
func File(path string) (*Info, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	return parseProbeOutput([]byte(raw))
}

func parseProbeOutput(raw []byte) (*Info, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}

	info := &Info{
		FormatName: out.Format.FormatName,
		Streams:    out.Streams,
	}

	// Duration is absent for some stream-only containers; zero is fine.
	if out.Format.Duration != "" {
		if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
			info.DurationSec = d
		}
	}

	return info, nil
}
