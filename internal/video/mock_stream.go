package video

import "gocv.io/x/gocv"

// MockStream plays back pre-built frames for testing
type MockStream struct {
	frames []*gocv.Mat
	fps    float64
	index  int
}

func NewMockStream(frames []*gocv.Mat, fps float64) *MockStream {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &MockStream{
		frames: frames,
		fps:    fps,
	}
}

func (m *MockStream) FPS() float64 {
	return m.fps
}

func (m *MockStream) Read() (*gocv.Mat, int, error) {
	if m.index >= len(m.frames) {
		return nil, m.index, ErrEndOfStream
	}

	// Clone the frame so the original isn't modified
	frame := m.frames[m.index].Clone()
	idx := m.index
	m.index++

	return &frame, idx, nil
}

// SetFrames replaces the frame sequence
func (m *MockStream) SetFrames(frames []*gocv.Mat) {
	m.frames = frames
	m.index = 0
}

// Reset restarts playback from the beginning
func (m *MockStream) Reset() {
	m.index = 0
}
