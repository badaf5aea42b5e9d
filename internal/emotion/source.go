package emotion

import "context"

// VideoInfo describes the source video and the sampling plan derived from it.
type VideoInfo struct {
	FPS             float64 `json:"fps"`
	FrameCount      int     `json:"frameCount"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	DurationSeconds float64 `json:"durationSeconds"`
	SampleCount     int     `json:"sampleCount"`
}

// Frame is one sampled frame ready for inference.
type Frame struct {
	Num       int     // frame index in the source video
	Timestamp float64 // seconds, Num / source fps
	JPEG      []byte  // quality-85 JPEG of the decoded frame
}

// FrameSource yields the sampled frames of one video. Implementations must
// be restartable: ForEach may be called more than once for the same job,
// e.g. when the batch strategy falls back to synthetic results.
type FrameSource interface {
	// Path returns the location of the underlying video file.
	Path() string
	Info() VideoInfo
	ForEach(ctx context.Context, fn func(Frame) error) error
}
