package video

import (
	"context"
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"reactsense/internal/emotion"
)

const jpegQuality = 85

// SampleInterval converts a desired output sampling rate (frames per
// second) into a source frame stride.
func SampleInterval(fps float64, sampleRate int) int {
	if sampleRate <= 0 {
		sampleRate = 1
	}
	if fps <= 0 {
		return 1
	}
	interval := int(math.Round(fps / float64(sampleRate)))
	if interval < 1 {
		interval = 1
	}
	return interval
}

// Source samples a video file at a fixed output rate. It satisfies
// emotion.FrameSource; every ForEach call re-opens the file, so the
// sequence is restartable.
type Source struct {
	path string
	rate int
	info emotion.VideoInfo
}

// Open probes the video and returns a sampler producing sampleRate frames
// per second of source time. Failing to open the file is fatal for the
// job; it is not retried here.
func Open(path string, sampleRate int) (*Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input video: %w", err)
	}
	defer capture.Close()

	fps := capture.Get(gocv.VideoCaptureFPS)
	frameCount := int(capture.Get(gocv.VideoCaptureFrameCount))
	interval := SampleInterval(fps, sampleRate)

	info := emotion.VideoInfo{
		FPS:        fps,
		FrameCount: frameCount,
		Width:      int(capture.Get(gocv.VideoCaptureFrameWidth)),
		Height:     int(capture.Get(gocv.VideoCaptureFrameHeight)),
	}
	if fps > 0 {
		info.DurationSeconds = float64(frameCount) / fps
	}
	if frameCount > 0 {
		info.SampleCount = (frameCount + interval - 1) / interval
	}

	return &Source{path: path, rate: sampleRate, info: info}, nil
}

func (s *Source) Path() string { return s.path }

func (s *Source) Info() emotion.VideoInfo { return s.info }

// ForEach decodes the video and calls fn for every interval-th frame,
// encoded as a quality-85 JPEG.
func (s *Source) ForEach(ctx context.Context, fn func(emotion.Frame) error) error {
	capture, err := gocv.VideoCaptureFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to open input video: %w", err)
	}
	defer capture.Close()

	interval := SampleInterval(s.info.FPS, s.rate)

	frame := gocv.NewMat()
	defer frame.Close()

	frameNum := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if ok := capture.Read(&frame); !ok {
			return nil
		}
		if frame.Empty() {
			frameNum++
			continue
		}

		if frameNum%interval == 0 {
			buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, frame, []int{gocv.IMWriteJpegQuality, jpegQuality})
			if err != nil {
				return fmt.Errorf("encode frame %d: %w", frameNum, err)
			}
			jpeg := make([]byte, len(buf.GetBytes()))
			copy(jpeg, buf.GetBytes())
			buf.Close()

			timestamp := 0.0
			if s.info.FPS > 0 {
				timestamp = float64(frameNum) / s.info.FPS
			}
			if err := fn(emotion.Frame{Num: frameNum, Timestamp: timestamp, JPEG: jpeg}); err != nil {
				return err
			}
		}
		frameNum++
	}
}
