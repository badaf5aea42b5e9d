package emotion

import (
	"context"
	"sync"

	"reactsense/internal/dao"
)

// fakeSource yields a fixed set of in-memory frames.
type fakeSource struct {
	path   string
	frames []Frame
	info   VideoInfo
}

func newFakeSource(n int, fps float64) *fakeSource {
	s := &fakeSource{
		path: "/tmp/reaction.mp4",
		info: VideoInfo{
			FPS:         fps,
			FrameCount:  n,
			Width:       640,
			Height:      480,
			SampleCount: n,
		},
	}
	if fps > 0 {
		s.info.DurationSeconds = float64(n) / fps
	}
	for i := 0; i < n; i++ {
		ts := 0.0
		if fps > 0 {
			ts = float64(i) / fps
		}
		s.frames = append(s.frames, Frame{
			Num:       i,
			Timestamp: ts,
			JPEG:      []byte{0xff, 0xd8, byte(i), 0xff, 0xd9},
		})
	}
	return s
}

func (s *fakeSource) Path() string { return s.path }

func (s *fakeSource) Info() VideoInfo { return s.info }

func (s *fakeSource) ForEach(ctx context.Context, fn func(Frame) error) error {
	for _, f := range s.frames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// fakeStore satisfies ObjectStore without a real bucket.
type fakeStore struct {
	url string
	err error
}

func (s *fakeStore) UploadVideo(ctx context.Context, localPath string) (string, error) {
	return s.url, s.err
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []dao.JobEvent
}

func (p *recordingPublisher) Publish(ev *dao.JobEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *ev)
}

func (p *recordingPublisher) byType(eventType string) []dao.JobEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []dao.JobEvent
	for _, ev := range p.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func (p *recordingPublisher) progressValues() []int {
	var out []int
	for _, ev := range p.byType(dao.EventTypeProgress) {
		out = append(out, ev.Progress)
	}
	return out
}
