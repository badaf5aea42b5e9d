package emotion

import (
	"context"
	"math"
	"math/rand"
	"time"

	"reactsense/internal/dao"
)

// MockGenerator produces synthetic but structurally valid frame records
// when no real backend is available or configured. The output biases
// toward interest and mild joy, matching what a typical reaction video
// looks like, so summaries computed over it stay plausible.
type MockGenerator struct {
	rng      *rand.Rand
	faceProb float64
}

// NewMockGenerator creates a generator. A zero seed picks a time-based one.
func NewMockGenerator(seed int64) *MockGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockGenerator{
		rng:      rand.New(rand.NewSource(seed)),
		faceProb: 0.9,
	}
}

// Frame generates one independent synthetic record, used for per-frame
// fallback of the single-image path.
func (g *MockGenerator) Frame(frameNum int, timestamp float64) dao.FrameRecord {
	if g.rng.Float64() > g.faceProb {
		return NoFaceRecord(frameNum, timestamp)
	}
	return g.record(frameNum, timestamp, g.uniform(0.1, 0.5), g.uniform(0.3, 0.7))
}

// VideoFrame generates one record of a temporally coherent series: joy and
// interest follow slow sinusoidal drifts over the video timeline instead
// of independent noise, which gives the series usable trend structure.
func (g *MockGenerator) VideoFrame(frameNum int, timestamp float64) dao.FrameRecord {
	if g.rng.Float64() > g.faceProb {
		return NoFaceRecord(frameNum, timestamp)
	}
	joy := clamp(0.3+0.15*math.Sin(2*math.Pi*timestamp/20)+g.uniform(-0.05, 0.05), 0.1, 0.5)
	interest := clamp(0.5+0.15*math.Sin(2*math.Pi*timestamp/30+1)+g.uniform(-0.05, 0.05), 0.3, 0.7)
	return g.record(frameNum, timestamp, joy, interest)
}

func (g *MockGenerator) record(frameNum int, timestamp, joy, interest float64) dao.FrameRecord {
	scores := map[string]float64{
		"joy":       joy,
		"surprise":  g.uniform(0.0, 0.3),
		"sadness":   g.uniform(0.0, 0.1),
		"anger":     g.uniform(0.0, 0.05),
		"fear":      g.uniform(0.0, 0.05),
		"disgust":   g.uniform(0.0, 0.05),
		"contempt":  g.uniform(0.0, 0.1),
		"interest":  interest,
		"confusion": g.uniform(0.0, 0.2),
	}
	bbox := &dao.FaceBBox{
		X:      50 + g.rng.Intn(150),
		Y:      50 + g.rng.Intn(100),
		Width:  100 + g.rng.Intn(100),
		Height: 120 + g.rng.Intn(100),
	}
	return NewFrameRecord(frameNum, timestamp, scores, bbox, g.uniform(0.85, 0.99))
}

func (g *MockGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MockStrategy runs the generator over every sampled frame of a video.
type MockStrategy struct {
	gen *MockGenerator
}

func NewMockStrategy(seed int64) *MockStrategy {
	return &MockStrategy{gen: NewMockGenerator(seed)}
}

func (s *MockStrategy) Name() string { return "mock" }

func (s *MockStrategy) Analyze(ctx context.Context, src FrameSource, rep *Reporter) ([]dao.FrameRecord, error) {
	info := src.Info()
	total := info.SampleCount
	if total < 1 {
		total = 1
	}
	span := rep.Span(20, 90)

	var records []dao.FrameRecord
	err := src.ForEach(ctx, func(f Frame) error {
		records = append(records, s.gen.VideoFrame(f.Num, f.Timestamp))
		span(float64(len(records))/float64(total), "Generating synthetic emotions...")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
