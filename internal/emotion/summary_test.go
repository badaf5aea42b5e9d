package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactsense/internal/dao"
)

func facedFrame(num int, ts float64, scores map[string]float64) dao.FrameRecord {
	return NewFrameRecord(num, ts, scores, nil, 0.9)
}

func TestSummarizeNoFaces(t *testing.T) {
	frames := []dao.FrameRecord{
		NoFaceRecord(0, 0),
		NoFaceRecord(15, 0.5),
		NoFaceRecord(30, 1.0),
	}
	s := Summarize(frames)

	assert.Equal(t, 3, s.FramesAnalyzed)
	assert.Equal(t, 0, s.FramesWithFaces)
	assert.Equal(t, "no faces detected", s.Error)
	assert.Empty(t, s.Averages)
	assert.Empty(t, s.EmotionTimeline)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.FramesAnalyzed)
	assert.Equal(t, "no faces detected", s.Error)
}

func TestSummarize(t *testing.T) {
	frames := []dao.FrameRecord{
		facedFrame(0, 0.0, map[string]float64{"joy": 0.8, "interest": 0.2}),
		facedFrame(15, 0.5, map[string]float64{"joy": 0.4, "surprise": 0.6}),
		NoFaceRecord(30, 1.0),
		facedFrame(45, 1.5, map[string]float64{"interest": 0.9}),
	}
	s := Summarize(frames)

	assert.Equal(t, 4, s.FramesAnalyzed)
	assert.Equal(t, 3, s.FramesWithFaces)
	assert.Empty(t, s.Error)

	assert.InDelta(t, 0.4, s.Averages["joy"], 1e-9)
	assert.InDelta(t, 0.2, s.Averages["surprise"], 1e-9)
	assert.Equal(t, 0.0, s.Averages["anger"])

	// peaks report the timestamp of the highest-scoring frame
	assert.InDelta(t, 0.0, s.PeakJoyTimestamp, 1e-9)
	assert.InDelta(t, 0.5, s.PeakSurpriseTimestamp, 1e-9)
	assert.InDelta(t, 1.5, s.PeakInterestTimestamp, 1e-9)

	// dominant over the whole job is decided on score sums
	assert.Equal(t, "joy", s.DominantEmotion)

	assert.InDelta(t, 0.46, s.PeakEngagement, 1e-3)
	assert.Equal(t, TrendStable, s.EngagementTrend)
	assert.Greater(t, s.EmotionalValence, 0.5)
	assert.LessOrEqual(t, s.EmotionalValence, 1.0)
	assert.Len(t, s.EmotionTimeline, 3)
}

func TestSummarizeIsPure(t *testing.T) {
	frames := []dao.FrameRecord{
		facedFrame(0, 0.0, map[string]float64{"joy": 0.3, "confusion": 0.2}),
		facedFrame(15, 0.5, map[string]float64{"sadness": 0.7}),
	}
	first := Summarize(frames)
	second := Summarize(frames)
	assert.Equal(t, first, second)
}

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		name       string
		engagement []float64
		want       string
	}{
		{"too few frames", []float64{0.1, 0.9, 0.1}, TrendStable},
		{"increasing", []float64{0.1, 0.1, 0.5, 0.5}, TrendIncreasing},
		{"decreasing", []float64{0.5, 0.5, 0.1, 0.1}, TrendDecreasing},
		{"stable", []float64{0.5, 0.5, 0.5, 0.5}, TrendStable},
		{"variable", []float64{0.5, 0.1, 0.45, 0.52}, TrendVariable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyTrend(tc.engagement))
		})
	}
}

func TestValenceClamped(t *testing.T) {
	positive := map[string]float64{"joy": 1.0, "interest": 1.0, "surprise": 1.0}
	FillMissing(positive)
	v := valence(positive)
	assert.LessOrEqual(t, v, 1.0)
	assert.Greater(t, v, 0.9)

	negative := map[string]float64{"sadness": 1.0, "anger": 1.0, "fear": 1.0, "disgust": 1.0}
	FillMissing(negative)
	v = valence(negative)
	assert.GreaterOrEqual(t, v, -1.0)
	assert.Less(t, v, -0.9)

	neutral := map[string]float64{"contempt": 0.8, "confusion": 0.8}
	FillMissing(neutral)
	assert.Zero(t, valence(neutral))
}

func TestArousalIsMeanOfAverages(t *testing.T) {
	averages := map[string]float64{}
	for _, name := range CanonicalEmotions {
		averages[name] = 0.3
	}
	assert.InDelta(t, 0.3, arousal(averages), 1e-9)
}

func TestTimelineCapped(t *testing.T) {
	var frames []dao.FrameRecord
	for i := 0; i < 30; i++ {
		frames = append(frames, facedFrame(i*15, float64(i)*0.5, map[string]float64{"joy": 0.2}))
	}
	s := Summarize(frames)

	require.NotEmpty(t, s.EmotionTimeline)
	assert.LessOrEqual(t, len(s.EmotionTimeline), 12)
	assert.Equal(t, 0.0, s.EmotionTimeline[0].Timestamp)
	for _, p := range s.EmotionTimeline {
		assert.Equal(t, "joy", p.Dominant)
	}
}
