package emotion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGeneratorShape(t *testing.T) {
	gen := NewMockGenerator(42)

	for i := 0; i < 200; i++ {
		rec := gen.Frame(i, float64(i)*0.5)
		if !rec.FaceDetected {
			continue
		}
		assert.Len(t, rec.Emotions, len(CanonicalEmotions))
		assert.GreaterOrEqual(t, rec.Emotions["joy"], 0.1)
		assert.LessOrEqual(t, rec.Emotions["joy"], 0.5)
		assert.GreaterOrEqual(t, rec.Emotions["interest"], 0.3)
		assert.LessOrEqual(t, rec.Emotions["interest"], 0.7)
		assert.GreaterOrEqual(t, rec.FaceConfidence, 0.85)
		assert.LessOrEqual(t, rec.FaceConfidence, 0.99)

		require.NotNil(t, rec.FaceBBox)
		assert.GreaterOrEqual(t, rec.FaceBBox.X, 50)
		assert.Less(t, rec.FaceBBox.X, 200)
		assert.GreaterOrEqual(t, rec.FaceBBox.Width, 100)
		assert.Less(t, rec.FaceBBox.Width, 200)

		assert.NotEmpty(t, rec.DominantEmotion)
		assert.Greater(t, rec.EngagementLevel, 0.0)
	}
}

func TestMockGeneratorFaceRate(t *testing.T) {
	gen := NewMockGenerator(7)

	detected := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if gen.Frame(i, 0).FaceDetected {
			detected++
		}
	}
	rate := float64(detected) / n
	assert.Greater(t, rate, 0.85)
	assert.Less(t, rate, 0.95)
}

func TestMockGeneratorDeterministic(t *testing.T) {
	a := NewMockGenerator(99)
	b := NewMockGenerator(99)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Frame(i, float64(i)), b.Frame(i, float64(i)))
	}
}

func TestMockVideoFrameDrift(t *testing.T) {
	gen := NewMockGenerator(11)
	for i := 0; i < 100; i++ {
		rec := gen.VideoFrame(i*15, float64(i)*0.5)
		if !rec.FaceDetected {
			continue
		}
		assert.GreaterOrEqual(t, rec.Emotions["joy"], 0.1)
		assert.LessOrEqual(t, rec.Emotions["joy"], 0.5)
		assert.GreaterOrEqual(t, rec.Emotions["interest"], 0.3)
		assert.LessOrEqual(t, rec.Emotions["interest"], 0.7)
	}
}

func TestMockStrategyAnalyze(t *testing.T) {
	src := newFakeSource(10, 2.0)
	pub := &recordingPublisher{}
	rep := NewReporter("job-1", "reaction_video", 1, pub)

	records, err := NewMockStrategy(5).Analyze(context.Background(), src, rep)
	require.NoError(t, err)
	assert.Len(t, records, 10)
	assert.GreaterOrEqual(t, rep.Current(), 20)
	assert.LessOrEqual(t, rep.Current(), 90)
}
