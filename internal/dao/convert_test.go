package dao

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactsense/internal/model"
)

func TestFrameRecordToModel(t *testing.T) {
	rec := &FrameRecord{
		FrameNum:       30,
		Timestamp:      1.0,
		FaceDetected:   true,
		FaceBBox:       &FaceBBox{X: 10, Y: 20, Width: 100, Height: 120},
		FaceConfidence: 0.92,
		Emotions: map[string]float64{
			"joy": 0.8, "surprise": 0.1, "sadness": 0, "anger": 0, "fear": 0,
			"disgust": 0, "contempt": 0, "interest": 0.4, "confusion": 0.05,
		},
		DominantEmotion:    "joy",
		EmotionalIntensity: 0.15,
		EngagementLevel:    0.5,
	}
	row := rec.ToModel(7)

	assert.Equal(t, 7, row.ReactionVideoId)
	assert.Equal(t, 30, row.FrameNumber)
	assert.InDelta(t, 0.8, row.Joy, 1e-9)
	assert.InDelta(t, 0.4, row.Interest, 1e-9)
	assert.Equal(t, "joy", row.DominantEmotion)
	assert.True(t, row.FaceDetected)

	var bbox FaceBBox
	require.NoError(t, json.Unmarshal([]byte(row.FaceBBox), &bbox))
	assert.Equal(t, 100, bbox.Width)
	assert.NotEmpty(t, row.RawResponse)
}

func TestSummaryToModel(t *testing.T) {
	s := &EmotionSummary{
		Averages: map[string]float64{
			"joy": 0.3, "surprise": 0.1, "sadness": 0.05, "anger": 0, "fear": 0,
			"disgust": 0, "contempt": 0, "interest": 0.5, "confusion": 0.1,
		},
		PeakJoyTimestamp: 12.5,
		AvgEngagement:    0.42,
		PeakEngagement:   0.61,
		EngagementTrend:  "increasing",
		DominantEmotion:  "interest",
		EmotionalValence: 0.7,
		EmotionalArousal: 0.12,
		EmotionTimeline: []TimelinePoint{
			{Timestamp: 0, Joy: 0.3, Interest: 0.5, Engagement: 0.4, Dominant: "interest"},
		},
		FramesAnalyzed:  60,
		FramesWithFaces: 55,
	}
	row := s.ToModel(7, 21.4)

	assert.Equal(t, 7, row.ReactionVideoId)
	assert.InDelta(t, 0.3, row.AvgJoy, 1e-9)
	assert.InDelta(t, 12.5, row.PeakJoyTimestamp, 1e-9)
	assert.Equal(t, "increasing", row.EngagementTrend)
	assert.Equal(t, 55, row.FramesWithFaces)
	assert.InDelta(t, 21.4, row.ProcessingTimeSeconds, 1e-9)

	var timeline []TimelinePoint
	require.NoError(t, json.Unmarshal([]byte(row.EmotionTimeline), &timeline))
	require.Len(t, timeline, 1)
	assert.Equal(t, "interest", timeline[0].Dominant)
}

func TestFromJobModel(t *testing.T) {
	resp := FromJobModel(&model.AnalysisJob{
		Uuid:         "abc123",
		Status:       model.AnalysisJobStatusProcessing,
		Progress:     45,
		Step:         "Analyzing emotions...",
		ErrorMessage: "",
	})

	assert.Equal(t, "abc123", resp.JobUuid)
	assert.Equal(t, "processing", resp.Status)
	assert.Equal(t, 45, resp.Progress)
	assert.Equal(t, "Analyzing emotions...", resp.Step)
	assert.Empty(t, resp.Error)
}
