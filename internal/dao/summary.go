package dao

// TimelinePoint is one down-sampled entry of the emotion timeline.
type TimelinePoint struct {
	Timestamp  float64 `json:"timestamp"`
	Joy        float64 `json:"joy"`
	Surprise   float64 `json:"surprise"`
	Interest   float64 `json:"interest"`
	Engagement float64 `json:"engagement"`
	Dominant   string  `json:"dominant"`
}

// EmotionSummary aggregates one job's frame records. When no frame carried
// a face, only FramesAnalyzed, FramesWithFaces and Error are set.
type EmotionSummary struct {
	Averages              map[string]float64 `json:"averages,omitempty"`
	PeakJoyTimestamp      float64            `json:"peakJoyTimestamp,omitempty"`
	PeakSurpriseTimestamp float64            `json:"peakSurpriseTimestamp,omitempty"`
	PeakInterestTimestamp float64            `json:"peakInterestTimestamp,omitempty"`
	AvgEngagement         float64            `json:"avgEngagement,omitempty"`
	PeakEngagement        float64            `json:"peakEngagement,omitempty"`
	EngagementTrend       string             `json:"engagementTrend,omitempty"`
	DominantEmotion       string             `json:"dominantEmotion,omitempty"`
	EmotionalValence      float64            `json:"emotionalValence,omitempty"`
	EmotionalArousal      float64            `json:"emotionalArousal,omitempty"`
	EmotionTimeline       []TimelinePoint    `json:"emotionTimeline,omitempty"`
	FramesAnalyzed        int                `json:"framesAnalyzed"`
	FramesWithFaces       int                `json:"framesWithFaces"`
	Error                 string             `json:"error,omitempty"`
}
