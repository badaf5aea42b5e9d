package emotion

import (
	"math"

	"reactsense/internal/dao"
)

// CanonicalEmotions is the fixed emotion vocabulary shared by every
// strategy. The order matters: dominant-emotion ties resolve to the
// earliest entry.
var CanonicalEmotions = []string{
	"joy", "surprise", "sadness", "anger", "fear",
	"disgust", "contempt", "interest", "confusion",
}

// FillMissing ensures scores carries all nine canonical keys, writing 0.0
// for emotions the upstream service did not report.
func FillMissing(scores map[string]float64) {
	for _, name := range CanonicalEmotions {
		if _, ok := scores[name]; !ok {
			scores[name] = 0.0
		}
	}
}

// Dominant returns the emotion with the highest score, breaking ties by
// canonical order.
func Dominant(scores map[string]float64) string {
	dominant := CanonicalEmotions[0]
	best := math.Inf(-1)
	for _, name := range CanonicalEmotions {
		if s := scores[name]; s > best {
			best = s
			dominant = name
		}
	}
	return dominant
}

// Intensity is the mean of the nine canonical scores.
func Intensity(scores map[string]float64) float64 {
	sum := 0.0
	for _, name := range CanonicalEmotions {
		sum += scores[name]
	}
	return sum / float64(len(CanonicalEmotions))
}

// Engagement estimates viewer attentiveness from the scores:
// 0.3*joy + 0.4*interest + 0.2*surprise + 0.1*(1-confusion).
func Engagement(scores map[string]float64) float64 {
	return scores["joy"]*0.3 +
		scores["interest"]*0.4 +
		scores["surprise"]*0.2 +
		(1-scores["confusion"])*0.1
}

// NewFrameRecord assembles a face-detected frame record, filling missing
// canonical keys and computing the derived metrics.
func NewFrameRecord(frameNum int, timestamp float64, scores map[string]float64, bbox *dao.FaceBBox, confidence float64) dao.FrameRecord {
	FillMissing(scores)
	return dao.FrameRecord{
		FrameNum:           frameNum,
		Timestamp:          timestamp,
		FaceDetected:       true,
		FaceBBox:           bbox,
		FaceConfidence:     confidence,
		Emotions:           scores,
		DominantEmotion:    Dominant(scores),
		EmotionalIntensity: round3(Intensity(scores)),
		EngagementLevel:    round3(Engagement(scores)),
	}
}

// NoFaceRecord is the record emitted for a frame without a detectable face
// or with an unparseable prediction.
func NoFaceRecord(frameNum int, timestamp float64) dao.FrameRecord {
	return dao.FrameRecord{
		FrameNum:  frameNum,
		Timestamp: timestamp,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
