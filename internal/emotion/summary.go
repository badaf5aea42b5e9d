package emotion

import (
	"math"

	"reactsense/internal/dao"
)

// Engagement trend classifications.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
	TrendVariable   = "variable"
)

const maxTimelinePoints = 12

// Summarize reduces a job's frame records into the aggregate summary. It
// is a pure function of its input: no external state, same input always
// yields the same output. With no face-detected frames it returns the
// degenerate no-faces summary.
func Summarize(frames []dao.FrameRecord) *dao.EmotionSummary {
	var faced []dao.FrameRecord
	for _, f := range frames {
		if f.FaceDetected {
			faced = append(faced, f)
		}
	}

	if len(faced) == 0 {
		return &dao.EmotionSummary{
			FramesAnalyzed:  len(frames),
			FramesWithFaces: 0,
			Error:           "no faces detected",
		}
	}

	averages := make(map[string]float64, len(CanonicalEmotions))
	sums := make(map[string]float64, len(CanonicalEmotions))
	for _, name := range CanonicalEmotions {
		total := 0.0
		for _, f := range faced {
			total += f.Emotions[name]
		}
		sums[name] = total
		averages[name] = round3(total / float64(len(faced)))
	}

	engagement := make([]float64, len(faced))
	for i, f := range faced {
		engagement[i] = f.EngagementLevel
	}

	summary := &dao.EmotionSummary{
		Averages:              averages,
		PeakJoyTimestamp:      peakTimestamp(faced, "joy"),
		PeakSurpriseTimestamp: peakTimestamp(faced, "surprise"),
		PeakInterestTimestamp: peakTimestamp(faced, "interest"),
		AvgEngagement:         round3(mean(engagement)),
		PeakEngagement:        round3(maxOf(engagement)),
		EngagementTrend:       classifyTrend(engagement),
		DominantEmotion:       Dominant(sums),
		EmotionalValence:      valence(averages),
		EmotionalArousal:      arousal(averages),
		EmotionTimeline:       buildTimeline(faced),
		FramesAnalyzed:        len(frames),
		FramesWithFaces:       len(faced),
	}
	return summary
}

// peakTimestamp returns the timestamp of the frame with the highest score
// for one emotion; the earliest such frame wins ties.
func peakTimestamp(faced []dao.FrameRecord, name string) float64 {
	best := math.Inf(-1)
	ts := 0.0
	for _, f := range faced {
		if s := f.Emotions[name]; s > best {
			best = s
			ts = f.Timestamp
		}
	}
	return ts
}

// classifyTrend compares the earliest quarter's mean engagement against
// the latest quarter's. Fewer than 4 face-detected frames is always
// stable.
func classifyTrend(engagement []float64) string {
	if len(engagement) < 4 {
		return TrendStable
	}
	quarter := len(engagement) / 4
	first := mean(engagement[:quarter])
	last := mean(engagement[len(engagement)-quarter:])

	switch {
	case last > first*1.1:
		return TrendIncreasing
	case last < first*0.9:
		return TrendDecreasing
	case maxOf(engagement)-minOf(engagement) > 0.3:
		return TrendVariable
	default:
		return TrendStable
	}
}

// valence scores overall positivity in [-1,1] from the averaged emotions.
// Surprise counts as half positive; contempt and confusion stay neutral.
func valence(averages map[string]float64) float64 {
	positive := averages["joy"] + averages["interest"] + averages["surprise"]*0.5
	negative := averages["sadness"] + averages["anger"] + averages["fear"] + averages["disgust"]
	v := (positive - negative) / (positive + negative + 0.001)
	return round3(clamp(v, -1, 1))
}

// arousal is the mean of the nine averaged emotions. The source history
// also carried a high/low-arousal group ratio; the simple mean is the
// canonical definition here.
func arousal(averages map[string]float64) float64 {
	sum := 0.0
	for _, name := range CanonicalEmotions {
		sum += averages[name]
	}
	return round3(sum / float64(len(CanonicalEmotions)))
}

// buildTimeline down-samples the face-detected frames to at most
// maxTimelinePoints evenly spaced entries.
func buildTimeline(faced []dao.FrameRecord) []dao.TimelinePoint {
	step := (len(faced) + maxTimelinePoints - 1) / maxTimelinePoints
	if step < 1 {
		step = 1
	}
	var timeline []dao.TimelinePoint
	for i := 0; i < len(faced); i += step {
		f := faced[i]
		timeline = append(timeline, dao.TimelinePoint{
			Timestamp:  math.Round(f.Timestamp*10) / 10,
			Joy:        round2(f.Emotions["joy"]),
			Surprise:   round2(f.Emotions["surprise"]),
			Interest:   round2(f.Emotions["interest"]),
			Engagement: round2(f.EngagementLevel),
			Dominant:   f.DominantEmotion,
		})
	}
	return timeline
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxOf(values []float64) float64 {
	best := math.Inf(-1)
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best
}

func minOf(values []float64) float64 {
	best := math.Inf(1)
	for _, v := range values {
		if v < best {
			best = v
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
