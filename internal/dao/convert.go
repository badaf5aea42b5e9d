package dao

import (
	"encoding/json"

	"reactsense/internal/model"
)

// ToModel converts a frame record into its persisted row.
func (f *FrameRecord) ToModel(reactionId int) *model.EmotionFrame {
	row := &model.EmotionFrame{
		ReactionVideoId:    reactionId,
		FrameNumber:        f.FrameNum,
		TimestampSeconds:   f.Timestamp,
		FaceDetected:       f.FaceDetected,
		FaceConfidence:     f.FaceConfidence,
		Joy:                f.Emotions["joy"],
		Surprise:           f.Emotions["surprise"],
		Sadness:            f.Emotions["sadness"],
		Anger:              f.Emotions["anger"],
		Fear:               f.Emotions["fear"],
		Disgust:            f.Emotions["disgust"],
		Contempt:           f.Emotions["contempt"],
		Interest:           f.Emotions["interest"],
		Confusion:          f.Emotions["confusion"],
		DominantEmotion:    f.DominantEmotion,
		EmotionalIntensity: f.EmotionalIntensity,
		EngagementLevel:    f.EngagementLevel,
	}
	if f.FaceBBox != nil {
		if data, err := json.Marshal(f.FaceBBox); err == nil {
			row.FaceBBox = string(data)
		}
	}
	if data, err := json.Marshal(f); err == nil {
		row.RawResponse = string(data)
	}
	return row
}

// ToModel converts a summary into its persisted row.
func (s *EmotionSummary) ToModel(reactionId int, processingTime float64) *model.EmotionSummary {
	row := &model.EmotionSummary{
		ReactionVideoId:       reactionId,
		AvgJoy:                s.Averages["joy"],
		AvgSurprise:           s.Averages["surprise"],
		AvgSadness:            s.Averages["sadness"],
		AvgAnger:              s.Averages["anger"],
		AvgFear:               s.Averages["fear"],
		AvgDisgust:            s.Averages["disgust"],
		AvgContempt:           s.Averages["contempt"],
		AvgInterest:           s.Averages["interest"],
		AvgConfusion:          s.Averages["confusion"],
		PeakJoyTimestamp:      s.PeakJoyTimestamp,
		PeakSurpriseTimestamp: s.PeakSurpriseTimestamp,
		PeakInterestTimestamp: s.PeakInterestTimestamp,
		AvgEngagement:         s.AvgEngagement,
		PeakEngagement:        s.PeakEngagement,
		EngagementTrend:       s.EngagementTrend,
		DominantEmotion:       s.DominantEmotion,
		EmotionalValence:      s.EmotionalValence,
		EmotionalArousal:      s.EmotionalArousal,
		FramesAnalyzed:        s.FramesAnalyzed,
		FramesWithFaces:       s.FramesWithFaces,
		ProcessingTimeSeconds: processingTime,
	}
	if len(s.EmotionTimeline) > 0 {
		if data, err := json.Marshal(s.EmotionTimeline); err == nil {
			row.EmotionTimeline = string(data)
		}
	}
	return row
}

// FromJobModel converts a job row into the status response.
func FromJobModel(job *model.AnalysisJob) *JobStatusResponse {
	return &JobStatusResponse{
		JobUuid:  job.Uuid,
		Status:   string(job.Status),
		Progress: job.Progress,
		Step:     job.Step,
		Error:    job.ErrorMessage,
	}
}
