package model

import (
	"gorm.io/gorm/clause"
)

// EmotionFrame is one persisted per-frame analysis result. Only frames
// with a detected face are stored.
type EmotionFrame struct {
	Id               int64   `json:"id" gorm:"primaryKey"`
	ReactionVideoId  int     `json:"reaction_video_id" gorm:"uniqueIndex:idx_reaction_frame"`
	FrameNumber      int     `json:"frame_number" gorm:"uniqueIndex:idx_reaction_frame"`
	TimestampSeconds float64 `json:"timestamp_seconds"`
	FaceDetected     bool    `json:"face_detected"`
	FaceBBox         string  `json:"face_bbox" gorm:"type:json"`
	FaceConfidence   float64 `json:"face_confidence"`

	Joy       float64 `json:"joy"`
	Surprise  float64 `json:"surprise"`
	Sadness   float64 `json:"sadness"`
	Anger     float64 `json:"anger"`
	Fear      float64 `json:"fear"`
	Disgust   float64 `json:"disgust"`
	Contempt  float64 `json:"contempt"`
	Interest  float64 `json:"interest"`
	Confusion float64 `json:"confusion"`

	DominantEmotion    string  `json:"dominant_emotion"`
	EmotionalIntensity float64 `json:"emotional_intensity"`
	EngagementLevel    float64 `json:"engagement_level"`
	RawResponse        string  `json:"raw_response" gorm:"type:json"`
}

// SaveEmotionFrames upserts frame rows keyed by (reaction, frame number)
// so re-running a job overwrites its previous results.
func SaveEmotionFrames(frames []*EmotionFrame) error {
	if len(frames) == 0 {
		return nil
	}
	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reaction_video_id"}, {Name: "frame_number"}},
		UpdateAll: true,
	}).Create(frames).Error
}

func ListEmotionFrames(reactionId int) ([]EmotionFrame, error) {
	var frames []EmotionFrame
	if err := DB.Where("reaction_video_id = ?", reactionId).
		Order("frame_number").Find(&frames).Error; err != nil {
		return nil, err
	}
	return frames, nil
}
