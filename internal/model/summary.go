package model

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmotionSummary is the persisted aggregate of one reaction video.
type EmotionSummary struct {
	Id              int `json:"id" gorm:"primaryKey"`
	ReactionVideoId int `json:"reaction_video_id" gorm:"uniqueIndex"`

	AvgJoy       float64 `json:"avg_joy"`
	AvgSurprise  float64 `json:"avg_surprise"`
	AvgSadness   float64 `json:"avg_sadness"`
	AvgAnger     float64 `json:"avg_anger"`
	AvgFear      float64 `json:"avg_fear"`
	AvgDisgust   float64 `json:"avg_disgust"`
	AvgContempt  float64 `json:"avg_contempt"`
	AvgInterest  float64 `json:"avg_interest"`
	AvgConfusion float64 `json:"avg_confusion"`

	PeakJoyTimestamp      float64 `json:"peak_joy_timestamp"`
	PeakSurpriseTimestamp float64 `json:"peak_surprise_timestamp"`
	PeakInterestTimestamp float64 `json:"peak_interest_timestamp"`

	AvgEngagement    float64 `json:"avg_engagement"`
	PeakEngagement   float64 `json:"peak_engagement"`
	EngagementTrend  string  `json:"engagement_trend"`
	DominantEmotion  string  `json:"dominant_emotion"`
	EmotionalValence float64 `json:"emotional_valence"`
	EmotionalArousal float64 `json:"emotional_arousal"`

	EmotionTimeline       string  `json:"emotion_timeline" gorm:"type:json"`
	FramesAnalyzed        int     `json:"frames_analyzed"`
	FramesWithFaces       int     `json:"frames_with_faces"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
}

// SaveEmotionSummary upserts the summary row keyed by reaction video.
func SaveEmotionSummary(s *EmotionSummary) error {
	return DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reaction_video_id"}},
		UpdateAll: true,
	}).Create(s).Error
}

func GetEmotionSummary(reactionId int) (*EmotionSummary, error) {
	var s EmotionSummary
	if err := DB.Where("reaction_video_id = ?", reactionId).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
