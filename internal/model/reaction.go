package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type ReactionStatus string

const (
	ReactionStatusPending    ReactionStatus = "pending"
	ReactionStatusProcessing ReactionStatus = "processing"
	ReactionStatusCompleted  ReactionStatus = "completed"
	ReactionStatusFailed     ReactionStatus = "failed"
)

// ReactionVideo is one uploaded viewer reaction recording.
type ReactionVideo struct {
	Id              int            `json:"id" gorm:"primaryKey"`
	AdId            int            `json:"ad_id" gorm:"index"`
	FilePath        string         `json:"file_path" gorm:"NOT NULL"`
	Status          ReactionStatus `json:"status" gorm:"default:'pending'"`
	ErrorMessage    string         `json:"error_message" gorm:"type:text"`
	DurationSeconds float64        `json:"duration_seconds"`
	Fps             float64        `json:"fps"`
	FrameCount      int            `json:"frame_count"`
	Width           int            `json:"width"`
	Height          int            `json:"height"`
	CreateTime      time.Time      `json:"create_time" gorm:"datetime;autoCreateTime"`
	UpdateTime      time.Time      `json:"update_time" gorm:"datetime;autoCreateTime;autoUpdateTime"`
}

func AddReactionVideo(r *ReactionVideo) error {
	return DB.Create(r).Error
}

func GetReactionVideoById(id int) (*ReactionVideo, error) {
	var r ReactionVideo
	if err := DB.Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func UpdateReactionStatus(id int, status ReactionStatus, errorMessage string) error {
	return DB.Model(&ReactionVideo{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        status,
		"error_message": errorMessage,
	}).Error
}

func UpdateReactionVideoInfo(id int, duration, fps float64, frameCount, width, height int) error {
	return DB.Model(&ReactionVideo{}).Where("id = ?", id).Updates(map[string]interface{}{
		"duration_seconds": duration,
		"fps":              fps,
		"frame_count":      frameCount,
		"width":            width,
		"height":           height,
	}).Error
}
