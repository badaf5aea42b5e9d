package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type AnalysisJobStatus string

const (
	AnalysisJobStatusQueued     AnalysisJobStatus = "queued"
	AnalysisJobStatusProcessing AnalysisJobStatus = "processing"
	AnalysisJobStatusCompleted  AnalysisJobStatus = "completed"
	AnalysisJobStatusFailed     AnalysisJobStatus = "failed"
)

// AnalysisJob tracks one queued emotion analysis run.
type AnalysisJob struct {
	Id              int               `json:"id" gorm:"primaryKey"`
	Uuid            string            `json:"uuid" gorm:"unique"`
	ReactionVideoId int               `json:"reaction_video_id" gorm:"index"`
	AdId            int               `json:"ad_id"`
	Status          AnalysisJobStatus `json:"status" gorm:"default:'queued'"`
	Progress        int               `json:"progress"`
	Step            string            `json:"step"`
	ErrorMessage    string            `json:"error_message" gorm:"type:text"`
	ErrorStack      string            `json:"error_stack" gorm:"type:text"`
	CreateTime      time.Time         `json:"create_time" gorm:"datetime;autoCreateTime"`
	UpdateTime      time.Time         `json:"update_time" gorm:"datetime;autoCreateTime;autoUpdateTime"`
}

func AddAnalysisJob(job *AnalysisJob) error {
	return DB.Create(job).Error
}

func GetAnalysisJobByUuid(uuid string) (*AnalysisJob, error) {
	var job AnalysisJob
	if err := DB.Where("uuid = ?", uuid).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func UpdateJobProgress(uuid string, progress int, step string) error {
	return DB.Model(&AnalysisJob{}).Where("uuid = ?", uuid).Updates(map[string]interface{}{
		"status":   AnalysisJobStatusProcessing,
		"progress": progress,
		"step":     step,
	}).Error
}

func CompleteJob(uuid string) error {
	return DB.Model(&AnalysisJob{}).Where("uuid = ?", uuid).Updates(map[string]interface{}{
		"status":   AnalysisJobStatusCompleted,
		"progress": 100,
		"step":     "Completed",
	}).Error
}

func FailJob(uuid string, errorMessage, errorStack string) error {
	return DB.Model(&AnalysisJob{}).Where("uuid = ?", uuid).Updates(map[string]interface{}{
		"status":        AnalysisJobStatusFailed,
		"error_message": errorMessage,
		"error_stack":   errorStack,
	}).Error
}
