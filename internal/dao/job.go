package dao

// EmotionJobPayload is the queue message that triggers one analysis job.
type EmotionJobPayload struct {
	JobUuid    string `json:"jobUuid" binding:"required"`
	ReactionId int    `json:"reactionId" binding:"required"`
	AdId       int    `json:"adId,omitempty"`
	FilePath   string `json:"filePath" binding:"required"`
}

// AnalysisResult is what one pipeline run returns to the job handler.
type AnalysisResult struct {
	FrameResults          []FrameRecord  `json:"frameResults"`
	Summary               *EmotionSummary `json:"summary"`
	ProcessingTimeSeconds float64        `json:"processingTimeSeconds"`
}

type CreateAnalysisRequest struct {
	FilePath string `json:"filePath" binding:"required,videopath"`
	AdId     int    `json:"adId,omitempty"`
}

type CreateAnalysisResponse struct {
	JobUuid string `json:"jobUuid"`
}

type JobStatusResponse struct {
	JobUuid  string `json:"jobUuid"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Step     string `json:"step,omitempty"`
	Error    string `json:"error,omitempty"`
}
