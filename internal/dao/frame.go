package dao

// FaceBBox is the detected face bounding box in frame pixel coordinates.
type FaceBBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FrameRecord is one emotion analysis result for one sampled frame. It is
// produced by whichever inference strategy handled the frame and is
// immutable once emitted. When FaceDetected is true, Emotions always
// carries all nine canonical emotion keys.
type FrameRecord struct {
	FrameNum           int                `json:"frameNum"`
	Timestamp          float64            `json:"timestamp"`
	FaceDetected       bool               `json:"faceDetected"`
	FaceBBox           *FaceBBox          `json:"faceBBox,omitempty"`
	FaceConfidence     float64            `json:"faceConfidence,omitempty"`
	Emotions           map[string]float64 `json:"emotions,omitempty"`
	DominantEmotion    string             `json:"dominantEmotion,omitempty"`
	EmotionalIntensity float64            `json:"emotionalIntensity,omitempty"`
	EngagementLevel    float64            `json:"engagementLevel,omitempty"`
}
