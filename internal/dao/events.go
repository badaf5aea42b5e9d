package dao

const (
	EventTypeProgress    = "progress"
	EventTypeFrameResult = "frame_result"
	EventTypeCompleted   = "completed"
	EventTypeError       = "error"

	RefTypeReactionVideo = "reaction_video"
	RefTypeAd            = "ad"
)

// JobEvent is published for every observable transition of a job: progress
// ticks, realtime per-frame results in streaming mode, completion and
// failure. Type selects which optional fields are set.
type JobEvent struct {
	Type          string       `json:"type"`
	JobUuid       string       `json:"jobUuid"`
	Progress      int          `json:"progress,omitempty"`
	Step          string       `json:"step,omitempty"`
	Frame         *FrameRecord `json:"frame,omitempty"`
	Error         string       `json:"error,omitempty"`
	Stack         string       `json:"stack,omitempty"`
	ReferenceType string       `json:"referenceType"`
	ReferenceId   int          `json:"referenceId"`
}
