package emotion

import (
	"math"

	"reactsense/internal/dao"
)

// humeEmotionNames maps the service's emotion labels onto the canonical
// vocabulary. Labels outside this map are dropped.
var humeEmotionNames = map[string]string{
	"Joy":       "joy",
	"Surprise":  "surprise",
	"Sadness":   "sadness",
	"Anger":     "anger",
	"Fear":      "fear",
	"Disgust":   "disgust",
	"Contempt":  "contempt",
	"Interest":  "interest",
	"Confusion": "confusion",
}

type emotionScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type bboxPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// facePrediction is one detected face in a streaming reply.
type facePrediction struct {
	Bbox     *bboxPayload   `json:"bbox,omitempty"`
	Prob     float64        `json:"prob,omitempty"`
	Emotions []emotionScore `json:"emotions"`
}

// streamResponse is one reply message of the streaming service: either a
// face model payload or an explicit error.
type streamResponse struct {
	Error string `json:"error,omitempty"`
	Face  struct {
		Predictions []facePrediction `json:"predictions"`
	} `json:"face"`
}

// batchFramePrediction is one per-face, per-time-offset entry of a batch
// predictions payload. Time is in milliseconds from the start of the video.
type batchFramePrediction struct {
	TimeMs   float64        `json:"time"`
	Bbox     *bboxPayload   `json:"bbox,omitempty"`
	Prob     float64        `json:"prob,omitempty"`
	Emotions []emotionScore `json:"emotions"`
}

type batchPredictionsResponse struct {
	Predictions []batchFramePrediction `json:"predictions"`
}

// mapScores converts a service emotion list into a canonical score map.
// Scores are kept as received, only rounded; unknown labels are dropped
// and missing canonical keys filled with zero by the record constructor.
func mapScores(list []emotionScore) map[string]float64 {
	scores := make(map[string]float64, len(CanonicalEmotions))
	for _, e := range list {
		if name, ok := humeEmotionNames[e.Name]; ok {
			scores[name] = round4(e.Score)
		}
	}
	return scores
}

func toBBox(b *bboxPayload) *dao.FaceBBox {
	if b == nil {
		return nil
	}
	return &dao.FaceBBox{
		X:      int(b.X),
		Y:      int(b.Y),
		Width:  int(b.W),
		Height: int(b.H),
	}
}

// parseStreamPrediction turns a streaming reply into a frame record. A
// reply without face predictions yields a no-face record.
func parseStreamPrediction(resp *streamResponse, frameNum int, timestamp float64) dao.FrameRecord {
	if len(resp.Face.Predictions) == 0 {
		return NoFaceRecord(frameNum, timestamp)
	}
	face := resp.Face.Predictions[0]
	scores := mapScores(face.Emotions)
	if len(scores) == 0 {
		return NoFaceRecord(frameNum, timestamp)
	}
	confidence := face.Prob
	if confidence == 0 {
		confidence = 0.9
	}
	return NewFrameRecord(frameNum, timestamp, scores, toBBox(face.Bbox), confidence)
}

// parseBatchPrediction turns one batch prediction entry into a frame
// record. A malformed entry (no mappable emotions) becomes a no-face
// record for that frame instead of aborting the whole parse.
func parseBatchPrediction(p *batchFramePrediction, fps float64) dao.FrameRecord {
	timestamp := p.TimeMs / 1000.0
	frameNum := 0
	if fps > 0 {
		frameNum = int(math.Round(timestamp * fps))
	}
	scores := mapScores(p.Emotions)
	if len(scores) == 0 {
		return NoFaceRecord(frameNum, timestamp)
	}
	return NewFrameRecord(frameNum, timestamp, scores, toBBox(p.Bbox), p.Prob)
}
