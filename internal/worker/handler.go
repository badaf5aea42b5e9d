package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"

	"reactsense/internal/config"
	"reactsense/internal/dao"
	"reactsense/internal/emotion"
	"reactsense/internal/model"
	"reactsense/internal/video"
	"reactsense/pkg/log"
)

// Handler runs one emotion analysis job per queue message.
type Handler struct {
	conf    *config.Config
	ctx     context.Context
	pub     emotion.Publisher
	store   emotion.ObjectStore
	httpCli *http.Client
	logger  *logrus.Entry
}

func NewHandler(ctx context.Context, conf *config.Config, pub emotion.Publisher) *Handler {
	h := &Handler{
		conf: conf,
		ctx:  ctx,
		pub:  pub,
		httpCli: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: log.GetLogger(ctx).WithField("component", "worker"),
	}

	if conf.S3.AccessKeyID != "" {
		store, err := emotion.NewMinioStore(conf.S3)
		if err != nil {
			h.logger.WithError(err).Warn("object storage unavailable, batch jobs will use direct upload only")
		} else {
			h.store = store
		}
	}
	return h
}

// HandleMessage implements nsq.Handler. A returned error requeues the
// message up to the configured attempt limit.
func (h *Handler) HandleMessage(message *nsq.Message) error {
	var payload dao.EmotionJobPayload
	if err := json.Unmarshal(message.Body, &payload); err != nil {
		h.logger.WithError(err).Error("unmarshal job payload, dropping message")
		return nil
	}
	return h.Run(h.ctx, &payload)
}

// Run executes the full pipeline for one job. Any failure marks the
// reaction and job as failed, publishes the error event and is returned
// to the dispatcher.
func (h *Handler) Run(ctx context.Context, payload *dao.EmotionJobPayload) error {
	logger := log.JobLogger(ctx, payload.JobUuid)
	logger.Infof("starting emotion analysis for reaction %d", payload.ReactionId)

	rep := emotion.NewReporter(payload.JobUuid, dao.RefTypeReactionVideo, payload.ReactionId, h.pub)
	result, err := h.analyze(ctx, payload, rep, logger)
	if err != nil {
		logger.WithError(err).Error("emotion analysis failed")
		if dbErr := model.UpdateReactionStatus(payload.ReactionId, model.ReactionStatusFailed, err.Error()); dbErr != nil {
			logger.WithError(dbErr).Error("update reaction status")
		}
		rep.Failed(err.Error(), string(debug.Stack()))
		return err
	}

	logger.Infof("emotion analysis complete for reaction %d in %.2fs",
		payload.ReactionId, result.ProcessingTimeSeconds)
	return nil
}

func (h *Handler) analyze(ctx context.Context, payload *dao.EmotionJobPayload, rep *emotion.Reporter, logger *logrus.Entry) (*dao.AnalysisResult, error) {
	start := time.Now()

	if err := model.UpdateReactionStatus(payload.ReactionId, model.ReactionStatusProcessing, ""); err != nil {
		return nil, fmt.Errorf("update reaction status: %w", err)
	}
	rep.Progress(5, "Initializing...")

	strategy, err := emotion.Select(h.resolveOptions())
	if err != nil {
		return nil, err
	}
	logger.Infof("selected %s strategy", strategy.Name())

	rep.Progress(10, "Loading video...")
	src, err := video.Open(payload.FilePath, h.conf.SampleRate)
	if err != nil {
		return nil, err
	}
	info := src.Info()
	if err := model.UpdateReactionVideoInfo(payload.ReactionId,
		info.DurationSeconds, info.FPS, info.FrameCount, info.Width, info.Height); err != nil {
		logger.WithError(err).Warn("update reaction video info")
	}

	rep.Progress(20, "Analyzing emotions...")
	records, err := strategy.Analyze(ctx, src, rep)
	if err != nil {
		return nil, err
	}

	rep.Progress(90, "Calculating summary...")
	summary := emotion.Summarize(records)

	rep.Progress(95, "Saving results...")
	processingTime := time.Since(start).Seconds()
	if err := h.saveResults(payload.ReactionId, records, summary, processingTime); err != nil {
		return nil, fmt.Errorf("save results: %w", err)
	}

	if err := model.UpdateReactionStatus(payload.ReactionId, model.ReactionStatusCompleted, ""); err != nil {
		logger.WithError(err).Warn("update reaction status")
	}
	rep.Completed()

	return &dao.AnalysisResult{
		FrameResults:          records,
		Summary:               summary,
		ProcessingTimeSeconds: processingTime,
	}, nil
}

// resolveOptions applies the persisted-setting-over-config precedence for
// the API key and the two strategy booleans.
func (h *Handler) resolveOptions() emotion.Options {
	apiKey := h.conf.Hume.APIKey
	if stored, err := model.GetSetting(model.SettingHumeAPIKey); err == nil && stored != "" {
		apiKey = stored
	}
	return emotion.Options{
		APIKey:           apiKey,
		ForceMock:        model.GetBoolSetting(model.SettingForceMock, h.conf.Hume.ForceMock),
		StreamingEnabled: model.GetBoolSetting(model.SettingStreamingEnabled, h.conf.Hume.StreamingEnabled),
		StreamURL:        h.conf.Hume.StreamURL,
		BatchURL:         h.conf.Hume.BatchURL,
		HTTPClient:       h.httpCli,
		Store:            h.store,
	}
}

func (h *Handler) saveResults(reactionId int, records []dao.FrameRecord, summary *dao.EmotionSummary, processingTime float64) error {
	var rows []*model.EmotionFrame
	for i := range records {
		if !records[i].FaceDetected {
			continue
		}
		rows = append(rows, records[i].ToModel(reactionId))
	}
	if err := model.SaveEmotionFrames(rows); err != nil {
		return err
	}
	return model.SaveEmotionSummary(summary.ToModel(reactionId, processingTime))
}
