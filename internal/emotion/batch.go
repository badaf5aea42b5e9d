package emotion

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"reactsense/internal/dao"
	"reactsense/pkg/log"
)

const (
	videoPollInterval = 2 * time.Second
	videoPollAttempts = 120 // ~4 minute ceiling

	imagePollInterval = 500 * time.Millisecond
	imagePollAttempts = 30 // ~15 second ceiling

	frameWorkers = 4
)

// BatchStrategy uploads the whole video to the inference service and polls
// for completion. Transports are tried in order; when every transport
// fails the strategy falls back to synthetic results over the same video.
type BatchStrategy struct {
	api        *batchAPI
	transports []batchTransport
	mock       *MockStrategy
	logger     *logrus.Entry

	pollInterval time.Duration
	pollAttempts int
}

func NewBatchStrategy(baseURL, apiKey string, cli *http.Client, store ObjectStore) *BatchStrategy {
	api := newBatchAPI(baseURL, apiKey, cli)

	var transports []batchTransport
	if store != nil {
		transports = append(transports, &storeTransport{api: api, store: store})
	}
	transports = append(transports, &multipartTransport{api: api})

	return &BatchStrategy{
		api:          api,
		transports:   transports,
		mock:         NewMockStrategy(0),
		logger:       log.NewLogger().WithField("component", "batch-client"),
		pollInterval: videoPollInterval,
		pollAttempts: videoPollAttempts,
	}
}

func (s *BatchStrategy) Name() string { return "batch" }

func (s *BatchStrategy) Analyze(ctx context.Context, src FrameSource, rep *Reporter) ([]dao.FrameRecord, error) {
	span := rep.Span(20, 90)
	info := src.Info()

	for _, t := range s.transports {
		records, err := s.analyzeWith(ctx, t, src.Path(), info.FPS, span)
		if err != nil {
			s.logger.WithError(err).Warnf("batch transport %s failed, trying next fallback", t.Name())
			continue
		}
		return records, nil
	}

	s.logger.Warn("all batch transports failed, falling back to synthetic results")
	return s.mock.Analyze(ctx, src, rep)
}

func (s *BatchStrategy) analyzeWith(ctx context.Context, t batchTransport, filePath string, fps float64, span func(float64, string)) ([]dao.FrameRecord, error) {
	span(0.05, "Uploading video...")
	jobId, err := t.Submit(ctx, filePath)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("submitted inference job %s via %s", jobId, t.Name())

	if err := s.poll(ctx, jobId, s.pollInterval, s.pollAttempts, span); err != nil {
		return nil, err
	}

	span(0.95, "Parsing predictions...")
	preds, err := s.api.predictions(ctx, jobId)
	if err != nil {
		return nil, err
	}

	records := make([]dao.FrameRecord, 0, len(preds.Predictions))
	for i := range preds.Predictions {
		records = append(records, parseBatchPrediction(&preds.Predictions[i], fps))
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].FrameNum < records[j].FrameNum
	})
	return records, nil
}

// poll checks the job status at a fixed interval up to a bounded attempt
// count. COMPLETED returns nil; FAILED and an exhausted ceiling both
// return an error, escalating to the next fallback.
func (s *BatchStrategy) poll(ctx context.Context, jobId string, interval time.Duration, attempts int, span func(float64, string)) error {
	for attempt := 0; attempt < attempts; attempt++ {
		status, err := s.api.jobStatus(ctx, jobId)
		if err != nil {
			return err
		}
		switch status {
		case StatusCompleted:
			return nil
		case StatusFailed:
			return fmt.Errorf("inference job %s failed", jobId)
		default:
			// QUEUED, IN_PROGRESS: keep polling
		}

		if span != nil {
			span(0.1+0.8*float64(attempt+1)/float64(attempts), "Waiting for inference results...")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("inference job %s did not complete within %d attempts", jobId, attempts)
}

// AnalyzeImageBytes runs the single-frame variant over one encoded image:
// same transport-fallback shape as the video path but with the short
// polling ceiling, falling back to a synthetic record for that frame.
func (s *BatchStrategy) AnalyzeImageBytes(ctx context.Context, name string, jpeg []byte, frameNum int, timestamp float64) dao.FrameRecord {
	jobId, err := s.api.submitFileJob(ctx, name, bytes.NewReader(jpeg))
	if err != nil {
		s.logger.WithError(err).Warnf("submit frame %d failed, using synthetic result", frameNum)
		return s.mock.gen.Frame(frameNum, timestamp)
	}

	if err := s.poll(ctx, jobId, imagePollInterval, imagePollAttempts, nil); err != nil {
		s.logger.WithError(err).Warnf("frame %d inference failed, using synthetic result", frameNum)
		return s.mock.gen.Frame(frameNum, timestamp)
	}

	preds, err := s.api.predictions(ctx, jobId)
	if err != nil || len(preds.Predictions) == 0 {
		if err != nil {
			s.logger.WithError(err).Warnf("fetch frame %d predictions failed", frameNum)
		}
		return NoFaceRecord(frameNum, timestamp)
	}

	rec := parseBatchPrediction(&preds.Predictions[0], 0)
	rec.FrameNum = frameNum
	rec.Timestamp = timestamp
	return rec
}

// AnalyzeFrames analyzes a list of independent still frames with a small
// fixed-size worker pool. Results are returned in input order.
func (s *BatchStrategy) AnalyzeFrames(ctx context.Context, frames []Frame, progress func(done, total int)) []dao.FrameRecord {
	records := make([]dao.FrameRecord, len(frames))

	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0
	sem := make(chan struct{}, frameWorkers)

	for i := range frames {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			f := frames[idx]
			name := fmt.Sprintf("frame-%06d.jpg", f.Num)
			records[idx] = s.AnalyzeImageBytes(ctx, name, f.JPEG, f.Num, f.Timestamp)

			mu.Lock()
			done++
			if progress != nil {
				progress(done, len(frames))
			}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	return records
}
