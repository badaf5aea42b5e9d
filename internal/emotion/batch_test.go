package emotion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBatchService emulates the batch inference HTTP surface.
type fakeBatchService struct {
	mu          sync.Mutex
	statuses    []string
	statusIdx   int
	predictions batchPredictionsResponse
	submitCode  int
	submissions []string // content types of received submissions
}

func (f *fakeBatchService) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/jobs"):
			f.mu.Lock()
			f.submissions = append(f.submissions, r.Header.Get("Content-Type"))
			f.mu.Unlock()
			if f.submitCode != 0 {
				w.WriteHeader(f.submitCode)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"job_id": "j1"})
		case strings.HasSuffix(r.URL.Path, "/predictions"):
			json.NewEncoder(w).Encode(&f.predictions)
		default:
			f.mu.Lock()
			status := f.statuses[len(f.statuses)-1]
			if f.statusIdx < len(f.statuses) {
				status = f.statuses[f.statusIdx]
				f.statusIdx++
			}
			f.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]string{"status": status})
		}
	}
}

func (f *fakeBatchService) submissionTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submissions...)
}

func tempVideoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reaction.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0644))
	return path
}

func newTestBatch(baseURL string, store ObjectStore) *BatchStrategy {
	s := NewBatchStrategy(baseURL, "test-key", nil, store)
	s.pollInterval = time.Millisecond
	s.pollAttempts = 5
	return s
}

func TestBatchAnalyzeMultipart(t *testing.T) {
	svc := &fakeBatchService{
		statuses: []string{StatusQueued, StatusInProgress, StatusCompleted},
		predictions: batchPredictionsResponse{
			Predictions: []batchFramePrediction{
				{TimeMs: 500, Prob: 0.95, Emotions: []emotionScore{{Name: "Interest", Score: 0.6}}},
				{TimeMs: 0, Prob: 0.9, Bbox: &bboxPayload{X: 10, Y: 20, W: 100, H: 120},
					Emotions: []emotionScore{{Name: "Joy", Score: 0.7}}},
			},
		},
	}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	src := newFakeSource(4, 2.0)
	src.path = tempVideoFile(t)
	pub := &recordingPublisher{}
	rep := NewReporter("job-1", "reaction_video", 1, pub)

	records, err := newTestBatch(server.URL, nil).Analyze(context.Background(), src, rep)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// predictions come back sorted by frame number
	assert.Equal(t, 0, records[0].FrameNum)
	assert.Equal(t, 1, records[1].FrameNum)
	assert.InDelta(t, 0.7, records[0].Emotions["joy"], 1e-9)
	assert.Equal(t, "joy", records[0].DominantEmotion)
	require.NotNil(t, records[0].FaceBBox)
	assert.Equal(t, 100, records[0].FaceBBox.Width)
	assert.InDelta(t, 0.5, records[1].Timestamp, 1e-9)

	types := svc.submissionTypes()
	require.Len(t, types, 1)
	assert.Contains(t, types[0], "multipart/form-data")

	assert.GreaterOrEqual(t, rep.Current(), 20)
	assert.LessOrEqual(t, rep.Current(), 90)
}

func TestBatchStoreTransportFirst(t *testing.T) {
	svc := &fakeBatchService{statuses: []string{StatusCompleted}}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	src := newFakeSource(2, 2.0)
	src.path = tempVideoFile(t)
	rep := NewReporter("job-1", "reaction_video", 1, &recordingPublisher{})

	store := &fakeStore{url: "http://signed.example/reaction.mp4"}
	_, err := newTestBatch(server.URL, store).Analyze(context.Background(), src, rep)
	require.NoError(t, err)

	types := svc.submissionTypes()
	require.Len(t, types, 1)
	assert.Equal(t, "application/json", types[0])
}

func TestBatchStoreFailureFallsBackToMultipart(t *testing.T) {
	svc := &fakeBatchService{statuses: []string{StatusCompleted}}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	src := newFakeSource(2, 2.0)
	src.path = tempVideoFile(t)
	rep := NewReporter("job-1", "reaction_video", 1, &recordingPublisher{})

	store := &fakeStore{err: assert.AnError}
	_, err := newTestBatch(server.URL, store).Analyze(context.Background(), src, rep)
	require.NoError(t, err)

	types := svc.submissionTypes()
	require.Len(t, types, 1)
	assert.Contains(t, types[0], "multipart/form-data")
}

func TestBatchFailedJobFallsBackToMock(t *testing.T) {
	svc := &fakeBatchService{statuses: []string{StatusFailed}}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	src := newFakeSource(6, 2.0)
	src.path = tempVideoFile(t)
	rep := NewReporter("job-1", "reaction_video", 1, &recordingPublisher{})

	records, err := newTestBatch(server.URL, nil).Analyze(context.Background(), src, rep)
	require.NoError(t, err)
	// synthetic fallback still covers every sampled frame
	assert.Len(t, records, 6)
	assert.Equal(t, 0, records[0].FrameNum)
}

func TestBatchSubmitErrorFallsBackToMock(t *testing.T) {
	svc := &fakeBatchService{statuses: []string{StatusCompleted}, submitCode: http.StatusInternalServerError}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	src := newFakeSource(3, 2.0)
	src.path = tempVideoFile(t)
	rep := NewReporter("job-1", "reaction_video", 1, &recordingPublisher{})

	records, err := newTestBatch(server.URL, nil).Analyze(context.Background(), src, rep)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestBatchMalformedPrediction(t *testing.T) {
	svc := &fakeBatchService{
		statuses: []string{StatusCompleted},
		predictions: batchPredictionsResponse{
			Predictions: []batchFramePrediction{
				{TimeMs: 0, Emotions: []emotionScore{{Name: "Boredom", Score: 0.4}}},
			},
		},
	}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	src := newFakeSource(1, 2.0)
	src.path = tempVideoFile(t)
	rep := NewReporter("job-1", "reaction_video", 1, &recordingPublisher{})

	records, err := newTestBatch(server.URL, nil).Analyze(context.Background(), src, rep)
	require.NoError(t, err)
	require.Len(t, records, 1)
	// unknown emotion labels leave nothing mappable: no-face record, not an abort
	assert.False(t, records[0].FaceDetected)
}

func TestAnalyzeImageBytes(t *testing.T) {
	svc := &fakeBatchService{
		statuses: []string{StatusCompleted},
		predictions: batchPredictionsResponse{
			Predictions: []batchFramePrediction{
				{TimeMs: 0, Prob: 0.91, Emotions: []emotionScore{{Name: "Surprise", Score: 0.55}}},
			},
		},
	}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	s := newTestBatch(server.URL, nil)
	rec := s.AnalyzeImageBytes(context.Background(), "frame-000030.jpg", []byte{0xff, 0xd8}, 30, 1.0)

	assert.Equal(t, 30, rec.FrameNum)
	assert.InDelta(t, 1.0, rec.Timestamp, 1e-9)
	assert.True(t, rec.FaceDetected)
	assert.InDelta(t, 0.55, rec.Emotions["surprise"], 1e-9)
}

func TestAnalyzeImageBytesSubmitFailure(t *testing.T) {
	svc := &fakeBatchService{statuses: []string{StatusCompleted}, submitCode: http.StatusBadGateway}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	s := newTestBatch(server.URL, nil)
	rec := s.AnalyzeImageBytes(context.Background(), "frame.jpg", []byte{0xff, 0xd8}, 12, 0.4)

	// synthetic fallback keeps the frame identity
	assert.Equal(t, 12, rec.FrameNum)
	assert.InDelta(t, 0.4, rec.Timestamp, 1e-9)
}

func TestAnalyzeFramesPreservesOrder(t *testing.T) {
	svc := &fakeBatchService{
		statuses: []string{StatusCompleted},
		predictions: batchPredictionsResponse{
			Predictions: []batchFramePrediction{
				{TimeMs: 0, Prob: 0.9, Emotions: []emotionScore{{Name: "Joy", Score: 0.5}}},
			},
		},
	}
	server := httptest.NewServer(svc.handler())
	defer server.Close()

	src := newFakeSource(9, 2.0)
	s := newTestBatch(server.URL, nil)

	var mu sync.Mutex
	calls := 0
	records := s.AnalyzeFrames(context.Background(), src.frames, func(done, total int) {
		mu.Lock()
		calls++
		mu.Unlock()
		assert.Equal(t, 9, total)
	})

	require.Len(t, records, 9)
	for i, rec := range records {
		assert.Equal(t, src.frames[i].Num, rec.FrameNum)
	}
	assert.Equal(t, 9, calls)
}
