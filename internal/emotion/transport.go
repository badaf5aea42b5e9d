package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"reactsense/internal/config"
)

// Job status values reported by the batch inference service.
const (
	StatusQueued     = "QUEUED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// ObjectStore stages a local video where the inference service can fetch
// it by URL.
type ObjectStore interface {
	UploadVideo(ctx context.Context, localPath string) (string, error)
}

// MinioStore stages uploads in an S3-compatible bucket and hands out
// presigned GET URLs.
type MinioStore struct {
	cli    *minio.Client
	bucket string
}

func NewMinioStore(conf config.S3Config) (*MinioStore, error) {
	region := conf.Region
	if region == "" {
		region = "us-east-1"
	}
	cli, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKeyID, conf.SecretAccessKey, ""),
		Secure: conf.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioStore{cli: cli, bucket: conf.Bucket}, nil
}

func (s *MinioStore) UploadVideo(ctx context.Context, localPath string) (string, error) {
	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".mp4":
		contentType = "video/mp4"
	case ".mov":
		contentType = "video/quicktime"
	case ".avi":
		contentType = "video/avi"
	case ".webm":
		contentType = "video/webm"
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	}

	object := fmt.Sprintf("inference/%s%s", uuid.New().String(), filepath.Ext(localPath))
	if _, err := s.cli.FPutObject(ctx, s.bucket, object, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("put object to minio: %w", err)
	}

	signed, err := s.cli.PresignedGetObject(ctx, s.bucket, object, time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return signed.String(), nil
}

// batchAPI is the raw HTTP surface of the batch inference service.
type batchAPI struct {
	baseURL string
	apiKey  string
	cli     *http.Client
}

func newBatchAPI(baseURL, apiKey string, cli *http.Client) *batchAPI {
	if cli == nil {
		cli = &http.Client{Timeout: 60 * time.Second}
	}
	return &batchAPI{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		cli:     cli,
	}
}

type submitJobResponse struct {
	JobId string `json:"job_id"`
}

type jobStatusResponse struct {
	Status string `json:"status"`
}

func (a *batchAPI) do(req *http.Request) ([]byte, error) {
	req.Header.Set("X-Hume-Api-Key", a.apiKey)
	resp, err := a.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("batch api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// submitURLJob starts a face inference job on a file the service fetches
// itself.
func (a *batchAPI) submitURLJob(ctx context.Context, fileURL string) (string, error) {
	payload := map[string]interface{}{
		"models": map[string]interface{}{"face": map[string]interface{}{}},
		"urls":   []string{fileURL},
	}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/jobs", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := a.do(req)
	if err != nil {
		return "", err
	}
	var resp submitJobResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if resp.JobId == "" {
		return "", fmt.Errorf("submit response missing job id")
	}
	return resp.JobId, nil
}

// submitFileJob starts a face inference job on directly uploaded bytes.
func (a *batchAPI) submitFileJob(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	jsonPart, err := mw.CreateFormField("json")
	if err != nil {
		return "", err
	}
	if _, err := jsonPart.Write([]byte(`{"models":{"face":{}}}`)); err != nil {
		return "", err
	}

	filePart, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(filePart, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/jobs", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := a.do(req)
	if err != nil {
		return "", err
	}
	var resp submitJobResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if resp.JobId == "" {
		return "", fmt.Errorf("submit response missing job id")
	}
	return resp.JobId, nil
}

func (a *batchAPI) jobStatus(ctx context.Context, jobId string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/jobs/"+jobId, nil)
	if err != nil {
		return "", err
	}
	body, err := a.do(req)
	if err != nil {
		return "", err
	}
	var resp jobStatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}
	return resp.Status, nil
}

func (a *batchAPI) predictions(ctx context.Context, jobId string) (*batchPredictionsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/jobs/"+jobId+"/predictions", nil)
	if err != nil {
		return nil, err
	}
	body, err := a.do(req)
	if err != nil {
		return nil, err
	}
	var resp batchPredictionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode predictions response: %w", err)
	}
	return &resp, nil
}

// batchTransport is one way of getting a file to the inference service.
// Transports are attempted in order until one submits successfully and the
// submitted job completes.
type batchTransport interface {
	Name() string
	Submit(ctx context.Context, filePath string) (string, error)
}

// storeTransport stages the file in object storage and submits its
// presigned URL.
type storeTransport struct {
	api   *batchAPI
	store ObjectStore
}

func (t *storeTransport) Name() string { return "s3-url" }

func (t *storeTransport) Submit(ctx context.Context, filePath string) (string, error) {
	fileURL, err := t.store.UploadVideo(ctx, filePath)
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	return t.api.submitURLJob(ctx, fileURL)
}

// multipartTransport uploads the raw file in a multipart form.
type multipartTransport struct {
	api *batchAPI
}

func (t *multipartTransport) Name() string { return "multipart" }

func (t *multipartTransport) Submit(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()
	return t.api.submitFileJob(ctx, filepath.Base(filePath), f)
}
