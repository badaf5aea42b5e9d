package emotion

import (
	"context"
	"errors"
	"net/http"

	"reactsense/internal/dao"
)

// ErrAPIKeyMissing means no inference strategy can run: there is no key
// for the expression-measurement service. Fatal for the job.
var ErrAPIKeyMissing = errors.New("hume api key not configured")

// Strategy is one complete method of producing frame records for a job.
// Implementations map their internal completion fraction into the 20-90
// segment of the job progress scale through the reporter.
type Strategy interface {
	Name() string
	Analyze(ctx context.Context, src FrameSource, rep *Reporter) ([]dao.FrameRecord, error)
}

// Options carries everything strategy selection needs. ForceMock and
// StreamingEnabled are expected to be resolved by the caller with the
// persisted-setting-over-config precedence.
type Options struct {
	APIKey           string
	ForceMock        bool
	StreamingEnabled bool

	StreamURL  string
	BatchURL   string
	HTTPClient *http.Client
	Store      ObjectStore // nil disables the object-storage batch transport
}

// Select picks the strategy for a job. The decision is made once; it is
// never re-evaluated mid-job, and a streaming failure does not fall back
// to batch.
func Select(opts Options) (Strategy, error) {
	if opts.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}
	if opts.ForceMock {
		return NewMockStrategy(0), nil
	}
	if opts.StreamingEnabled {
		return NewStreamingStrategy(opts.StreamURL, opts.APIKey), nil
	}
	return NewBatchStrategy(opts.BatchURL, opts.APIKey, opts.HTTPClient, opts.Store), nil
}
