package emotion

import (
	"sync"

	"reactsense/internal/dao"
)

// Publisher receives job events. The worker backs it with NSQ plus the
// jobs table; tests use an in-memory recorder.
type Publisher interface {
	Publish(ev *dao.JobEvent)
}

// Reporter maps strategy-internal completion fractions onto the job's
// overall 0-100 progress scale and fans out realtime frame results. The
// published percent sequence is non-decreasing for the reporter's lifetime.
type Reporter struct {
	jobUuid string
	refType string
	refId   int
	pub     Publisher

	mu   sync.Mutex
	last int
}

func NewReporter(jobUuid, refType string, refId int, pub Publisher) *Reporter {
	return &Reporter{
		jobUuid: jobUuid,
		refType: refType,
		refId:   refId,
		pub:     pub,
	}
}

// Progress publishes a progress event. Updates below the high-water mark
// are dropped so progress never moves backwards.
func (r *Reporter) Progress(percent int, step string) {
	if percent > 100 {
		percent = 100
	}
	r.mu.Lock()
	if percent < r.last {
		r.mu.Unlock()
		return
	}
	r.last = percent
	r.mu.Unlock()

	r.pub.Publish(&dao.JobEvent{
		Type:          dao.EventTypeProgress,
		JobUuid:       r.jobUuid,
		Progress:      percent,
		Step:          step,
		ReferenceType: r.refType,
		ReferenceId:   r.refId,
	})
}

// Span returns a progress function that maps a phase-internal fraction in
// [0,1] linearly into the [lo,hi] segment of the overall scale.
func (r *Reporter) Span(lo, hi int) func(frac float64, step string) {
	return func(frac float64, step string) {
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}
		r.Progress(lo+int(frac*float64(hi-lo)), step)
	}
}

// Frame fans out one realtime frame result (streaming mode only).
func (r *Reporter) Frame(rec *dao.FrameRecord) {
	r.pub.Publish(&dao.JobEvent{
		Type:          dao.EventTypeFrameResult,
		JobUuid:       r.jobUuid,
		Frame:         rec,
		ReferenceType: r.refType,
		ReferenceId:   r.refId,
	})
}

// Completed publishes the completion event and drives progress to 100.
func (r *Reporter) Completed() {
	r.Progress(100, "Completed")
	r.pub.Publish(&dao.JobEvent{
		Type:          dao.EventTypeCompleted,
		JobUuid:       r.jobUuid,
		ReferenceType: r.refType,
		ReferenceId:   r.refId,
	})
}

// Failed publishes the error event. Progress is left where it was.
func (r *Reporter) Failed(errMsg, stack string) {
	r.pub.Publish(&dao.JobEvent{
		Type:          dao.EventTypeError,
		JobUuid:       r.jobUuid,
		Error:         errMsg,
		Stack:         stack,
		ReferenceType: r.refType,
		ReferenceId:   r.refId,
	})
}

// Current returns the progress high-water mark.
func (r *Reporter) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
