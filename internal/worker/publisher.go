package worker

import (
	"encoding/json"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"

	"reactsense/internal/dao"
	"reactsense/internal/model"
	"reactsense/pkg/log"
)

// EventPublisher fans job events out to NSQ and mirrors lifecycle
// transitions into the jobs table so the API can serve progress queries.
type EventPublisher struct {
	producer *nsq.Producer
	topic    string
	logger   *logrus.Entry
}

func NewEventPublisher(producer *nsq.Producer, topic string) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   log.NewLogger().WithField("component", "event-publisher"),
	}
}

func (p *EventPublisher) Publish(ev *dao.JobEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.WithError(err).Error("marshal job event")
		return
	}
	if err := p.producer.Publish(p.topic, data); err != nil {
		p.logger.WithError(err).Errorf("publish %s event for job %s", ev.Type, ev.JobUuid)
	}

	switch ev.Type {
	case dao.EventTypeProgress:
		err = model.UpdateJobProgress(ev.JobUuid, ev.Progress, ev.Step)
	case dao.EventTypeCompleted:
		err = model.CompleteJob(ev.JobUuid)
	case dao.EventTypeError:
		err = model.FailJob(ev.JobUuid, ev.Error, ev.Stack)
	default:
		return
	}
	if err != nil {
		p.logger.WithError(err).Errorf("persist %s event for job %s", ev.Type, ev.JobUuid)
	}
}
