package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nsqio/go-nsq"
	"github.com/sirupsen/logrus"

	"reactsense/internal/config"
	"reactsense/pkg/log"
)

// Worker consumes analysis jobs from NSQ and runs them one at a time.
// Emotion analysis is CPU and API heavy, so concurrency stays at one
// message in flight per process.
type Worker struct {
	conf     *config.Config
	ctx      context.Context
	cancel   context.CancelFunc
	consumer *nsq.Consumer
	producer *nsq.Producer
	wg       sync.WaitGroup
	logger   *logrus.Entry
}

func NewWorker(conf *config.Config) (*Worker, error) {
	ctx, cancel := context.WithCancel(context.Background())

	logger := log.GetLogger(ctx).WithField("component", "worker")

	nsqConf := nsq.NewConfig()
	nsqConf.MsgTimeout = 10 * time.Minute
	nsqConf.MaxInFlight = 1
	nsqConf.MaxAttempts = 2

	consumer, err := nsq.NewConsumer(conf.NSQ.JobTopic, "reactsense-worker", nsqConf)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create NSQ consumer: %w", err)
	}

	producer, err := nsq.NewProducer(conf.NSQ.NSQDAddr, nsq.NewConfig())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}

	w := &Worker{
		conf:     conf,
		ctx:      ctx,
		cancel:   cancel,
		consumer: consumer,
		producer: producer,
		logger:   logger,
	}

	pub := NewEventPublisher(producer, conf.NSQ.EventTopic)
	consumer.AddHandler(NewHandler(ctx, conf, pub))

	return w, nil
}

func (w *Worker) Start() error {
	w.logger.Info("Starting analysis worker...")

	err := w.consumer.ConnectToNSQDs(w.conf.NSQ.NSQDAddrs)
	if err != nil {
		return fmt.Errorf("failed to connect to NSQs: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		<-w.ctx.Done()
		w.consumer.Stop()
		w.producer.Stop()
	}()

	return nil
}

func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
}
