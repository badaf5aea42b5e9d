package emotion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"reactsense/internal/dao"
	"reactsense/pkg/log"
)

const defaultReplyTimeout = 10 * time.Second

// streamReply is one raw message (or terminal read error) from the
// connection's reader goroutine.
type streamReply struct {
	data []byte
	err  error
}

// StreamClient holds one persistent websocket connection to the streaming
// expression-measurement service. Exactly one frame is in flight at a
// time: SendFrame is never pipelined ahead of its reply.
type StreamClient struct {
	url    string
	apiKey string
	dialer *websocket.Dialer
	conn   *websocket.Conn
	logger *logrus.Entry

	replies chan streamReply
	done    chan struct{}

	// replies still owed to frames whose wait already timed out; they are
	// discarded on arrival to keep later frames paired with their own reply
	stale int

	frameCount int
}

func NewStreamClient(url, apiKey string) *StreamClient {
	return &StreamClient{
		url:    url,
		apiKey: apiKey,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
		},
		logger: log.NewLogger().WithField("component", "stream-client"),
	}
}

// Connect establishes the websocket connection. A failed handshake is
// fatal for the job; there is no fallback to batch or mock.
func (c *StreamClient) Connect(ctx context.Context) error {
	header := http.Header{"X-Hume-Api-Key": []string{c.apiKey}}
	conn, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return fmt.Errorf("connect streaming api: %w", err)
	}
	c.conn = conn
	c.replies = make(chan streamReply, 16)
	c.done = make(chan struct{})
	go c.readLoop(conn)
	c.logger.Infof("connected to streaming api: %s", c.url)
	return nil
}

// readLoop pumps incoming messages into the reply channel so a slow reply
// only costs the waiting frame its timeout instead of wedging the
// connection for every frame after it.
func (c *StreamClient) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		select {
		case c.replies <- streamReply{data: data, err: err}:
		case <-c.done:
			return
		}
		if err != nil {
			return
		}
	}
}

type streamRequest struct {
	Data   string `json:"data"`
	Models struct {
		Face struct{} `json:"face"`
	} `json:"models"`
	RawText bool `json:"raw_text"`
}

// SendFrame submits one base64-encoded JPEG frame.
func (c *StreamClient) SendFrame(jpeg []byte) error {
	if c.conn == nil {
		return errors.New("not connected to streaming api")
	}
	req := streamRequest{Data: base64.StdEncoding.EncodeToString(jpeg)}
	if err := c.conn.WriteJSON(&req); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	c.frameCount++
	return nil
}

// ReceivePrediction waits for the reply to the last sent frame. Timeouts
// and service-reported errors fail soft: the result is nil and the caller
// drops the frame. A timed-out reply that arrives later is discarded, and
// the connection stays usable for the frames after it.
func (c *StreamClient) ReceivePrediction(timeout time.Duration) *streamResponse {
	if c.conn == nil {
		return nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case reply := <-c.replies:
			if reply.err != nil {
				c.logger.WithError(reply.err).Error("receive prediction")
				return nil
			}
			if c.stale > 0 {
				c.stale--
				continue
			}
			var resp streamResponse
			if err := json.Unmarshal(reply.data, &resp); err != nil {
				c.logger.WithError(err).Error("decode prediction")
				return nil
			}
			if resp.Error != "" {
				c.logger.Warnf("streaming api error: %s", resp.Error)
				return nil
			}
			return &resp
		case <-timer.C:
			c.stale++
			c.logger.Warnf("timeout waiting for prediction (>%s)", timeout)
			return nil
		}
	}
}

// AnalyzeFrame sends one frame and waits for its prediction. A nil record
// with nil error means the frame was dropped (reply timeout or service
// error) and the job should continue.
func (c *StreamClient) AnalyzeFrame(f Frame, timeout time.Duration) (*dao.FrameRecord, error) {
	if err := c.SendFrame(f.JPEG); err != nil {
		return nil, err
	}
	resp := c.ReceivePrediction(timeout)
	if resp == nil {
		return nil, nil
	}
	rec := parseStreamPrediction(resp, f.Num, f.Timestamp)
	return &rec, nil
}

// Close releases the connection. Safe to call more than once.
func (c *StreamClient) Close() {
	if c.conn == nil {
		return
	}
	close(c.done)
	if err := c.conn.Close(); err != nil {
		c.logger.WithError(err).Warn("close streaming connection")
	} else {
		c.logger.Infof("closed streaming connection, processed %d frames", c.frameCount)
	}
	c.conn = nil
}

// StreamingStrategy drives the sampled frames through one streaming
// connection, one frame at a time, fanning each result out on the
// realtime frame channel as it arrives.
type StreamingStrategy struct {
	client       *StreamClient
	replyTimeout time.Duration
}

func NewStreamingStrategy(url, apiKey string) *StreamingStrategy {
	return &StreamingStrategy{
		client:       NewStreamClient(url, apiKey),
		replyTimeout: defaultReplyTimeout,
	}
}

func (s *StreamingStrategy) Name() string { return "streaming" }

func (s *StreamingStrategy) Analyze(ctx context.Context, src FrameSource, rep *Reporter) ([]dao.FrameRecord, error) {
	if err := s.client.Connect(ctx); err != nil {
		return nil, err
	}
	// The connection is the job's only exclusively-owned resource; release
	// it on every exit path.
	defer s.client.Close()

	info := src.Info()
	total := info.SampleCount
	if total < 1 {
		total = 1
	}
	span := rep.Span(20, 90)

	var records []dao.FrameRecord
	sampleIdx := 0
	err := src.ForEach(ctx, func(f Frame) error {
		rec, err := s.client.AnalyzeFrame(f, s.replyTimeout)
		if err != nil {
			return err
		}
		sampleIdx++
		if rec == nil {
			// dropped frame: not recorded, not retried
			return nil
		}
		records = append(records, *rec)
		rep.Frame(rec)
		span(float64(sampleIdx)/float64(total), "Analyzing emotions (streaming)...")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
