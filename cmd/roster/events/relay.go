package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lyzr/roster/cmd/roster/models"
	"github.com/lyzr/roster/common/logger"
	"github.com/lyzr/roster/common/queue"
	rediscommon "github.com/lyzr/roster/common/redis"
)

// Sink receives accepted person events from the relay
type Sink interface {
	Forward(ctx context.Context, event models.PersonEvent, raw []byte) error
}

// Relay drains the in-process person event topic into a Sink
type Relay struct {
	queue queue.Queue
	topic string
	sink  Sink
	log   *logger.Logger
}

// NewRelay creates a relay for topic
func NewRelay(q queue.Queue, topic string, sink Sink, log *logger.Logger) *Relay {
	return &Relay{
		queue: q,
		topic: topic,
		sink:  sink,
		log:   log,
	}
}

// Start subscribes to the topic. Delivery continues until the queue is
// closed, so events buffered at shutdown still reach the sink.
func (r *Relay) Start(ctx context.Context) error {
	if err := r.queue.Subscribe(ctx, r.topic, r.handle); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.topic, err)
	}
	r.log.Info("event relay started", "topic", r.topic)
	return nil
}

func (r *Relay) handle(ctx context.Context, key string, value []byte) error {
	var event models.PersonEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to decode person event %s: %w", key, err)
	}

	if err := r.sink.Forward(ctx, event, value); err != nil {
		return fmt.Errorf("failed to forward person event %s: %w", key, err)
	}
	return nil
}

// RedisSink publishes each event on a pub/sub channel and appends it to a
// capped stream in one round trip, so late consumers can replay history.
type RedisSink struct {
	client       *rediscommon.Client
	channel      string
	stream       string
	streamMaxLen int64
}

// NewRedisSink creates a sink. An empty stream disables the stream append.
func NewRedisSink(client *rediscommon.Client, channel, stream string, streamMaxLen int64) *RedisSink {
	return &RedisSink{
		client:       client,
		channel:      channel,
		stream:       stream,
		streamMaxLen: streamMaxLen,
	}
}

func (s *RedisSink) Forward(ctx context.Context, event models.PersonEvent, raw []byte) error {
	if s.stream == "" {
		return s.client.PublishEvent(ctx, s.channel, string(raw))
	}

	pipe := s.client.NewPipeline()
	pipe.PublishEvent(ctx, s.channel, string(raw))
	pipe.AddToStream(ctx, s.stream, s.streamMaxLen, map[string]interface{}{
		"version":      event.Version,
		"payload_type": string(event.Type),
		"person_id":    event.PersonID,
		"payload":      string(raw),
	})
	return pipe.Exec(ctx)
}

// LogSink writes events to the log when Redis is disabled
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a sink that only logs
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Forward(_ context.Context, event models.PersonEvent, _ []byte) error {
	s.log.WithPersonID(event.PersonID).Debug("person event",
		"api_version", event.Version,
		"payload_type", event.Type,
		"timestamp", event.Timestamp,
	)
	return nil
}
