package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/lyzr/roster/common/logger"
)

// ErrClosed is returned when publishing to a closed queue
var ErrClosed = errors.New("queue closed")

const topicBuffer = 1000

// Queue interface for message passing
type Queue interface {
	Publish(ctx context.Context, topic string, key string, message []byte) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}

// MessageHandler processes messages
type MessageHandler func(ctx context.Context, key string, value []byte) error

// MemoryQueue is an in-process queue. Each topic is a buffered channel;
// when the buffer is full new messages are dropped with a warning so
// publishers never block on a slow subscriber.
type MemoryQueue struct {
	topics map[string]chan *Message
	closed bool
	mu     sync.RWMutex
	wg     sync.WaitGroup
	log    *logger.Logger
}

// Message represents a queue message
type Message struct {
	Topic string
	Key   string
	Value []byte
}

// NewMemoryQueue creates a new in-memory queue
func NewMemoryQueue(log *logger.Logger) *MemoryQueue {
	return &MemoryQueue{
		topics: make(map[string]chan *Message),
		log:    log,
	}
}

// topic returns the channel for name, creating it. Caller holds q.mu.
func (q *MemoryQueue) topic(name string) chan *Message {
	ch, exists := q.topics[name]
	if !exists {
		ch = make(chan *Message, topicBuffer)
		q.topics[name] = ch
	}
	return ch
}

// Publish publishes a message to a topic
func (q *MemoryQueue) Publish(ctx context.Context, topic string, key string, message []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	ch := q.topic(topic)

	msg := &Message{
		Topic: topic,
		Key:   key,
		Value: message,
	}

	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		q.log.Warn("queue full, dropping message", "topic", topic, "key", key)
		return nil
	}
}

// Subscribe starts a goroutine feeding topic messages to handler until the
// queue is closed. Cancelling ctx does not drop buffered messages: the
// subscriber keeps delivering until Close, and handlers then receive a
// context that is no longer cancelled. Handler errors are logged.
func (q *MemoryQueue) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	ch := q.topic(topic)
	q.wg.Add(1)
	q.mu.Unlock()

	q.log.Info("subscribing to topic", "topic", topic)

	go func() {
		defer q.wg.Done()
		for msg := range ch {
			handlerCtx := ctx
			if ctx.Err() != nil {
				handlerCtx = context.WithoutCancel(ctx)
			}
			if err := handler(handlerCtx, msg.Key, msg.Value); err != nil {
				q.log.Error("message handler error", "topic", topic, "key", msg.Key, "error", err)
			}
		}
		q.log.Info("topic closed", "topic", topic)
	}()

	return nil
}

// Close closes every topic and waits for subscribers to drain what was
// already buffered.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for topic, ch := range q.topics {
		close(ch)
		q.log.Info("closed topic", "topic", topic)
	}
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}
