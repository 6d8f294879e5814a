package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Logger interface for logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// Options holds connection settings for Connect
type Options struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Client wraps redis.Client with the operations the event feed needs
type Client struct {
	redis  *redis.Client
	logger Logger
}

// NewClient creates a new Redis client wrapper
func NewClient(redisClient *redis.Client, logger Logger) *Client {
	return &Client{
		redis:  redisClient,
		logger: logger,
	}
}

// Connect dials Redis and verifies the connection with PING
func Connect(ctx context.Context, opts Options, logger Logger) (*Client, error) {
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	client := NewClient(rdb, logger)
	if err := client.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("redis connected", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (c *Client) Close() error {
	return c.redis.Close()
}

// PublishEvent publishes an event to a Redis channel
func (c *Client) PublishEvent(ctx context.Context, channel string, message string) error {
	err := c.redis.Publish(ctx, channel, message).Err()
	if err != nil {
		c.logger.Error("redis PUBLISH failed", "channel", channel, "error", err)
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}
	c.logger.Debug("redis PUBLISH", "channel", channel)
	return nil
}

// AddToStream adds a message to a Redis stream, trimming it to roughly maxLen
// entries when maxLen is positive
func (c *Client) AddToStream(ctx context.Context, stream string, maxLen int64, values map[string]interface{}) (string, error) {
	id, err := c.redis.XAdd(ctx, streamArgs(stream, maxLen, values)).Result()
	if err != nil {
		c.logger.Error("redis XADD failed", "stream", stream, "error", err)
		return "", fmt.Errorf("failed to add to stream %s: %w", stream, err)
	}
	c.logger.Debug("redis XADD", "stream", stream, "id", id)
	return id, nil
}

// Pipeline batches multiple Redis operations into one round trip
type Pipeline struct {
	pipe   redis.Pipeliner
	client *Client
}

// NewPipeline creates a new pipeline for batching operations
func (c *Client) NewPipeline() *Pipeline {
	return &Pipeline{
		pipe:   c.redis.Pipeline(),
		client: c,
	}
}

// AddToStream queues an XADD operation in the pipeline
func (p *Pipeline) AddToStream(ctx context.Context, stream string, maxLen int64, values map[string]interface{}) {
	p.pipe.XAdd(ctx, streamArgs(stream, maxLen, values))
}

// PublishEvent queues a PUBLISH operation in the pipeline
func (p *Pipeline) PublishEvent(ctx context.Context, channel string, message string) {
	p.pipe.Publish(ctx, channel, message)
}

// Exec executes all queued operations in the pipeline
func (p *Pipeline) Exec(ctx context.Context) error {
	_, err := p.pipe.Exec(ctx)
	if err != nil {
		p.client.logger.Error("redis pipeline exec failed", "error", err)
		return fmt.Errorf("failed to execute pipeline: %w", err)
	}
	p.client.logger.Debug("redis pipeline executed successfully")
	return nil
}

func streamArgs(stream string, maxLen int64, values map[string]interface{}) *redis.XAddArgs {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if maxLen > 0 {
		args.MaxLen = maxLen
		args.Approx = true
	}
	return args
}
