package kafka

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyChain-RiskRadar/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyChain-RiskRadar/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// BatchHandler processes one fetched batch.  A nil return commits the batch.
type BatchHandler func(ctx context.Context, msgs []*Message) error

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers         []string
	GroupID         string
	Topic           string
	AutoOffsetReset string
	BatchSize       int
	BatchWait       time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	// DeadLetter receives batches whose handler keeps failing.  Nil drops them
	// after logging.
	DeadLetter *Producer
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads one topic in batches and hands each batch to a BatchHandler.
// Batches are committed after the handler succeeds or the batch has been
// dead-lettered, giving at-least-once delivery.
type Consumer struct {
	reader  ReaderInterface
	config  ConsumerConfig
	logger  logging.Logger
	metrics *prometheus.AppMetrics
	sleep   func(ctx context.Context, d time.Duration) error

	running      atomic.Bool
	consumed     atomic.Int64
	processed    atomic.Int64
	deadLettered atomic.Int64
}

// NewConsumer creates a Consumer joined to cfg.GroupID.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger, metrics *prometheus.AppMetrics) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}
	startOffset := kafka.FirstOffset
	if cfg.AutoOffsetReset == "latest" {
		startOffset = kafka.LastOffset
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		StartOffset: startOffset,
	})
	return NewConsumerWithReader(reader, cfg, logger, metrics), nil
}

// NewConsumerWithReader builds a Consumer over an existing reader.
func NewConsumerWithReader(r ReaderInterface, cfg ConsumerConfig, logger logging.Logger, metrics *prometheus.AppMetrics) *Consumer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.BatchWait <= 0 {
		cfg.BatchWait = 2 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.MaxRetryBackoff == 0 {
		cfg.MaxRetryBackoff = 30 * time.Second
	}
	return &Consumer{
		reader:  r,
		config:  cfg,
		logger:  logger.Named("kafka-consumer"),
		metrics: metrics,
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run consumes until ctx is cancelled.  It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context, handler BatchHandler) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.logger.Info("Kafka consumer started",
		logging.String("topic", c.config.Topic),
		logging.String("group", c.config.GroupID),
		logging.Int("batch_size", c.config.BatchSize),
	)

	for {
		batch, err := c.fetchBatch(ctx)
		if len(batch) > 0 {
			if perr := c.process(ctx, batch, handler); perr != nil {
				return nil
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("FetchMessage error", logging.Err(err))
			if c.sleep(ctx, time.Second) != nil {
				return nil
			}
		}
	}
}

// fetchBatch blocks for the first message, then collects more until the
// batch is full or BatchWait has passed.
func (c *Consumer) fetchBatch(ctx context.Context) ([]kafka.Message, error) {
	first, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	batch := []kafka.Message{first}

	waitCtx, cancel := context.WithTimeout(ctx, c.config.BatchWait)
	defer cancel()
	for len(batch) < c.config.BatchSize {
		m, err := c.reader.FetchMessage(waitCtx)
		if err != nil {
			if stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return batch, nil
			}
			return batch, err
		}
		batch = append(batch, m)
	}
	return batch, nil
}

// process runs handler with retries, dead-letters on exhaustion and commits.
// It returns an error only when ctx ends before the batch is settled; the
// uncommitted batch is then redelivered.
func (c *Consumer) process(ctx context.Context, batch []kafka.Message, handler BatchHandler) error {
	c.consumed.Add(int64(len(batch)))
	msgs := make([]*Message, len(batch))
	for i, m := range batch {
		msgs[i] = fromKafkaMessage(m)
	}

	start := time.Now()
	err := handler(ctx, msgs)
	backoff := c.config.RetryBackoff
	for attempt := 0; err != nil && attempt < c.config.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("batch handler failed, retrying",
			logging.Int("attempt", attempt+1),
			logging.Duration("backoff", backoff),
			logging.Err(err),
		)
		if serr := c.sleep(ctx, backoff); serr != nil {
			return serr
		}
		err = handler(ctx, msgs)
		backoff *= 2
		if backoff > c.config.MaxRetryBackoff {
			backoff = c.config.MaxRetryBackoff
		}
	}

	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error("batch processing failed after retries",
			logging.String("topic", c.config.Topic),
			logging.Int64("first_offset", batch[0].Offset),
			logging.Int("size", len(batch)),
			logging.Err(err),
		)
		prometheus.RecordError(c.metrics, "kafka", string(errors.GetCode(err)))
		c.deadLetter(ctx, msgs, err)
	} else {
		c.processed.Add(int64(len(batch)))
		prometheus.RecordMessageProcessed(c.metrics, c.config.Topic, time.Since(start))
	}

	if cerr := c.reader.CommitMessages(ctx, batch...); cerr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Error("CommitMessages failed", logging.Err(cerr))
	}
	return nil
}

func (c *Consumer) deadLetter(ctx context.Context, msgs []*Message, cause error) {
	if c.config.DeadLetter == nil {
		return
	}
	out := make([]*ProducerMessage, len(msgs))
	for i, m := range msgs {
		headers := make(map[string]string, len(m.Headers)+2)
		for k, v := range m.Headers {
			headers[k] = v
		}
		headers["original_topic"] = m.Topic
		headers["error_message"] = cause.Error()
		out[i] = &ProducerMessage{
			Topic:   DeadLetterTopic(m.Topic),
			Key:     m.Key,
			Value:   m.Value,
			Headers: headers,
		}
	}
	if err := c.config.DeadLetter.PublishBatch(ctx, out); err != nil {
		c.logger.Error("Failed to send to dead letter queue", logging.Err(err))
		return
	}
	c.deadLettered.Add(int64(len(msgs)))
}

// Stats reports message counters since start.
func (c *Consumer) Stats() (consumed, processed, deadLettered int64) {
	return c.consumed.Load(), c.processed.Load(), c.deadLettered.Load()
}

// Close closes the reader.  Run must have returned first.
func (c *Consumer) Close() error {
	err := c.reader.Close()
	c.logger.Info("Kafka consumer closed", logging.Int64("consumed", c.consumed.Load()))
	return err
}

func fromKafkaMessage(m kafka.Message) *Message {
	msg := &Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Time,
		Headers:   make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// ValidateConsumerConfig validates configuration.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "GroupID required")
	}
	if cfg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if cfg.AutoOffsetReset != "" && cfg.AutoOffsetReset != "earliest" && cfg.AutoOffsetReset != "latest" {
		return errors.New(errors.ErrCodeValidation, "invalid AutoOffsetReset")
	}
	if cfg.MaxRetries < 0 {
		return errors.New(errors.ErrCodeValidation, "MaxRetries must be >= 0")
	}
	return nil
}

//Personal.AI order the ending
