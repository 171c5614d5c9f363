package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"travelbook/pkg/logger"

	"github.com/IBM/sarama"
)

// Handler processes one decoded booking event
type Handler interface {
	Handle(ctx context.Context, event *BookingEvent) error
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeout       time.Duration
	HeartbeatInterval    time.Duration
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "travelbook-booking-notifiers",
		Topics:               []string{"booking-events"},
		SessionTimeout:       30 * time.Second,
		HeartbeatInterval:    3 * time.Second,
		MaxProcessingTime:    time.Minute,
		OffsetOldest:         false,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	handler       Handler
	log           *logger.Logger
	wg            sync.WaitGroup
}

func NewKafkaConsumer(config *ConsumerConfig, handler Handler) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.HeartbeatInterval
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: group,
		config:        config,
		handler:       handler,
		log:           logger.GetDefault().WithComponent("booking-events-consumer"),
	}, nil
}

// Start launches numWorkers consume loops. They exit when ctx is cancelled.
func (c *KafkaConsumer) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}

	go func() {
		for err := range c.consumerGroup.Errors() {
			c.log.Error("consumer group error", slog.Any("error", err))
		}
	}()

	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}

	c.log.Info("booking event consumers started",
		slog.Int("workers", numWorkers),
		slog.Any("topics", c.config.Topics),
	)
}

func (c *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	h := &consumerGroupHandler{
		handler:    c.handler,
		workerID:   workerID,
		maxRetries: c.config.MaxRetries,
		backoff:    c.config.RetryBackoffDuration,
		log:        c.log,
	}

	for {
		if err := c.consumerGroup.Consume(ctx, c.config.Topics, h); err != nil {
			c.log.Error("consume failed", slog.Int("worker", workerID), slog.Any("error", err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Stop closes the group and waits for workers; ctx passed to Start must already be cancelled
func (c *KafkaConsumer) Stop() error {
	err := c.consumerGroup.Close()
	c.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerGroupHandler struct {
	handler    Handler
	workerID   int
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.log.Error("failed to process booking event",
					slog.Int("worker", h.workerID),
					slog.Int64("offset", message.Offset),
					slog.Any("error", err),
				)
			}
			// failed events are logged and skipped so one bad message cannot stall the partition
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	event, err := ParseBookingEvent(message.Value)
	if err != nil {
		return fmt.Errorf("failed to decode booking event: %w", err)
	}
	return handleWithRetry(ctx, h.handler, event, h.maxRetries, h.backoff)
}

// handleWithRetry retries with exponential backoff
func handleWithRetry(ctx context.Context, handler Handler, event *BookingEvent, maxRetries int, backoff time.Duration) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err = handler.Handle(ctx, event); err == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}

		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", maxRetries+1, err)
}
