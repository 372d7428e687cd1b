package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/diario/diario/internal/metrics"
)

// KafkaPublisher writes events to a Kafka topic through an async producer.
// Deliveries are counted when the broker acks them. Delivery errors are
// logged and counted, never returned to callers.
type KafkaPublisher struct {
	producer sarama.AsyncProducer
	topic    string
	logger   *slog.Logger
	metrics  metrics.Recorder
	done     chan struct{}
}

// NewKafkaPublisher connects to the brokers and starts the delivery drain.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger, recorder metrics.Recorder) (*KafkaPublisher, error) {
	producer, err := sarama.NewAsyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newKafkaPublisher(producer, topic, logger, recorder), nil
}

func producerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "diario"
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Errors = true
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 5 * time.Second
	return cfg
}

func newKafkaPublisher(producer sarama.AsyncProducer, topic string, logger *slog.Logger, recorder metrics.Recorder) *KafkaPublisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "events.kafka"),
		metrics:  recorder,
		done:     make(chan struct{}),
	}
	go p.drain()
	return p
}

// Publish enqueues the event. It blocks only while the producer's input
// buffer is full, and gives up when ctx is done.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.Key),
		Value:     sarama.ByteEncoder(value),
		Timestamp: event.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(event.Type)},
		},
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		p.metrics.IncEventPublished(metrics.EventStatusDropped)
		return fmt.Errorf("publish %s: %w", event.Type, ctx.Err())
	}
}

// Close flushes buffered messages and stops the producer.
func (p *KafkaPublisher) Close() error {
	err := p.producer.Close()
	<-p.done
	return err
}

// drain consumes delivery results until the producer closes both channels.
func (p *KafkaPublisher) drain() {
	defer close(p.done)
	successes, errs := p.producer.Successes(), p.producer.Errors()
	for successes != nil || errs != nil {
		select {
		case _, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			p.metrics.IncEventPublished(metrics.EventStatusSuccess)
		case perr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			p.metrics.IncEventPublished(metrics.EventStatusDropped)
			p.logger.Error("event delivery failed",
				slog.String("topic", perr.Msg.Topic),
				slog.String("error", perr.Err.Error()),
			)
		}
	}
}
