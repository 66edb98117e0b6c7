package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
)

// brokerClient is the part of sarama.Client the publisher owns.
type brokerClient interface {
	RefreshMetadata(topics ...string) error
	Close() error
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	client   brokerClient
	topic    string
	logger   *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.ClientID = "suxess-admin-console"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	client, err := sarama.NewClient(brokers, config)
	if err != nil {
		return nil, err
	}
	producer, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("kafka publisher initialized", "brokers", brokers, "topic", topic)

	return newKafkaPublisher(producer, client, topic, logger), nil
}

func newKafkaPublisher(producer sarama.SyncProducer, client brokerClient, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		client:   client,
		topic:    topic,
		logger:   logger,
	}
}

// Publish keys messages by event type so one type stays on one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.Type),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to kafka", "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event sent to kafka", "topic", p.topic, "partition", partition, "offset", offset, "type", ev.Type)
	return nil
}

// Ping refreshes cluster metadata, which needs at least one live broker.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	if err := p.client.RefreshMetadata(); err != nil {
		return fmt.Errorf("kafka brokers unreachable: %w", err)
	}
	return nil
}

// Close stops the producer first; a producer built from a client never
// closes that client itself.
func (p *KafkaPublisher) Close() error {
	return errors.Join(p.producer.Close(), p.client.Close())
}
