// Package events emits run-summary messages for downstream consumers.
package events

import (
	"encoding/json"
	"fmt"
	"log"

	"electionwatch/types"

	"github.com/IBM/sarama"
)

// ScanEvent is the message published after each completed run.
type ScanEvent struct {
	Type        string `json:"type"` // always "scan.completed"
	RunID       string `json:"run_id"`
	Findings    int    `json:"findings"`
	TicketID    int    `json:"ticket_id,omitempty"`
	TicketURL   string `json:"ticket_url,omitempty"`
	TicketState string `json:"ticket_state"`
	FinishedAt  string `json:"finished_at"`
}

// Producer publishes scan events to a Kafka topic. It is an optional,
// fire-and-forget integration: the run never fails because of it.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// ProducerConfig holds Kafka producer configuration.
type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// NewProducer creates a Kafka sync producer.
func NewProducer(config ProducerConfig) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 1
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{producer: producer, topic: config.Topic}, nil
}

// PublishRun emits a scan.completed event for the given run result.
func (p *Producer) PublishRun(result types.RunResult) error {
	event := ScanEvent{
		Type:        "scan.completed",
		RunID:       result.RunID,
		Findings:    len(result.Findings),
		TicketID:    result.TicketID,
		TicketURL:   result.TicketURL,
		TicketState: result.TicketState,
		FinishedAt:  result.FinishedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal scan event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(result.RunID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("failed to publish scan event: %w", err)
	}

	log.Printf("Published scan event (partition=%d, offset=%d)", partition, offset)
	return nil
}

// Close shuts down the underlying producer.
func (p *Producer) Close() error {
	return p.producer.Close()
}
