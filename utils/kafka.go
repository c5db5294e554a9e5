package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ticket9ja/ticket9ja-backend/config"
)

// ScanEventPublisher streams scan outcomes to Kafka. A nil publisher is
// valid and drops every message, so deployments without brokers need no
// special casing at call sites.
type ScanEventPublisher struct {
	writer *kafka.Writer
}

// NewScanEventPublisher returns nil when no brokers are configured.
func NewScanEventPublisher(cfg *config.Config) *ScanEventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("⚠️ Kafka not configured. Scan events will not be streamed.")
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaScanTopic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: 5 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	log.Printf("✅ Kafka scan stream ready (topic: %s)", cfg.KafkaScanTopic)
	return &ScanEventPublisher{writer: writer}
}

// Publish sends one scan event keyed by ticket identifier, so all scans
// of the same ticket land in the same partition in order.
func (p *ScanEventPublisher) Publish(ctx context.Context, key string, payload interface{}) error {
	if p == nil || p.writer == nil {
		return nil
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal scan event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *ScanEventPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
