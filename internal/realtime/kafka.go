package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// KafkaFeed carries change events through a Kafka topic so that every
// storefront instance sees mutations made through any other instance.
// Locally it delegates fan-out to an embedded Hub; Run consumes the topic
// and replays remote events into that hub.
type KafkaFeed struct {
	writer *kafka.Writer
	reader *kafka.Reader
	hub    *Hub
}

// NewKafkaFeed builds a feed on one topic. Every instance must see every
// change event, so each consumes under its own consumer group (groupPrefix
// plus a per-instance id) instead of sharing one group, where Kafka would
// hand each event to a single member. New groups start at the log tail;
// history is worthless because every event just means "re-fetch now".
func NewKafkaFeed(brokers []string, topic, groupPrefix string) *KafkaFeed {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     fmt.Sprintf("%s-%s", groupPrefix, uuid.New()),
		StartOffset: kafka.LastOffset,
		MaxBytes:    10e6, // 10MB
	})
	return &KafkaFeed{writer: writer, reader: reader, hub: NewHub()}
}

func (f *KafkaFeed) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.OwnerID), // per-owner ordering
		Value: payload,
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

func (f *KafkaFeed) Subscribe(table, ownerID string) (<-chan Event, func()) {
	return f.hub.Subscribe(table, ownerID)
}

// Run consumes the change topic until ctx is cancelled.
func (f *KafkaFeed) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		m, err := f.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("realtime: read change event: %v", err)
			}
			continue
		}
		var ev Event
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Printf("realtime: bad change event payload: %v", err)
			continue
		}
		_ = f.hub.Publish(ctx, ev)
	}
}

func (f *KafkaFeed) Close() error {
	if err := f.reader.Close(); err != nil {
		return fmt.Errorf("close change reader: %w", err)
	}
	return f.writer.Close()
}
