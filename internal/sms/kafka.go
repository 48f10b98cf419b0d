// velquity - SMS sales assistant webhook
// Copyright (C) 2025  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	kafka "github.com/segmentio/kafka-go"
)

// DefaultTranscriptTopic is where every webhook exchange is recorded.
const DefaultTranscriptTopic = "sms-transcripts"

// Publisher records exchanges somewhere outside the process.  The webhook
// never waits on or fails because of a publisher.
type Publisher interface {
	Publish(ctx context.Context, ex Exchange) error
	Close() error
}

// NopPublisher drops every exchange.  It is used when no brokers are
// configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Exchange) error { return nil }
func (NopPublisher) Close() error                            { return nil }

// KafkaPublisher writes JSON-encoded Exchanges to a Kafka topic, keyed by
// sender so one conversation stays on one partition and in order.
//
// The writer runs in async mode: WriteMessages returns as soon as the record
// is buffered and delivery errors are only logged.
type KafkaPublisher struct {
	writer messageWriter
}

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaPublisher creates a KafkaPublisher for the given brokers and topic.
// brokers is a list like []string{"kafka:9092"}.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTranscriptTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Printf("transcripts: failed to write %d message(s): %v", len(messages), err)
			}
		},
	}
	return &KafkaPublisher{writer: w}
}

// Publish encodes ex and hands it to the writer.
func (p *KafkaPublisher) Publish(ctx context.Context, ex Exchange) error {
	m, err := encodeExchange(ex)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, m); err != nil {
		return fmt.Errorf("write exchange %s: %w", ex.ID, err)
	}
	return nil
}

// encodeExchange builds the Kafka record for ex, keyed by sender.
func encodeExchange(ex Exchange) (kafka.Message, error) {
	value, err := json.Marshal(ex)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal exchange: %w", err)
	}
	return kafka.Message{Key: []byte(ex.From), Value: value}, nil
}

// Close flushes buffered records and releases the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
