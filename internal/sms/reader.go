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

// TranscriptReader consumes Exchanges from the transcript topic.  Offsets are
// committed after the handler returns, so a crash replays at most the record
// in progress.
type TranscriptReader struct {
	reader  messageFetcher
	groupID string
}

// messageFetcher is the part of *kafka.Reader the transcript reader uses.
type messageFetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewTranscriptReader joins groupID on topic.  An empty groupID reads the
// partition-0 stream from the newest offset without committing.
func NewTranscriptReader(brokers []string, topic, groupID string) *TranscriptReader {
	if topic == "" {
		topic = DefaultTranscriptTopic
	}
	return &TranscriptReader{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			Topic:          topic,
			GroupID:        groupID,
			MinBytes:       1,
			MaxBytes:       1 << 20, // 1 MiB
			CommitInterval: 0,       // explicit commits only
			StartOffset:    kafka.LastOffset,
		}),
		groupID: groupID,
	}
}

// Run blocks, passing each decoded Exchange to fn until ctx is cancelled.
// Records that do not decode are logged and skipped.
func (r *TranscriptReader) Run(ctx context.Context, fn func(Exchange)) error {
	for {
		m, err := r.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch: %w", err)
		}

		ex, err := DecodeExchange(m.Value)
		if err != nil {
			log.Printf("transcripts: skipping offset %d: %v", m.Offset, err)
		} else {
			fn(ex)
		}

		if r.groupID == "" {
			continue
		}
		if err := r.reader.CommitMessages(ctx, m); err != nil {
			log.Printf("transcripts: commit failed (message may be redelivered): %v", err)
		}
	}
}

// Close releases the reader.
func (r *TranscriptReader) Close() error {
	return r.reader.Close()
}

// DecodeExchange parses one transcript record.
func DecodeExchange(b []byte) (Exchange, error) {
	var ex Exchange
	if err := json.Unmarshal(b, &ex); err != nil {
		return Exchange{}, fmt.Errorf("unmarshal exchange: %w", err)
	}
	if ex.ID == "" {
		return Exchange{}, fmt.Errorf("exchange has no id")
	}
	return ex, nil
}
