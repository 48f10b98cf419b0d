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

// transcript-tail follows the SMS transcript topic and prints one line per
// exchange, for watching live conversations or spotting fallback spikes.
//
// Configuration is done via environment variables:
//
//	KAFKA_BROKERS           comma-separated broker list, e.g. "kafka:9092"
//	KAFKA_TRANSCRIPT_TOPIC  topic name (default "sms-transcripts")
//	KAFKA_GROUP_ID          optional consumer group; empty tails without committing
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jredh-dev/velquity/config"
	"github.com/jredh-dev/velquity/internal/sms"
)

func main() {
	cfg := config.Load()
	if len(cfg.Transcript.Brokers) == 0 {
		log.Fatalf("transcript-tail: required environment variable %q is not set", "KAFKA_BROKERS")
	}

	reader := sms.NewTranscriptReader(cfg.Transcript.Brokers, cfg.Transcript.Topic, os.Getenv("KAFKA_GROUP_ID"))
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("transcript-tail: error closing reader: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("transcript-tail: following %q on %v", cfg.Transcript.Topic, cfg.Transcript.Brokers)
	err := reader.Run(ctx, func(ex sms.Exchange) {
		marker := " "
		if ex.Fallback {
			marker = "!"
		}
		fmt.Printf("%s %s %s %q -> %q\n", ex.CreatedAt.Format("15:04:05"), marker, ex.From, ex.Body, ex.Reply)
	})
	if err != nil {
		log.Fatalf("transcript-tail: fatal error: %v", err)
	}
	log.Println("transcript-tail: shutdown complete")
}
