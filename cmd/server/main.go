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

// velquity answers SMS leads for a dealership.  Twilio POSTs each inbound
// text to /sms; the reply is generated by an OpenAI-compatible chat model
// with the sender's last few turns as context and returned as TwiML.
//
// Configuration is read from the environment:
//
//	PORT                    listen port (default 3000)
//	OPENAI_API_KEY          completion API key; unset means every reply is the fallback
//	OPENAI_BASE_URL         API root (default https://api.openai.com/v1)
//	OPENAI_MODEL            model name (default gpt-4o-mini)
//	COMPLETION_TIMEOUT      per-call budget, e.g. "10s"
//	SYSTEM_PROMPT_FILE      optional prompt override
//	KAFKA_BROKERS           optional; enables the transcript topic
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jredh-dev/velquity/config"
	"github.com/jredh-dev/velquity/internal/completion"
	"github.com/jredh-dev/velquity/internal/conversation"
	"github.com/jredh-dev/velquity/internal/handlers"
	"github.com/jredh-dev/velquity/internal/prompt"
	"github.com/jredh-dev/velquity/internal/reply"
	"github.com/jredh-dev/velquity/internal/server"
	"github.com/jredh-dev/velquity/internal/sms"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("velquity %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	cfg := config.Load()

	systemPrompt, err := prompt.Load(cfg.Reply.SystemPromptFile)
	if err != nil {
		log.Fatalf("Failed to load system prompt: %v", err)
	}

	if cfg.OpenAI.APIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; every reply will be the fallback")
	}

	store := conversation.NewMemoryStore(cfg.Reply.HistoryLimit)
	client := completion.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	orch := reply.New(reply.Config{
		SystemPrompt:  systemPrompt,
		Model:         cfg.OpenAI.Model,
		Temperature:   cfg.OpenAI.Temperature,
		MaxTokens:     cfg.OpenAI.MaxTokens,
		Timeout:       cfg.OpenAI.Timeout,
		AckReply:      cfg.Reply.AckReply,
		FallbackReply: cfg.Reply.FallbackReply,
	}, store, client)

	var publisher sms.Publisher = sms.NopPublisher{}
	if len(cfg.Transcript.Brokers) > 0 {
		publisher = sms.NewKafkaPublisher(cfg.Transcript.Brokers, cfg.Transcript.Topic)
		log.Printf("transcripts: publishing to %q via %v", cfg.Transcript.Topic, cfg.Transcript.Brokers)
	}

	h := handlers.NewSMSHandler(orch, publisher, cfg.Reply.MaxLength, cfg.OpenAI.Model)

	srv := server.New()
	srv.Router.Post("/sms", h.ServeHTTP)
	srv.Router.Post("/webhook", h.ServeHTTP)
	srv.OnStop(func() {
		h.Wait()
		if err := publisher.Close(); err != nil {
			log.Printf("transcripts: error closing publisher: %v", err)
		}
		log.Printf("conversations held at shutdown: %d", store.Len())
	})

	addr := ":" + cfg.Server.Port
	log.Printf("velquity %s (model=%s history=%d)", version, cfg.OpenAI.Model, store.Limit())
	log.Printf("  SMS webhook: http://localhost%s/sms", addr)
	log.Printf("  Health:      http://localhost%s/health", addr)

	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
