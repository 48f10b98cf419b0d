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
	"time"

	"github.com/google/uuid"
)

// Exchange is the canonical schema for records on the transcript Kafka topic.
// One record is written per inbound webhook, whether or not the completion
// call succeeded.
//
// JSON schema:
//
//	{
//	  "id":         "01921b7e-8f4c-7c3a-9d55-6c2e4f0a1b2c",
//	  "from":       "+15551234567",
//	  "body":       "Hi",
//	  "reply":      "Hello! Want to book a visit?",
//	  "fallback":   false,
//	  "model":      "gpt-4o-mini",
//	  "created_at": "2025-10-19T15:04:05Z"
//	}
type Exchange struct {
	// ID is a time-ordered UUID so replays of a partition sort naturally.
	ID string `json:"id"`

	// From is the sender identifier Twilio supplied, usually E.164.
	From string `json:"from"`

	// Body is the inbound message text after trimming.
	Body string `json:"body"`

	// Reply is the assistant text before clamping and escaping.
	Reply string `json:"reply"`

	// Fallback is true when the completion call failed and Reply is the
	// canned callback offer.
	Fallback bool `json:"fallback"`

	Model            string `json:"model,omitempty"`
	PromptTokens     int    `json:"prompt_tokens,omitempty"`
	CompletionTokens int    `json:"completion_tokens,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewExchange stamps a new Exchange with an ID and the current UTC time.
func NewExchange(from, body, reply string, fallback bool) Exchange {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Exchange{
		ID:        id.String(),
		From:      from,
		Body:      body,
		Reply:     reply,
		Fallback:  fallback,
		CreatedAt: time.Now().UTC(),
	}
}
