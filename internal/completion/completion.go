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

// Package completion is a small client for OpenAI-compatible chat completion
// endpoints.
package completion

import "context"

// Message is one chat message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes a single chat completion call.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Usage is the token accounting returned by the endpoint, when present.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response holds the first choice's content, trimmed.  Content is empty when
// the endpoint returned no choices or an empty message.
type Response struct {
	Content string
	Usage   *Usage
}

// Completer is anything that can answer a chat completion request.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
