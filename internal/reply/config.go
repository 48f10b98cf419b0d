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

package reply

import (
	"time"

	"github.com/jredh-dev/velquity/internal/prompt"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.4
	DefaultMaxTokens   = 120
	DefaultTimeout     = 10 * time.Second

	// DefaultAckReply is sent when the model answers with nothing.
	DefaultAckReply = "Thanks for reaching out! We’ll be in touch shortly."

	// DefaultFallbackReply is sent when the completion call fails.
	DefaultFallbackReply = "Quick heads up — our assistant hit a snag. Would weekday or weekend work better for a quick call?"
)

// Config carries the prompt, model parameters, and canned replies used by an
// Orchestrator.
type Config struct {
	SystemPrompt  string
	Model         string
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
	AckReply      string
	FallbackReply string
}

// DefaultConfig returns the production settings with the built-in prompt.
func DefaultConfig() Config {
	return Config{
		SystemPrompt:  prompt.Default(),
		Model:         DefaultModel,
		Temperature:   DefaultTemperature,
		MaxTokens:     DefaultMaxTokens,
		Timeout:       DefaultTimeout,
		AckReply:      DefaultAckReply,
		FallbackReply: DefaultFallbackReply,
	}
}

// withDefaults fills zero fields from DefaultConfig.  Temperature is left
// alone since zero is a valid setting.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SystemPrompt == "" {
		c.SystemPrompt = d.SystemPrompt
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.AckReply == "" {
		c.AckReply = d.AckReply
	}
	if c.FallbackReply == "" {
		c.FallbackReply = d.FallbackReply
	}
	return c
}
