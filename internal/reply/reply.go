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

// Package reply turns one inbound SMS into one assistant reply while keeping
// each sender's short conversation history.
package reply

import (
	"context"
	"log"

	"github.com/jredh-dev/velquity/internal/completion"
	"github.com/jredh-dev/velquity/internal/conversation"
)

// Result is the outcome of a single Reply call.
type Result struct {
	// Text is the reply before clamping and escaping.
	Text string

	// Fallback is true when the completion call failed and Text is the
	// configured fallback.  History was not updated in that case.
	Fallback bool

	// Usage is the endpoint's token accounting, if it sent any.
	Usage *completion.Usage
}

// Orchestrator builds prompts from stored history, calls the completion
// service, and writes the new turns back.
type Orchestrator struct {
	cfg       Config
	store     conversation.Store
	locks     *conversation.Locks
	completer completion.Completer
}

// New creates an Orchestrator.  Zero fields in cfg take their defaults.
func New(cfg Config, store conversation.Store, completer completion.Completer) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg.withDefaults(),
		store:     store,
		locks:     conversation.NewLocks(),
		completer: completer,
	}
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Reply answers text from senderID.  It never fails: completion errors and
// timeouts are logged and answered with the fallback reply, leaving the
// sender's history untouched.
//
// Requests for the same sender are handled one at a time so a slow reply
// cannot overwrite history written by a newer one.  A request whose ctx ends
// while it waits for its turn falls back the same way.
func (o *Orchestrator) Reply(ctx context.Context, senderID, text string) Result {
	unlock, err := o.locks.LockContext(ctx, senderID)
	if err != nil {
		log.Printf("reply: gave up waiting for %s: %v", senderID, err)
		return Result{Text: o.cfg.FallbackReply, Fallback: true}
	}
	defer unlock()

	history := o.store.Get(senderID)
	userTurn := conversation.Turn{Role: conversation.User, Content: text}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	resp, err := o.completer.Complete(callCtx, completion.Request{
		Model:       o.cfg.Model,
		Messages:    o.buildMessages(history, userTurn),
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	})
	if err != nil {
		log.Printf("reply: completion failed for %s: %v", senderID, err)
		return Result{Text: o.cfg.FallbackReply, Fallback: true}
	}

	if resp.Usage != nil {
		log.Printf("reply: usage from=%s prompt=%d completion=%d total=%d",
			senderID, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	}

	answer := resp.Content
	if answer == "" {
		answer = o.cfg.AckReply
	}

	o.store.Set(senderID, history.Append(
		userTurn,
		conversation.Turn{Role: conversation.Assistant, Content: answer},
	))

	return Result{Text: answer, Usage: resp.Usage}
}

// buildMessages lays out the prompt: system instructions, then stored
// history in order, then the new user turn.
func (o *Orchestrator) buildMessages(history conversation.Conversation, user conversation.Turn) []completion.Message {
	msgs := make([]completion.Message, 0, len(history)+2)
	msgs = append(msgs, completion.Message{Role: string(conversation.System), Content: o.cfg.SystemPrompt})
	for _, t := range history {
		msgs = append(msgs, completion.Message{Role: string(t.Role), Content: t.Content})
	}
	return append(msgs, completion.Message{Role: string(user.Role), Content: user.Content})
}
