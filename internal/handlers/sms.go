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

package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jredh-dev/velquity/internal/reply"
	"github.com/jredh-dev/velquity/internal/sms"
)

// unknownSender is used when Twilio omits From.
const unknownSender = "unknown"

// publishTimeout bounds a single transcript write.  Publishing runs after the
// reply has been written.
const publishTimeout = 5 * time.Second

// Replier produces the assistant's answer for one inbound message.
type Replier interface {
	Reply(ctx context.Context, senderID, text string) reply.Result
}

// SMSHandler answers Twilio webhooks with TwiML.
type SMSHandler struct {
	replier   Replier
	publisher sms.Publisher
	maxLength int
	model     string

	pending sync.WaitGroup
}

// NewSMSHandler creates an SMSHandler.  A nil publisher disables transcripts;
// a non-positive maxLength selects sms.DefaultMaxLength.  model is recorded
// on transcripts only.
func NewSMSHandler(r Replier, p sms.Publisher, maxLength int, model string) *SMSHandler {
	if p == nil {
		p = sms.NopPublisher{}
	}
	if maxLength <= 0 {
		maxLength = sms.DefaultMaxLength
	}
	return &SMSHandler{
		replier:   r,
		publisher: p,
		maxLength: maxLength,
		model:     model,
	}
}

// ServeHTTP handles POST /sms.  Twilio expects a well-formed TwiML document
// no matter what happens here, so every path ends in a 200 with a message.
func (h *SMSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Twilio sends the webhook as form data.  A body we cannot parse is
	// treated like one with no fields.
	if err := r.ParseForm(); err != nil {
		log.Printf("sms: failed to parse form: %v", err)
	}

	from := r.FormValue("From")
	if from == "" {
		from = unknownSender
	}
	body := strings.TrimSpace(r.FormValue("Body"))

	log.Printf("sms: received from=%s body=%q", from, body)

	res := h.replier.Reply(r.Context(), from, body)
	if res.Fallback {
		log.Printf("sms: fallback reply to %s", from)
	} else {
		log.Printf("sms: reply to %s: %q", from, res.Text)
	}

	w.Header().Set("Content-Type", sms.ContentType)
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, sms.MessageResponse(res.Text, h.maxLength))

	ctx := context.WithoutCancel(r.Context())
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		h.publish(ctx, from, body, res)
	}()
}

// Wait blocks until every in-flight transcript publish has finished.
func (h *SMSHandler) Wait() {
	h.pending.Wait()
}

func (h *SMSHandler) publish(ctx context.Context, from, body string, res reply.Result) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	ex := sms.NewExchange(from, body, res.Text, res.Fallback)
	ex.Model = h.model
	if res.Usage != nil {
		ex.PromptTokens = res.Usage.PromptTokens
		ex.CompletionTokens = res.Usage.CompletionTokens
	}
	if err := h.publisher.Publish(ctx, ex); err != nil {
		log.Printf("sms: transcript publish failed for id=%s: %v", ex.ID, err)
	}
}
