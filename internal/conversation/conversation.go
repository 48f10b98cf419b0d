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

// Package conversation keeps the short rolling history for each SMS sender.
package conversation

// Role identifies who produced a Turn.
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)

// Turn is one message in a conversation.  Turns are values and are never
// modified after they are appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered history for one sender, oldest first.  The
// order is replayed as prompt context, so it matters.
type Conversation []Turn

// Append returns a new Conversation with turns added to the end.  The
// receiver is not modified.
func (c Conversation) Append(turns ...Turn) Conversation {
	out := make(Conversation, 0, len(c)+len(turns))
	out = append(out, c...)
	return append(out, turns...)
}

// Last returns the most recent n turns.  The result shares no memory with c.
func (c Conversation) Last(n int) Conversation {
	if n <= 0 {
		return Conversation{}
	}
	if len(c) > n {
		c = c[len(c)-n:]
	}
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}
