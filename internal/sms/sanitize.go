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

// Package sms turns assistant replies into TwiML documents and publishes
// exchange transcripts to Kafka.
package sms

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the longest reply we hand to the carrier.  Anything
// beyond it is cut and marked with an ellipsis.
const DefaultMaxLength = 300

const ellipsis = "…"

// Clamp collapses whitespace runs to a single space, trims the ends, and cuts
// the result to at most max characters.  A cut string keeps max-1 characters
// and ends with an ellipsis.
func Clamp(text string, max int) string {
	if text == "" || max < 1 {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max-1]) + ellipsis
}

// xmlEscaper is a single-pass replacer, so entities it emits are never
// rescanned.  The ampersand still leads the list.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five reserved XML characters with named entities.
func Escape(text string) string {
	return xmlEscaper.Replace(text)
}
