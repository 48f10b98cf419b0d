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

// Package prompt holds the default system instructions sent ahead of every
// conversation.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed system.txt
var defaultSystem string

// Default returns the built-in system prompt.
func Default() string {
	return strings.TrimSpace(defaultSystem)
}

// Load returns the contents of path, or the built-in prompt when path is
// empty.  An unreadable or blank file is an error.
func Load(path string) (string, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("system prompt %s is empty", path)
	}
	return text, nil
}
