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

package completion

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by Complete when the client has no API key.
// A missing key is reported per call rather than at startup so the webhook
// keeps answering with its fallback reply.
var ErrMissingAPIKey = errors.New("completion: api key not configured")

// StatusError reports a non-2xx response from the completion endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion: endpoint returned %d: %s", e.StatusCode, e.Body)
}
