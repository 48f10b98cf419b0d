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

// ContentType is what Twilio expects on a webhook response.
const ContentType = "text/xml"

// MessageResponse renders reply as a TwiML document that tells Twilio to
// answer the sender with a single message.  The reply is clamped to max
// characters before escaping.
//
//	<Response><Message>Hello! Want to book a visit?</Message></Response>
func MessageResponse(reply string, max int) string {
	return "<Response><Message>" + Escape(Clamp(reply, max)) + "</Message></Response>"
}
