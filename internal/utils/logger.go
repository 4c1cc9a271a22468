package utils

import (
	"log"
	"strings"
)

// LogEvent prints one line per domain event: the module becomes the bracket
// tag (BOOKING, DEPARTURE, TICKET) and message carries a short key=value
// summary such as "ref=A3K9M2 seats=2". Never log full payloads or contact
// details here.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s %s", strings.ToUpper(module), action, req, message)
}
