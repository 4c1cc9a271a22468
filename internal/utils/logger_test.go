package utils

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func captureLog(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestLogEventFormat(t *testing.T) {
	line := captureLog(t, func() {
		LogEvent("req-1", "booking", "reserve_ok", "ref=A3K9M2 seats=2")
	})
	for _, want := range []string{"[BOOKING]", "action=reserve_ok", "request_id=req-1", "ref=A3K9M2 seats=2"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
}

func TestLogEventEmptyRequestID(t *testing.T) {
	line := captureLog(t, func() {
		LogEvent("  ", "ticket", "generate_eticket", "ref=A3K9M2")
	})
	if !strings.Contains(line, "request_id=-") {
		t.Errorf("empty request id should render as -, got: %s", line)
	}
	if !strings.Contains(line, "[TICKET]") {
		t.Errorf("module tag missing: %s", line)
	}
}
