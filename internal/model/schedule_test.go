package model

import (
	"testing"
	"time"
)

func TestDispatchKeyDeterministic(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := Schedule{ID: "01A", Recipient: "a@x.com", Payload: "hi", ScheduledAt: at}
	b := Schedule{ID: "01B", Recipient: "a@x.com", Payload: "hi", ScheduledAt: at}

	if a.DispatchKey() != b.DispatchKey() {
		t.Error("distinct ids with same (recipient, scheduledAt, payload) must share a dispatch key")
	}
	if a.DispatchKey() != DispatchKey("a@x.com", at, "hi") {
		t.Error("DispatchKey must be recomputable from the raw fields")
	}
}

func TestDispatchKeySensitivity(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	base := DispatchKey("a@x.com", at, "hi")

	tests := []struct {
		name string
		key  string
	}{
		{name: "recipient", key: DispatchKey("b@x.com", at, "hi")},
		{name: "payload", key: DispatchKey("a@x.com", at, "hi!")},
		{name: "time", key: DispatchKey("a@x.com", at.Add(time.Nanosecond), "hi")},
		// separator abuse: field boundaries must not collapse
		{name: "boundary", key: DispatchKey("a@x.com|", at, "hi")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == base {
				t.Errorf("changing %s did not change the dispatch key", tt.name)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusPending.Valid() || !StatusSent.Valid() {
		t.Error("pending/sent must be valid")
	}
	if Status("queued").Valid() {
		t.Error("unknown status must be invalid")
	}
}
