package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusSent
}

// Schedule is a single deferred message held in the in-memory store.
// Fields are immutable after creation except Status/SentAt, which move
// pending -> sent exactly once.
type Schedule struct {
	ID          string     `json:"id"`
	Recipient   string     `json:"recipient"`
	Payload     string     `json:"payload"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	Status      Status     `json:"status"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
}

// DispatchKey is a deterministic fingerprint over (recipient,
// scheduledAt, payload). It is recomputable without store bookkeeping,
// so two records carrying the same logical message share one key even
// though their IDs differ.
func (s Schedule) DispatchKey() string {
	return DispatchKey(s.Recipient, s.ScheduledAt, s.Payload)
}

func DispatchKey(recipient string, scheduledAt time.Time, payload string) string {
	h := sha256.New()
	h.Write([]byte(recipient))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(scheduledAt.UnixNano(), 10)))
	h.Write([]byte{'|'})
	h.Write([]byte(payload))

	return hex.EncodeToString(h.Sum(nil))
}
