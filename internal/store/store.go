package store

import (
	"sort"
	"sync"
	"time"

	"mailsched/internal/model"
	"mailsched/internal/util"
)

// Store holds every schedule for the lifetime of the process. All
// access goes through its methods; each method is atomic with respect
// to every other, so readers never observe a half-applied write and
// two MarkSent calls racing on one id leave exactly one winner.
type Store struct {
	mu    sync.RWMutex
	items map[string]*model.Schedule
	order []string // ids in creation order
}

// Stats is the read-only aggregate served by GET /status.
type Stats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
}

func New() *Store {
	return &Store{items: make(map[string]*model.Schedule)}
}

// Create validates the request and inserts a new pending schedule.
// No side effect is performed when validation fails.
func (s *Store) Create(recipient, payload string, scheduledAt time.Time) (model.Schedule, error) {
	recipient = util.NormalizeAddress(recipient)

	switch {
	case recipient == "":
		return model.Schedule{}, &ValidationError{Kind: KindMissingField, Field: "recipient"}
	case payload == "":
		return model.Schedule{}, &ValidationError{Kind: KindMissingField, Field: "payload"}
	case scheduledAt.IsZero():
		return model.Schedule{}, &ValidationError{Kind: KindMissingField, Field: "scheduled_at"}
	case !util.ValidAddress(recipient):
		return model.Schedule{}, &ValidationError{Kind: KindInvalidRecipient}
	}

	now := time.Now()
	if !scheduledAt.After(now) {
		return model.Schedule{}, &ValidationError{Kind: KindPastDate}
	}

	item := &model.Schedule{
		ID:          util.NewID(),
		Recipient:   recipient,
		Payload:     payload,
		ScheduledAt: scheduledAt,
		CreatedAt:   now,
		Status:      model.StatusPending,
	}

	s.mu.Lock()
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	s.mu.Unlock()

	return *item, nil
}

// List returns schedules in creation order. A non-empty recipient
// filters by exact (normalized) match. The result is a snapshot copy;
// the lock is held only while copying.
func (s *Store) List(recipient string) []model.Schedule {
	recipient = util.NormalizeAddress(recipient)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Schedule, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if recipient != "" && item.Recipient != recipient {
			continue
		}
		out = append(out, clone(item))
	}
	return out
}

// Delete removes the schedule regardless of status.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// MarkSent commits the pending -> sent transition. It is an idempotent
// guard: a schedule that is already sent reports ErrAlreadySent and is
// left untouched, so a racing caller can tell "someone else delivered
// this" from a genuine fault.
func (s *Store) MarkSent(id string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	if item.Status == model.StatusSent {
		return ErrAlreadySent
	}

	t := sentAt
	item.Status = model.StatusSent
	item.SentAt = &t
	return nil
}

// DueUnsent returns pending schedules with ScheduledAt <= now, earliest
// due first (ties broken by id) so a tick processes multiple due items
// in a deterministic order.
func (s *Store) DueUnsent(now time.Time) []model.Schedule {
	s.mu.RLock()
	out := make([]model.Schedule, 0)
	for _, item := range s.items {
		if item.Status == model.StatusPending && !item.ScheduledAt.After(now) {
			out = append(out, clone(item))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out
}

// Stats counts items by status.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Total: len(s.items)}
	for _, item := range s.items {
		if item.Status == model.StatusSent {
			st.Sent++
		} else {
			st.Pending++
		}
	}
	return st
}

func clone(item *model.Schedule) model.Schedule {
	c := *item
	if item.SentAt != nil {
		t := *item.SentAt
		c.SentAt = &t
	}
	return c
}
