// Package memory is an in-process alert sink for local development and tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"finboard/internal/alerts"
)

type Store struct {
	mu    sync.Mutex
	items []*alerts.AlertMessage
}

func New() *Store {
	return &Store{}
}

// Append stores the alert and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, msg *alerts.AlertMessage) (string, error) {
	if msg == nil {
		return "", errors.New("nil alert message")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, msg)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// All returns a copy of the stored alerts in append order.
func (s *Store) All() []*alerts.AlertMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*alerts.AlertMessage(nil), s.items...)
}
