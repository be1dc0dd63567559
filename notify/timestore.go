/*
LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean)

  This is free software: you can redistribute it and/or modify it
  under the terms of the GNU General Public License as published by
  the Free Software Foundation, either version 3 of the License, or
  (at your option) any later version.

  It is distributed in the hope that it will be useful,
  but WITHOUT ANY WARRANTY; without even the implied warranty of
  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
  GNU General Public License for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see http://www.gnu.org/licenses/.
*/

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ausocean/ytbulk/gauth"
)

// TimeStore is an interface for notification persistence
type TimeStore interface {
	Sendable(context.Context, time.Duration, string) (bool, error) // Returns true if a message is sendable.
	Sent(context.Context, string) error                             // Records the time a message was sent.
}

// uriStore implements a TimeStore that keeps the send times as a JSON
// object in a local file or bucket object.
type uriStore struct {
	mu  sync.Mutex
	uri string
	now func() time.Time
}

// NewStore returns a TimeStore that keeps send times in the file or
// gs://<bucket>/<object> named by uri.
func NewStore(uri string) TimeStore {
	return &uriStore{uri: uri, now: time.Now}
}

// Sendable returns true either if (1) the specified period has elapsed
// since a message with the given key was last sent or (2) a message is
// being sent for the first time.
func (s *uriStore) Sendable(ctx context.Context, period time.Duration, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	times, err := s.load(ctx)
	if err != nil {
		return true, err
	}
	last, ok := times[key]
	if !ok {
		return true, nil // No record of sending this kind of message.
	}
	return s.now().Sub(last) >= period, nil
}

// Sent records the time that a message with the given key was sent.
func (s *uriStore) Sent(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	times, err := s.load(ctx)
	if err != nil {
		return err
	}
	times[key] = s.now()
	b, err := json.Marshal(times)
	if err != nil {
		return fmt.Errorf("could not marshal send times: %w", err)
	}
	return gauth.WriteURI(ctx, s.uri, b, 0644)
}

func (s *uriStore) load(ctx context.Context) (map[string]time.Time, error) {
	times := map[string]time.Time{}
	b, err := gauth.ReadURI(ctx, s.uri)
	switch {
	case errors.Is(err, gauth.ErrNotExist):
		return times, nil
	case err != nil:
		return times, err
	}
	if err := json.Unmarshal(b, &times); err != nil {
		return map[string]time.Time{}, fmt.Errorf("could not unmarshal send times: %w", err)
	}
	return times, nil
}
