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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
	mailjet "github.com/mailjet/mailjet-apiv3-go"

	"github.com/ausocean/ytbulk/gauth"
)

const (
	projectID = "ytbulk"
	kind      = "test"
	message   = "This is a test."
	recipient = "testing@ausocean.org"
)

// testStore implements a dummy time store for testing purposes.
type testStore struct {
	Attempted int
	Delivered int
}

// TestStore tests the time store functionality.
// For this test, we supply a test store without any secrets.
func TestStore(t *testing.T) {
	ctx := context.Background()

	n := Notifier{}
	ts := testStore{}
	err := n.Init(WithStore(&ts, time.Hour), WithLogger((*logging.TestLogger)(t)))
	if err != nil {
		t.Errorf("Init failed with error: %v", err)
	}

	// Even numbered attempts should not be delivered.
	tests1 := []struct {
		attempted int
		delivered int
	}{
		{
			attempted: 1,
			delivered: 1,
		},
		{
			attempted: 2,
			delivered: 1,
		},
		{
			attempted: 3,
			delivered: 2,
		},
	}

	for i, test := range tests1 {
		err = n.Send(ctx, kind, message)
		if err != nil {
			t.Errorf("Send #%d failed with error: %v", i, err)
		}
		if ts.Attempted != test.attempted {
			t.Errorf("Expected attempted to be %d, got  %d", test.attempted, ts.Attempted)
		}
		if ts.Delivered != test.delivered {
			t.Errorf("Expected delivered to be %d, got %d", test.delivered, ts.Delivered)
		}
	}

	// Now try with filters.
	tests2 := []struct {
		filter    string
		attempted int
		delivered int
	}{
		{
			filter:    "test",
			attempted: 4,
			delivered: 2,
		},
		{
			filter:    "test",
			attempted: 5,
			delivered: 3,
		},
		{
			filter:    "Error:",
			attempted: 5,
			delivered: 3,
		},
	}
	for i, test := range tests2 {
		// Re-initialize with the filter.
		err = n.Init(WithFilter(test.filter), WithStore(&ts, time.Hour))
		if err != nil {
			t.Errorf("Init failed with error: %v", err)
		}
		err = n.Send(ctx, kind, message)
		if err != nil {
			t.Errorf("Send #%d failed with error: %v", i, err)
		}
		if ts.Attempted != test.attempted {
			t.Errorf("Expected attempted to be %d, got  %d", test.attempted, ts.Attempted)
		}
		if ts.Delivered != test.delivered {
			t.Errorf("Expected delivered to be %d, got %d", test.delivered, ts.Delivered)
		}
	}
}

// TestURIStore tests persistence of send times in a local file.
func TestURIStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sent.json")

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(path).(*uriStore)
	s.now = func() time.Time { return now }

	ok, err := s.Sendable(ctx, time.Hour, kind)
	if err != nil || !ok {
		t.Fatalf("Expected first message to be sendable, got %v, %v", ok, err)
	}
	if err := s.Sent(ctx, kind); err != nil {
		t.Fatalf("Sent failed with error: %v", err)
	}

	now = now.Add(30 * time.Minute)
	ok, err = s.Sendable(ctx, time.Hour, kind)
	if err != nil || ok {
		t.Errorf("Expected message within period to be unsendable, got %v, %v", ok, err)
	}
	ok, _ = s.Sendable(ctx, time.Hour, "other")
	if !ok {
		t.Errorf("Expected other kind to be sendable")
	}

	now = now.Add(time.Hour)
	ok, _ = s.Sendable(ctx, time.Hour, kind)
	if !ok {
		t.Errorf("Expected message after period to be sendable")
	}
}

// TestMailer tests the message passed to the mail API.
func TestMailer(t *testing.T) {
	var got []mailjet.InfoMessagesV31
	n := Notifier{}
	err := n.Init(
		WithSecrets(map[string]string{PublicKeySecret: "pub", PrivateKeySecret: "priv"}),
		WithRecipients([]string{recipient, "ops@ausocean.org"}),
		withMailer(func(pub, priv string, msg mailjet.InfoMessagesV31) error {
			if pub != "pub" || priv != "priv" {
				t.Errorf("Unexpected keys %s, %s", pub, priv)
			}
			got = append(got, msg)
			return nil
		}),
	)
	if err != nil {
		t.Fatalf("Init failed with error: %v", err)
	}
	if !n.Enabled() {
		t.Errorf("Expected notifier to be enabled")
	}

	err = n.Send(context.Background(), kind, message)
	if err != nil {
		t.Fatalf("Send failed with error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(got))
	}
	if got[0].Subject != defaultSubject+": "+kind {
		t.Errorf("Unexpected subject %q", got[0].Subject)
	}
	if len(*got[0].To) != 2 || got[0].TextPart != message {
		t.Errorf("Unexpected message %+v", got[0])
	}
}

// TestSecretsMissing tests that both keys are required.
func TestSecretsMissing(t *testing.T) {
	n := Notifier{}
	err := n.Init(WithSecrets(map[string]string{PublicKeySecret: "pub"}))
	if err == nil {
		t.Errorf("Expected error for missing private key")
	}
}

// TestSend tests sending an actual email.
// For this test, we supply secrets and a test recipient.
// It is recommended to run this only locally, as it sends actual emails.
func TestSend(t *testing.T) {
	if os.Getenv("YTBULK_SECRETS") == "" {
		t.Skip("YTBULK_SECRETS required for TestSend")
	}

	ctx := context.Background()
	n := Notifier{}

	secrets, err := gauth.GetSecrets(ctx, projectID, nil)
	if err != nil {
		t.Errorf("Could not get secrets for %s: %v", projectID, err)
	}

	err = n.Init(WithSecrets(secrets), WithRecipient(recipient))
	if err != nil {
		t.Errorf("Init failed with error: %v", err)
	}

	err = n.Send(ctx, kind, message)
	if err != nil {
		t.Errorf("Send failed with error: %v", err)
	}
}

// Sendable alternates between returning true and false.
func (ts *testStore) Sendable(ctx context.Context, period time.Duration, key string) (bool, error) {
	ts.Attempted++
	if ts.Attempted%2 == 0 {
		return false, nil
	} else {
		return true, nil
	}
}

// Sent just increments the sent counter.
func (ts *testStore) Sent(ctx context.Context, key string) error {
	ts.Delivered++
	return nil
}
