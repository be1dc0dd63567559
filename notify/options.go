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
	"errors"
	"time"

	"github.com/ausocean/utils/logging"
)

// Secret keys read by WithSecrets.
const (
	PublicKeySecret  = "mailjetPublicKey"
	PrivateKeySecret = "mailjetPrivateKey"
)

// Option is a functional option supplied to Init.
type Option func(*Notifier) error

// WithSender sets the sender email address.
func WithSender(sender string) Option {
	return func(n *Notifier) error {
		n.sender = sender
		return nil
	}
}

// WithRecipient sets a single recipient email address.
func WithRecipient(recipient string) Option {
	return func(n *Notifier) error {
		n.recipients = []string{recipient}
		return nil
	}
}

// WithRecipients sets multiple recipient email addresses.
func WithRecipients(recipients []string) Option {
	return func(n *Notifier) error {
		n.recipients = recipients
		return nil
	}
}

// WithSubject sets the subject prefix. The message kind is appended.
func WithSubject(subject string) Option {
	return func(n *Notifier) error {
		n.subject = subject
		return nil
	}
}

// WithFilter applies a filter string. If multiple WithFilter options
// are applied, they form a compound conjunctive filter.
// Specifiying an empty filter string clears the filter.
func WithFilter(filter string) Option {
	return func(n *Notifier) error {
		if filter == "" {
			n.filters = nil
			return nil
		}
		n.filters = append(n.filters, filter)
		return nil
	}
}

// WithStore applies a TimeStore for notification persistence, and the
// minimum period between messages of the same kind. See TimeStore.
func WithStore(store TimeStore, period time.Duration) Option {
	return func(n *Notifier) error {
		n.store = store
		n.period = period
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(n *Notifier) error {
		n.log = l
		return nil
	}
}

// WithSecrets applies the secrets necessary for sending email,
// notably the public and private mail API keys. This is always
// required, unless testing.
func WithSecrets(secrets map[string]string) Option {
	return func(n *Notifier) error {
		var ok bool
		n.publicKey, ok = secrets[PublicKeySecret]
		if !ok {
			return errors.New(PublicKeySecret + " secret not found")
		}
		n.privateKey, ok = secrets[PrivateKeySecret]
		if !ok {
			return errors.New(PrivateKeySecret + " secret not found")
		}
		return nil
	}
}

// withMailer replaces the MailJet API, for testing.
func withMailer(m mailer) Option {
	return func(n *Notifier) error {
		n.send = m
		return nil
	}
}
