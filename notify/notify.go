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

// Package notify emails reports of bulk upload runs using the MailJet API.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ausocean/utils/logging"
	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

const (
	defaultSender  = "ytbulk@ausocean.org"
	defaultSubject = "YouTube bulk upload"
)

// mailer delivers a single message.
type mailer func(publicKey, privateKey string, msg mailjet.InfoMessagesV31) error

// sendMailjet delivers msg using the MailJet API.
func sendMailjet(publicKey, privateKey string, msg mailjet.InfoMessagesV31) error {
	clt := mailjet.NewMailjetClient(publicKey, privateKey)
	_, err := clt.SendMailV31(&mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{msg}})
	return err
}

// Notifier represents a notifier that uses the MailJet API to send email.
type Notifier struct {
	mutex      sync.Mutex    // Lock access.
	sender     string        // Sender email address.
	recipients []string      // Recipient email addresses.
	subject    string        // Subject prefix.
	store      TimeStore     // Notification store (optional).
	period     time.Duration // Minimum time between messages of the same kind.
	filters    []string      // Message filters (optional).
	publicKey  string        // Public key for accessing MailJet API.
	privateKey string        // Private key for accessing MailJet API.
	log        logging.Logger
	send       mailer
}

// Init initializes a notifier with the supplied options. See
// WithSender, WithRecipient, WithFilter, WithStore and WithSecrets
// for a description of the various options. Secrets are required to
// send actual emails using the MailJet API, but can be omitted during
// testing. It is permissable to re-initalize a Notifier with
// different options, however missing options will revert to their
// defaults.
func (n *Notifier) Init(options ...Option) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	// Set default values.
	n.sender = defaultSender
	n.recipients = nil
	n.subject = defaultSubject
	n.store = nil
	n.period = 0
	n.filters = nil
	n.publicKey = ""
	n.privateKey = ""
	n.log = logging.New(logging.Info, io.Discard, true)
	n.send = sendMailjet

	// Apply options.
	for i, opt := range options {
		err := opt(n)
		if err != nil {
			return fmt.Errorf("could not apply option # %d, %w", i, err)
		}
	}

	return nil
}

// Enabled reports whether the notifier can deliver messages.
func (n *Notifier) Enabled() bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.publicKey != "" && n.privateKey != "" && len(n.recipients) > 0
}

// Send sends an email message of the given kind, depending on what options
// are present. With filters, all filters must match in order to send. With
// a store, the message is sent only if a message of the same kind was not
// sent recently.
func (n *Notifier) Send(ctx context.Context, kind, msg string) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	for _, f := range n.filters {
		if !strings.Contains(msg, f) {
			n.log.Info("filter applied, not sending message", "filter", f, "kind", kind)
			return nil
		}
	}

	if n.store != nil {
		sendable, err := n.store.Sendable(ctx, n.period, kind)
		if err != nil {
			n.log.Warning("could not check notification store", "error", err)
		}
		if !sendable {
			n.log.Info("too soon to send message", "kind", kind)
			return nil
		}
	}

	n.log.Info("sending message", "kind", kind, "recipients", strings.Join(n.recipients, ","))

	if n.publicKey != "" && n.privateKey != "" && len(n.recipients) > 0 {
		to := make(mailjet.RecipientsV31, 0, len(n.recipients))
		for _, r := range n.recipients {
			to = append(to, mailjet.RecipientV31{Email: r})
		}
		info := mailjet.InfoMessagesV31{
			From:     &mailjet.RecipientV31{Email: n.sender},
			To:       &to,
			Subject:  n.subject + ": " + kind,
			TextPart: msg,
		}
		err := n.send(n.publicKey, n.privateKey, info)
		if err != nil {
			return fmt.Errorf("could not send mail: %w", err)
		}
	}

	if n.store != nil {
		err := n.store.Sent(ctx, kind)
		if err != nil {
			n.log.Warning("could not record sent message", "error", err)
		}
	}

	return nil
}
