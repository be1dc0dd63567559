/*
DESCRIPTION
  dialog.go provides a Gate whose questions are answered asynchronously by
  a dialog host, such as a terminal UI event loop.

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

package prompt

import (
	"context"
	"sync"
)

// Kind is the kind of question a Request asks.
type Kind int

const (
	KindYesNo Kind = iota
	KindText
)

type answer struct {
	yes       bool
	text      string
	cancelled bool
}

// Request is a single question for a dialog host. The host must eventually
// call exactly one of Confirm, Submit or Cancel; later calls are ignored.
type Request struct {
	Kind       Kind
	Msg        string
	AllowEmpty bool   // KindYesNo only.
	Default    string // KindText only.

	once  sync.Once
	reply chan answer
}

func newRequest(k Kind, msg string) *Request {
	return &Request{Kind: k, Msg: msg, reply: make(chan answer, 1)}
}

// Confirm answers a yes/no request.
func (r *Request) Confirm(yes bool) { r.send(answer{yes: yes}) }

// Submit answers a text request. An empty text selects the default.
func (r *Request) Submit(text string) { r.send(answer{text: text}) }

// Cancel answers the request as if the dialog was closed.
func (r *Request) Cancel() { r.send(answer{cancelled: true}) }

func (r *Request) send(a answer) {
	r.once.Do(func() { r.reply <- a })
}

// Requester hands a request to a dialog host. It must not block waiting for
// the answer.
type Requester func(*Request)

// Dialog is a Gate backed by a dialog host. Each question gets its own
// reply channel and at most one question is outstanding at a time.
type Dialog struct {
	mu   sync.Mutex
	send Requester
}

// NewDialog returns a Dialog that issues requests with send.
func NewDialog(send Requester) *Dialog {
	return &Dialog{send: send}
}

// YesNo implements Gate. A cancelled request is answered no.
func (d *Dialog) YesNo(ctx context.Context, msg string, allowEmpty bool) (bool, error) {
	req := newRequest(KindYesNo, msg)
	req.AllowEmpty = allowEmpty
	a, err := d.ask(ctx, req)
	if err != nil {
		return false, err
	}
	return a.yes && !a.cancelled, nil
}

// Text implements Gate. A cancelled request is answered with def.
func (d *Dialog) Text(ctx context.Context, msg, def string) (string, error) {
	req := newRequest(KindText, msg)
	req.Default = def
	a, err := d.ask(ctx, req)
	if err != nil {
		return "", err
	}
	if a.cancelled || a.text == "" {
		return def, nil
	}
	return a.text, nil
}

func (d *Dialog) ask(ctx context.Context, req *Request) (answer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return answer{}, err
	}
	d.send(req)

	select {
	case a := <-req.reply:
		return a, nil
	case <-ctx.Done():
		req.Cancel()
		return answer{}, ctx.Err()
	}
}
