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

package gauth

import (
	"errors"
	"testing"

	"github.com/ausocean/utils/logging"
	"golang.org/x/oauth2"
)

// stubSource returns its tokens in order, repeating the last.
type stubSource struct {
	toks []*oauth2.Token
	i    int
}

func (s *stubSource) Token() (*oauth2.Token, error) {
	tok := s.toks[s.i]
	if s.i < len(s.toks)-1 {
		s.i++
	}
	return tok, nil
}

func TestSmartTokenSourceNotifiesOnRefresh(t *testing.T) {
	first := &oauth2.Token{AccessToken: "a"}
	src := &stubSource{toks: []*oauth2.Token{first, first, {AccessToken: "b"}}}

	var notified []string
	s := newSmartTokenSource(src, first, func(tok *oauth2.Token) error {
		notified = append(notified, tok.AccessToken)
		return nil
	}, (*logging.TestLogger)(t))

	for i := 0; i < 3; i++ {
		if _, err := s.Token(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(notified) != 1 || notified[0] != "b" {
		t.Errorf("expected a single notification for token b, got %v", notified)
	}
}

func TestSmartTokenSourceNotifyErrorIgnored(t *testing.T) {
	src := &stubSource{toks: []*oauth2.Token{{AccessToken: "new"}}}
	s := newSmartTokenSource(src, nil, func(*oauth2.Token) error {
		return errors.New("disk full")
	}, (*logging.TestLogger)(t))

	tok, err := s.Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "new" {
		t.Errorf("got access token %q, want new", tok.AccessToken)
	}
}
