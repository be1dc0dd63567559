/*
DESCRIPTION
  smart_token_source.go provides an oauth2.TokenSource that notifies a
  callback whenever the underlying token is refreshed, so that refreshed
  tokens can be persisted.

LICENSE
  Copyright (C) 2025-2026 the Australian Ocean Lab (AusOcean)

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
	"context"
	"sync"

	"github.com/ausocean/utils/logging"
	"golang.org/x/oauth2"
)

// TokenNotifyFunc is a callback function signature for notifying when a token
// event happens.
type TokenNotifyFunc func(*oauth2.Token) error

// SmartTokenSource implements the TokenSource Interface, with an additional
// callback function which is called when the underlying token is refreshed.
// It is safe for concurrent use.
type SmartTokenSource struct {
	mu sync.Mutex

	// Token Source used to get a refresh token.
	src oauth2.TokenSource

	// Callback function which is called when the token is refreshed.
	notify TokenNotifyFunc

	// Most recent known token.
	curr *oauth2.Token

	log logging.Logger
}

// NewSmartTokenSource creates a SmartTokenSource with the passed oauth2 config
// and token. The passed refreshCallback function will be called whenever the
// token is refreshed. Callback errors are logged to l and otherwise ignored.
func NewSmartTokenSource(
	ctx context.Context,
	cfg *oauth2.Config,
	tok *oauth2.Token,
	refreshCallback TokenNotifyFunc,
	l logging.Logger,
) *SmartTokenSource {
	return newSmartTokenSource(cfg.TokenSource(ctx, tok), tok, refreshCallback, l)
}

func newSmartTokenSource(src oauth2.TokenSource, tok *oauth2.Token, notify TokenNotifyFunc, l logging.Logger) *SmartTokenSource {
	return &SmartTokenSource{src: src, notify: notify, curr: tok, log: l}
}

// Token returns a Token with a valid Access Token, calling the refresh
// callback if the token is refreshed.
func (s *SmartTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	// Check if the token was refreshed (or no previous access token was known).
	if s.curr != nil && s.curr.AccessToken == tok.AccessToken {
		return s.curr, nil
	}
	s.curr = tok

	if s.notify == nil {
		return s.curr, nil
	}

	// The refreshed token is still usable even if it could not be persisted.
	if err := s.notify(s.curr); err != nil && s.log != nil {
		s.log.Warning("could not persist refreshed token", "error", err)
	}
	return s.curr, nil
}
