/*
DESCRIPTION
  auth.go provides functionality to obtain a google authorisation token for
  use by the YouTube API to allow uploads to a user's channel. If a stored
  token does not exist, or can no longer be refreshed, the user is asked to
  authorise access in a browser and the resulting token is stored in a file
  or google storage bucket object.

LICENSE
  Copyright (C) 2021-2026 the Australian Ocean Lab (AusOcean)

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

package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/ausocean/utils/logging"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/ausocean/ytbulk/gauth"
)

// Authoriser obtains a new token for cfg, typically by asking the user to
// grant access in a browser.
type Authoriser func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)

// GetService returns an authorised Service using the client secrets JSON
// and the token stored at tokenURI, which is either a file path or a gs://
// object. If there is no usable stored token, authorise is used to obtain
// one. Refreshed tokens are written back to tokenURI.
func GetService(ctx context.Context, secrets []byte, tokenURI string, authorise Authoriser, l logging.Logger) (*Service, error) {
	cfg, err := google.ConfigFromJSON(secrets, youtube.YoutubeScope)
	if err != nil {
		return nil, fmt.Errorf("could not create config from client secrets: %w", err)
	}

	save := func(tok *oauth2.Token) error {
		l.Info("saving YouTube token", "uri", tokenURI)
		return saveToken(ctx, tok, tokenURI)
	}

	tok, err := loadToken(ctx, tokenURI)
	switch {
	case err == nil:
		l.Info("loaded existing YouTube token", "uri", tokenURI)
	case errors.Is(err, gauth.ErrNotExist):
		l.Info("no stored YouTube token", "uri", tokenURI)
	default:
		l.Warning("could not load YouTube token", "uri", tokenURI, "error", err)
	}

	var src oauth2.TokenSource
	if tok != nil {
		src = gauth.NewSmartTokenSource(ctx, cfg, tok, save, l)
		if _, err := src.Token(); err != nil {
			l.Warning("stored YouTube token is unusable, reauthorising", "error", err)
			tok = nil
		}
	}

	if tok == nil {
		if authorise == nil {
			return nil, errors.New("no usable YouTube token and no authoriser")
		}
		tok, err = authorise(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("could not authorise: %w", err)
		}
		if err := save(tok); err != nil {
			return nil, fmt.Errorf("could not save new token: %w", err)
		}
		src = gauth.NewSmartTokenSource(ctx, cfg, tok, save, l)
	}

	svc, err := youtube.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("could not create youtube service: %w", err)
	}
	return NewService(svc), nil
}

// LoopbackAuthoriser returns an Authoriser implementing the installed
// application flow. It listens on a loopback port for the redirect, calls
// show with the consent URL, and exchanges the returned code for a token.
func LoopbackAuthoriser(show func(url string)) Authoriser {
	return func(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return nil, fmt.Errorf("could not listen for redirect: %w", err)
		}

		c := *cfg
		c.RedirectURL = "http://" + ln.Addr().String() + "/"

		type result struct {
			code string
			err  error
		}
		results := make(chan result, 1)
		state := uuid.NewString()

		srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "unexpected state", http.StatusBadRequest)
				return
			}
			var res result
			switch {
			case q.Get("error") != "":
				res.err = fmt.Errorf("authorisation denied: %s", q.Get("error"))
				fmt.Fprintln(w, "Authorisation failed, you may close this window.")
			case q.Get("code") == "":
				res.err = errors.New("no code in redirect")
				http.Error(w, "missing code", http.StatusBadRequest)
			default:
				res.code = q.Get("code")
				fmt.Fprintln(w, "Authorisation complete, you may close this window.")
			}
			select {
			case results <- res:
			default:
			}
		})}
		go srv.Serve(ln)
		defer srv.Close()

		verifier := oauth2.GenerateVerifier()
		show(c.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier)))

		var res result
		select {
		case res = <-results:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if res.err != nil {
			return nil, res.err
		}

		tok, err := c.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
		if err != nil {
			return nil, fmt.Errorf("could not exchange code for token: %w", err)
		}
		return tok, nil
	}
}
