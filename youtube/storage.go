/*
DESCRIPTION
  storage.go provides storage of authorisation tokens in files or google
  storage bucket objects.

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
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/ausocean/ytbulk/gauth"
)

// loadToken reads an oauth2.Token from the file or bucket object named by
// uri. A missing token yields an error wrapping gauth.ErrNotExist.
func loadToken(ctx context.Context, uri string) (*oauth2.Token, error) {
	b, err := gauth.ReadURI(ctx, uri)
	if err != nil {
		return nil, err
	}

	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("could not decode token from %s: %w", uri, err)
	}
	return &tok, nil
}

// saveToken writes tok to the file or bucket object named by uri. Files are
// only readable by the owner.
func saveToken(ctx context.Context, tok *oauth2.Token, uri string) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("could not encode token: %w", err)
	}
	return gauth.WriteURI(ctx, uri, b, 0600)
}
