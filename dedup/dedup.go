/*
DESCRIPTION
  dedup.go provides detection of videos that already exist on the
  authenticated user's YouTube channel, by fuzzy matching titles.

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

// Package dedup detects re-uploads by searching a YouTube channel for
// videos with titles similar to a candidate title.
package dedup

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ausocean/utils/logging"
	"github.com/hbollon/go-edlib"

	"github.com/ausocean/ytbulk/prompt"
	"github.com/ausocean/ytbulk/youtube"
)

// Defaults.
const (
	DefaultThreshold  = 70
	DefaultMaxResults = 10
)

// Checker finds existing videos on the authenticated user's channel. Every
// call queries the channel afresh; results are never cached.
type Checker struct {
	Client youtube.Client

	// Gate confirms potential matches when Interactive is true. It may be
	// nil, in which case the checker is never interactive.
	Gate        prompt.Gate
	Interactive bool

	// Threshold and MaxResults default to DefaultThreshold and
	// DefaultMaxResults when zero.
	Threshold  int
	MaxResults int64

	Log logging.Logger
}

// FindExisting returns the ID of a video on the channel whose title is
// similar to title, or an empty string if there is none.
//
// Each search result scoring at least the threshold is a potential match.
// In interactive mode the user is asked about each one in turn and the
// first confirmed match is returned. Otherwise the first potential match is
// returned without looking further.
func (c *Checker) FindExisting(ctx context.Context, title string) (string, error) {
	threshold, limit := c.Threshold, c.MaxResults
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if limit == 0 {
		limit = DefaultMaxResults
	}
	interactive := c.Interactive && c.Gate != nil

	channelID, err := c.Client.MyChannel(ctx)
	if err != nil {
		return "", fmt.Errorf("could not get channel: %w", err)
	}
	if channelID == "" {
		c.Log.Warning("no channel for authenticated user, cannot check for duplicates")
		return "", nil
	}

	c.Log.Info("searching channel for title", "channel", channelID, "title", title)
	items, err := c.Client.SearchVideos(ctx, channelID, title, "video", limit)
	if err != nil {
		return "", fmt.Errorf("could not search channel: %w", err)
	}

	for _, item := range items {
		score := Ratio(strings.ToLower(title), strings.ToLower(item.Title))
		if score < threshold {
			c.Log.Debug("search result not similar", "id", item.ID, "title", item.Title, "similarity", score)
			continue
		}
		c.Log.Info("potential match found on channel", "id", item.ID, "title", item.Title, "similarity", score)

		if !interactive {
			return item.ID, nil
		}

		msg := fmt.Sprintf("Is '%s' the same video as existing video on channel: '%s'?", item.Title, title)
		same, err := c.Gate.YesNo(ctx, msg, false)
		if err != nil {
			return "", fmt.Errorf("could not confirm match: %w", err)
		}
		if same {
			return item.ID, nil
		}
	}

	c.Log.Info("no matching video found on channel", "title", title)
	return "", nil
}

// Ratio returns the similarity of a and b on a 0 to 100 scale, where 100
// means identical. It is the indel similarity 200*LCS/(len(a)+len(b)),
// counted in runes and rounded half to even.
func Ratio(a, b string) int {
	n := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if n == 0 {
		return 100
	}
	common := 200 * edlib.LCS(a, b)
	q, r := common/n, common%n
	if 2*r > n || (2*r == n && q%2 == 1) {
		q++
	}
	return q
}
