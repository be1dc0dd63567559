/*
DESCRIPTION
  client.go provides the YouTube API operations needed for bulk uploading:
  channel lookup, channel search, resumable video insertion and thumbnail
  setting.

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

// Package youtube provides an authenticated YouTube client for uploading
// videos, setting thumbnails and searching the authenticated user's channel.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

// URLPrefix is prepended to a video ID to form its watch URL.
const URLPrefix = "https://www.youtube.com/watch?v="

// DefaultChunkSize is the chunk size used for resumable uploads.
const DefaultChunkSize = 5 * 1024 * 1024

// ErrNoVideoID is returned when an insert call completes without an ID.
var ErrNoVideoID = errors.New("no video id in insert response")

// VideoURL returns the watch URL for the video with the given ID. The ID is
// treated as opaque.
func VideoURL(id string) string { return URLPrefix + id }

// SearchItem is a single video found by a channel search.
type SearchItem struct {
	ID    string
	Title string
}

// Client is the capability the upload pipeline needs from YouTube. It is
// satisfied by Service, and by fakes in tests.
type Client interface {
	// MyChannel returns the ID of the authenticated user's channel, or an
	// empty string if the user has no channel.
	MyChannel(ctx context.Context) (string, error)

	// SearchVideos searches the channel for resources of type typ matching
	// query, returning at most max items.
	SearchVideos(ctx context.Context, channelID, query, typ string, max int64) ([]SearchItem, error)

	// InsertVideo uploads media with the given metadata in chunks of
	// chunkSize bytes. If progress is not nil it is called after each chunk
	// with the bytes sent so far and the total, which may be zero if unknown.
	InsertVideo(ctx context.Context, video *youtube.Video, media io.Reader, chunkSize int, progress func(sent, total int64)) (string, error)

	// SetThumbnail sets the thumbnail image for the video with the given ID.
	SetThumbnail(ctx context.Context, videoID string, img io.Reader) error
}

// Service implements Client using the YouTube Data API v3.
type Service struct {
	svc *youtube.Service
}

// NewService wraps an authorised youtube.Service. See GetService.
func NewService(svc *youtube.Service) *Service {
	return &Service{svc: svc}
}

// MyChannel implements Client.
func (s *Service) MyChannel(ctx context.Context) (string, error) {
	resp, err := s.svc.Channels.List([]string{"id"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("could not list channels: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Id, nil
}

// SearchVideos implements Client. Titles are unescaped, since the search
// endpoint returns them HTML-escaped.
func (s *Service) SearchVideos(ctx context.Context, channelID, query, typ string, max int64) ([]SearchItem, error) {
	resp, err := s.svc.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Q(query).
		Type(typ).
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("could not search channel %s: %w", channelID, err)
	}

	var items []SearchItem
	for _, r := range resp.Items {
		if r.Id == nil || r.Snippet == nil {
			continue
		}
		items = append(items, SearchItem{ID: r.Id.VideoId, Title: html.UnescapeString(r.Snippet.Title)})
	}
	return items, nil
}

// InsertVideo implements Client. A chunkSize of zero uploads the media in a
// single request.
func (s *Service) InsertVideo(ctx context.Context, video *youtube.Video, media io.Reader, chunkSize int, progress func(sent, total int64)) (string, error) {
	call := s.svc.Videos.Insert([]string{"snippet", "status"}, video).
		Media(media, googleapi.ChunkSize(chunkSize)).
		Context(ctx)
	if progress != nil {
		call = call.ProgressUpdater(googleapi.ProgressUpdater(progress))
	}

	vid, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("could not insert video: %w", err)
	}
	if vid.Id == "" {
		return "", ErrNoVideoID
	}
	return vid.Id, nil
}

// SetThumbnail implements Client.
func (s *Service) SetThumbnail(ctx context.Context, videoID string, img io.Reader) error {
	_, err := s.svc.Thumbnails.Set(videoID).Media(img).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("could not set thumbnail for video %s: %w", videoID, err)
	}
	return nil
}
