/*
DESCRIPTION
  upload.go provides construction of the metadata sent with a YouTube
  video upload.

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

package youtube

import (
	"fmt"
	"sort"

	"google.golang.org/api/youtube/v3"
)

// Privacy statuses.
const (
	PrivacyPublic   = "public"
	PrivacyPrivate  = "private"
	PrivacyUnlisted = "unlisted"
)

// MusicCategoryID is the ID of the "Music" category.
const MusicCategoryID = "10"

// MaxTitleLength is the longest title YouTube accepts.
const MaxTitleLength = 100

// VideoUploadOption is a functional option type for configuring YouTube video uploads.
type VideoUploadOption func(*youtube.Video) error

// WithTitle sets the title of the video being uploaded.
// It returns an error if the title is empty or too long.
func WithTitle(title string) VideoUploadOption {
	return func(video *youtube.Video) error {
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}
		if n := len([]rune(title)); n > MaxTitleLength {
			return fmt.Errorf("title too long: %d characters", n)
		}
		video.Snippet.Title = title
		return nil
	}
}

// WithDescription sets the description of the video being uploaded. An empty
// description is permitted.
func WithDescription(description string) VideoUploadOption {
	return func(video *youtube.Video) error {
		video.Snippet.Description = description
		return nil
	}
}

// WithCategory sets the category of the video being uploaded.
// It accepts either a category ID or a category name, see CategoryID.
// It returns an error if the category ID/name is not found.
func WithCategory(category string) VideoUploadOption {
	return func(video *youtube.Video) error {
		id := CategoryID(category)
		if id == "" {
			return fmt.Errorf("invalid category ID or name: %s", category)
		}
		video.Snippet.CategoryId = id
		return nil
	}
}

// WithPrivacy sets the privacy status of the video being uploaded.
// It accepts "public", "unlisted", or "private" as valid privacy statuses.
func WithPrivacy(privacy string) VideoUploadOption {
	return func(video *youtube.Video) error {
		if !ValidPrivacy(privacy) {
			return fmt.Errorf("invalid privacy status: %s", privacy)
		}
		video.Status.PrivacyStatus = privacy
		return nil
	}
}

// WithTags sets the tags for the video being uploaded. Empty tags are
// dropped, since the API returns a 400 Bad Request response if a tag is an
// empty string.
func WithTags(tags []string) VideoUploadOption {
	return func(video *youtube.Video) error {
		var keep []string
		for _, t := range tags {
			if t != "" {
				keep = append(keep, t)
			}
		}
		video.Snippet.Tags = keep
		return nil
	}
}

// NewVideo returns the metadata for a video upload with the given options
// applied. The category defaults to Music and the privacy status to public.
func NewVideo(opts ...VideoUploadOption) (*youtube.Video, error) {
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{CategoryId: MusicCategoryID},
		Status:  &youtube.VideoStatus{PrivacyStatus: PrivacyPublic},
	}

	for _, opt := range opts {
		if err := opt(video); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if video.Snippet.Title == "" {
		return nil, fmt.Errorf("title cannot be empty")
	}
	return video, nil
}

var categories = map[string]string{
	"1":  "Film & Animation",
	"2":  "Autos & Vehicles",
	"10": "Music",
	"15": "Pets & Animals",
	"17": "Sports",
	"18": "Short Movies",
	"19": "Travel & Events",
	"20": "Gaming",
	"21": "Videoblogging",
	"22": "People & Blogs",
	"23": "Comedy",
	"24": "Entertainment",
	"25": "News & Politics",
	"26": "Howto & Style",
	"27": "Education",
	"28": "Science & Technology",
	"29": "Nonprofits & Activism",
	"30": "Movies",
	"31": "Anime/Animation",
	"32": "Action/Adventure",
	"33": "Classics",
	"34": "Comedy",
	"35": "Documentary",
	"36": "Drama",
	"37": "Family",
	"38": "Foreign",
	"39": "Horror",
	"40": "Sci-Fi/Fantasy",
	"41": "Thriller",
	"42": "Shorts",
	"43": "Shows",
	"44": "Trailers",
}

// CategoryID checks if the given category ID or name is valid, and returns
// its ID if so, or an empty string otherwise. Names are matched exactly.
func CategoryID(cat string) string {
	if _, ok := categories[cat]; ok {
		return cat
	}

	// Iterate in a fixed order so duplicate names resolve consistently.
	ids := make([]string, 0, len(categories))
	for id := range categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if categories[id] == cat {
			return id
		}
	}
	return ""
}

// ValidPrivacy reports whether privacy is a privacy status YouTube accepts.
func ValidPrivacy(privacy string) bool {
	switch privacy {
	case PrivacyPublic, PrivacyPrivate, PrivacyUnlisted:
		return true
	default:
		return false
	}
}
