/*
DESCRIPTION
  uploader.go provides the uploading of a single prepared job to YouTube,
  or its simulation in a dry run.

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

package bulk

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/ytbulk/youtube"
)

// DryRunID is returned in place of a video ID by a dry run. Real IDs are
// 11 characters long, so it cannot collide with one.
const DryRunID = "dry-run-video-id"

// previewLength is how much of a description a dry run logs.
const previewLength = 50

// Uploader uploads jobs using Client.
type Uploader struct {
	Client   youtube.Client
	Category string
	Keywords []string

	// ChunkSize is the resumable upload chunk size. Zero selects
	// youtube.DefaultChunkSize.
	ChunkSize int

	// CallTimeout bounds each remote call. Zero means no bound.
	CallTimeout time.Duration

	Log logging.Logger
}

// Upload uploads the video and thumbnail of job, returning the new video's
// ID. In a dry run nothing is uploaded and DryRunID is returned.
//
// If progress is not nil it is called with the fraction of the video sent
// after each chunk, and with zero once the upload is complete.
func (u *Uploader) Upload(ctx context.Context, job *Job, dryRun bool, progress func(float64)) (string, error) {
	u.Log.Info("uploading video", "file", job.SourcePath, "title", job.Title)
	if dryRun {
		u.Log.Info("dry run: would upload video",
			"file", job.SourcePath,
			"title", job.Title,
			"description", preview(job.Description),
			"thumbnail", job.ThumbnailPath,
			"privacy", job.Privacy,
		)
		return DryRunID, nil
	}

	video, err := youtube.NewVideo(
		youtube.WithTitle(job.Title),
		youtube.WithDescription(job.Description),
		youtube.WithTags(u.Keywords),
		youtube.WithCategory(u.Category),
		youtube.WithPrivacy(job.Privacy),
	)
	if err != nil {
		return "", fmt.Errorf("could not create video metadata: %w", err)
	}

	f, err := os.Open(job.SourcePath)
	if err != nil {
		return "", fmt.Errorf("could not open video file: %w", err)
	}
	defer f.Close()

	var size int64
	if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}

	var update func(sent, total int64)
	if progress != nil {
		update = func(sent, total int64) {
			if total <= 0 {
				total = size
			}
			if total <= 0 {
				return
			}
			progress(float64(sent) / float64(total))
		}
	}

	chunk := u.ChunkSize
	if chunk == 0 {
		chunk = youtube.DefaultChunkSize
	}

	callCtx, cancel := u.callContext(ctx)
	id, err := u.Client.InsertVideo(callCtx, video, f, chunk, update)
	cancel()
	if progress != nil {
		progress(0)
	}
	if err != nil {
		return "", err
	}
	u.Log.Info("uploaded video", "id", id, "url", youtube.VideoURL(id))

	if job.ThumbnailPath == "" {
		return id, nil
	}

	img, err := os.Open(job.ThumbnailPath)
	if err != nil {
		return "", fmt.Errorf("could not open thumbnail for video %s: %w", id, err)
	}
	defer img.Close()

	callCtx, cancel = u.callContext(ctx)
	defer cancel()
	err = u.Client.SetThumbnail(callCtx, id, img)
	if err != nil {
		return "", fmt.Errorf("could not set thumbnail of video %s: %w", id, err)
	}
	u.Log.Info("uploaded thumbnail", "id", id, "file", job.ThumbnailPath)
	return id, nil
}

func (u *Uploader) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.CallTimeout)
}

// preview returns the start of a description for logging.
func preview(s string) string {
	r := []rune(s)
	if len(r) > previewLength {
		r = r[:previewLength]
	}
	return string(r) + "..."
}
