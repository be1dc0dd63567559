/*
DESCRIPTION
  pipeline.go provides the bulk upload pipeline, which takes each video in
  a directory through title, description and thumbnail derivation,
  duplicate checking, confirmation and upload.

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

// Package bulk uploads a directory of videos to YouTube, deriving each
// video's metadata from its filename and a description template.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/ytbulk/dedup"
	"github.com/ausocean/ytbulk/gauth"
	"github.com/ausocean/ytbulk/naming"
	"github.com/ausocean/ytbulk/prompt"
	"github.com/ausocean/ytbulk/youtube"
)

// Prompts.
const (
	msgTitleOK        = "Are you happy with the generated title: %s?"
	msgTitleEnter     = "Please type the title you would like to use (max 100 chars): "
	msgDescEnter      = "No description template file found. Please type the description you would like to use: "
	msgNoThumbnail    = "No valid thumbnail file found. Do you want to continue without a thumbnail?"
	msgNoThumbAborted = "Operation cancelled due to missing thumbnail file."
	msgConfirm        = "Confirm you are happy for video to be uploaded to your channel with details:\n\n" +
		"Filename: %s\n\n" +
		"Title: %s\n\n" +
		"Thumbnail filepath: %s\n\n" +
		"Description: %s\n\n" +
		"Privacy: %s\n\n" +
		"Proceed with upload?"
)

// ErrNoClient is returned by New when the run needs a YouTube client but
// none was given.
var ErrNoClient = errors.New("no YouTube client for upload or duplicate check")

// Option is a functional option supplied to New.
type Option func(*Pipeline) error

// WithGate sets the gate used for interactive prompts. Without it an
// interactive pipeline prompts on stdin and stdout.
func WithGate(g prompt.Gate) Option {
	return func(p *Pipeline) error {
		if g == nil {
			return errors.New("nil gate")
		}
		p.gate = g
		return nil
	}
}

// WithLogger sets the logger. Without it nothing is logged.
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) error {
		p.log = l
		return nil
	}
}

// WithProgress sets a function called with the fraction of the current
// video uploaded.
func WithProgress(f func(float64)) Option {
	return func(p *Pipeline) error {
		p.progress = f
		return nil
	}
}

// WithFailedLog sets the file that failed videos are recorded in. It
// defaults to DefaultFailedLog in the source directory.
func WithFailedLog(path string) Option {
	return func(p *Pipeline) error {
		p.failedLog = path
		return nil
	}
}

// Pipeline uploads the videos in a directory, one at a time.
type Pipeline struct {
	cfg       Config
	gate      prompt.Gate
	log       logging.Logger
	progress  func(float64)
	failedLog string
	uploader  *Uploader
	checker   *dedup.Checker

	mu    sync.Mutex
	stats RunStats
}

// New returns a Pipeline for the run described by cfg, using client for
// all remote calls. client may only be nil for a dry run without duplicate
// checking. cfg is otherwise checked when the run starts, not here.
func New(cfg Config, client youtube.Client, opts ...Option) (*Pipeline, error) {
	if client == nil && (cfg.CheckDuplicates || !cfg.DryRun) {
		return nil, ErrNoClient
	}

	p := &Pipeline{cfg: cfg}
	for i, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("could not apply option # %d: %w", i, err)
		}
	}

	if p.log == nil {
		p.log = logging.New(logging.Info, io.Discard, true)
	}
	if p.gate == nil && cfg.Interactive {
		p.gate = prompt.NewConsole(nil, nil)
	}
	if p.failedLog == "" {
		p.failedLog = filepath.Join(cfg.SourceDir, DefaultFailedLog)
	}

	p.uploader = &Uploader{
		Client:      client,
		Category:    youtube.CategoryID(cfg.Category),
		Keywords:    cfg.Keywords,
		ChunkSize:   cfg.ChunkSize,
		CallTimeout: cfg.CallTimeout,
		Log:         p.log,
	}
	p.checker = &dedup.Checker{
		Client:      client,
		Gate:        p.gate,
		Interactive: cfg.Interactive,
		Log:         p.log,
	}
	return p, nil
}

// Stats returns the outcome counts of the current or last run.
func (p *Pipeline) Stats() RunStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Process uploads the videos in the source directory and returns the
// results for those uploaded, in the order they were processed.
//
// Invalid parameters, including a source directory with no videos, are
// reported as a *ConfigError before anything is processed. Failures of
// individual videos are logged and recorded in the failed log but do not
// stop the run. The run stops early when ctx is cancelled or the batch
// limit is reached; neither is an error.
func (p *Pipeline) Process(ctx context.Context) ([]Result, error) {
	if p.cfg.DryRun {
		p.log.Warning("dry run enabled, nothing will be uploaded")
	}

	p.log.Info("validating run parameters", "dir", p.cfg.SourceDir)
	if err := p.cfg.Validate(ctx); err != nil {
		return nil, err
	}

	files, err := FindInputFiles(p.cfg.SourceDir, p.cfg.InputExtensions)
	if err != nil {
		return nil, &ConfigError{"source directory", err}
	}
	p.log.Info("found videos", "count", len(files), "dir", p.cfg.SourceDir)

	p.mu.Lock()
	p.stats = RunStats{}
	p.mu.Unlock()

	// Cancellation is only checked between videos. A video already
	// started runs to completion, prompts included.
	jobCtx := context.WithoutCancel(ctx)

	var results []Result
	for _, path := range files {
		if ctx.Err() != nil {
			p.log.Info("run cancelled, stopping")
			break
		}
		if len(results) >= p.cfg.Limit {
			p.log.Warning("reached the upload limit for a 24-hour period, please wait until tomorrow to run again", "limit", p.cfg.Limit)
			break
		}

		job := &Job{SourcePath: path, Privacy: p.cfg.Privacy}
		res, err := p.processJob(jobCtx, job)
		var abort *prompt.AbortError
		switch {
		case errors.As(err, &abort):
			p.log.Warning("video skipped", "file", path, "reason", abort.Msg)
			p.transition(job, StateSkippedByUser)
		case err != nil:
			p.log.Error("could not upload video", "file", path, "state", job.State.String(), "error", err)
			p.transition(job, StateFailed)
			p.recordFailure(path)
		case job.State == StateUploaded:
			results = append(results, res)
		}
		p.count(job.State)
	}

	p.log.Info("all videos processed", "stats", p.Stats().String())
	return results, nil
}

// processJob takes job through to a final state, returning its result if
// it was uploaded.
func (p *Pipeline) processJob(ctx context.Context, job *Job) (Result, error) {
	var err error

	job.Title, err = p.title(ctx, job.SourcePath)
	if err != nil {
		return Result{}, err
	}
	p.transition(job, StateTitleDetermined)

	job.Description, err = p.description(ctx, job)
	if err != nil {
		return Result{}, err
	}
	p.transition(job, StateDescriptionDetermined)

	job.ThumbnailPath, err = p.thumbnail(ctx, job.SourcePath)
	if err != nil {
		return Result{}, err
	}
	p.transition(job, StateThumbnailDetermined)

	if p.cfg.CheckDuplicates {
		id, err := p.checker.FindExisting(ctx, job.Title)
		if err != nil {
			return Result{}, err
		}
		if id != "" {
			p.log.Warning("video already exists on channel, skipping upload", "file", job.SourcePath, "url", youtube.VideoURL(id))
			p.transition(job, StateSkippedDuplicate)
			return Result{}, nil
		}
	} else {
		p.log.Debug("duplicate check disabled", "file", job.SourcePath)
	}
	p.transition(job, StateDuplicateChecked)

	if p.cfg.Interactive {
		thumb := job.ThumbnailPath
		if thumb == "" {
			thumb = "none"
		}
		msg := fmt.Sprintf(msgConfirm, job.SourcePath, job.Title, thumb, job.Description, job.Privacy)
		ok, err := p.gate.YesNo(ctx, msg, false)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			p.log.Info("upload declined", "file", job.SourcePath)
			p.transition(job, StateSkippedByUser)
			return Result{}, nil
		}
		p.transition(job, StateConfirmed)
	}

	id, err := p.uploader.Upload(ctx, job, p.cfg.DryRun, p.progress)
	if err != nil {
		return Result{}, err
	}
	p.transition(job, StateUploaded)

	return Result{
		InputFilename: job.SourcePath,
		Title:         job.Title,
		ID:            id,
		URL:           youtube.VideoURL(id),
	}, nil
}

func (p *Pipeline) title(ctx context.Context, path string) (string, error) {
	title := naming.DeriveTitle(path, p.cfg.Title, p.log)
	if !p.cfg.Interactive {
		return title, nil
	}

	ok, err := p.gate.YesNo(ctx, fmt.Sprintf(msgTitleOK, title), false)
	if err != nil {
		return "", err
	}
	if ok {
		return title, nil
	}
	return p.gate.Text(ctx, msgTitleEnter, title)
}

func (p *Pipeline) description(ctx context.Context, job *Job) (string, error) {
	var desc string
	if p.cfg.DescriptionTemplate != "" {
		b, err := gauth.ReadURI(ctx, p.cfg.DescriptionTemplate)
		if err != nil {
			return "", fmt.Errorf("could not read description template: %w", err)
		}
		desc = string(b)
	}

	if len(p.cfg.DescriptionRules) > 0 {
		p.log.Info("applying replacement rules to description", "length", len(desc))
		desc = naming.ApplyRules(desc, p.cfg.DescriptionRules, job.Title, p.log)
	}

	if desc != "" || !p.cfg.Interactive {
		return desc, nil
	}
	p.log.Warning("no description for video", "file", job.SourcePath)
	return p.gate.Text(ctx, msgDescEnter, desc)
}

func (p *Pipeline) thumbnail(ctx context.Context, path string) (string, error) {
	thumb := naming.DeriveThumbnailPath(path, p.cfg.Thumbnail, p.cfg.ThumbnailExtensions, p.log)
	if thumb != "" || !p.cfg.Interactive {
		return thumb, nil
	}
	return "", prompt.ConfirmOrAbort(ctx, p.gate, msgNoThumbnail, msgNoThumbAborted)
}

func (p *Pipeline) transition(job *Job, s State) {
	p.log.Debug("job state changed", "file", job.SourcePath, "from", job.State.String(), "to", s.String())
	job.State = s
}

func (p *Pipeline) count(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Candidates++
	switch s {
	case StateUploaded:
		p.stats.Uploaded++
	case StateSkippedDuplicate:
		p.stats.SkippedDuplicate++
	case StateSkippedByUser:
		p.stats.SkippedByUser++
	case StateFailed:
		p.stats.Failed++
	}
}

// recordFailure appends path to the failed log. The log is only written,
// never read.
func (p *Pipeline) recordFailure(path string) {
	f, err := os.OpenFile(p.failedLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		p.log.Error("could not open failed log", "file", p.failedLog, "error", err)
		return
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, path); err != nil {
		p.log.Error("could not record failed video", "file", path, "error", err)
	}
}
