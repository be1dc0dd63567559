/*
DESCRIPTION
  config.go provides the parameters of a bulk upload run, their defaults
  and their pre-flight validation.

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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ausocean/ytbulk/gauth"
	"github.com/ausocean/ytbulk/naming"
	"github.com/ausocean/ytbulk/youtube"
)

// Defaults.
const (
	DefaultLimit     = 100
	DefaultFailedLog = "failed_uploads.txt"
)

// ErrNoInputFiles is wrapped by the ConfigError returned when the source
// directory holds no videos.
var ErrNoInputFiles = errors.New("no video files found")

// ConfigError is a fatal problem with the run parameters, found before any
// video is processed.
type ConfigError struct {
	Param string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Param, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Config holds the parameters of a bulk upload run.
type Config struct {
	// SourceDir is the directory searched for videos. Subdirectories are
	// not searched.
	SourceDir string

	InputExtensions     []string
	ThumbnailExtensions []string

	Title     naming.Affix
	Thumbnail naming.Affix

	// DescriptionTemplate is the path or gs:// URI of the description
	// template, or empty for none. DescriptionRules are applied to the
	// template text and may refer to naming.TitlePlaceholder.
	DescriptionTemplate string
	DescriptionRules    []naming.Rule

	Privacy  string
	Category string
	Keywords []string

	// Limit is the most videos uploaded in one run.
	Limit int

	DryRun          bool
	Interactive     bool
	CheckDuplicates bool

	// SecretsFile is the path or gs:// URI of the OAuth2 client secrets.
	// It must hold valid JSON unless DryRun is set.
	SecretsFile string

	ChunkSize int

	// CallTimeout bounds each remote call. Zero means no bound.
	CallTimeout time.Duration
}

// DefaultConfig returns the default run parameters. Slices are freshly
// allocated on each call.
func DefaultConfig() Config {
	return Config{
		SourceDir:           ".",
		InputExtensions:     []string{".mp4", ".mov"},
		ThumbnailExtensions: []string{".png", ".jpg", ".jpeg"},
		Privacy:             youtube.PrivacyPublic,
		Category:            youtube.MusicCategoryID,
		Keywords:            []string{"music"},
		Limit:               DefaultLimit,
		Interactive:         true,
		CheckDuplicates:     true,
		ChunkSize:           youtube.DefaultChunkSize,
	}
}

// Validate checks the parameters, returning a *ConfigError for the first
// problem found.
func (c *Config) Validate(ctx context.Context) error {
	fi, err := os.Stat(c.SourceDir)
	if err != nil {
		return &ConfigError{"source directory", err}
	}
	if !fi.IsDir() {
		return &ConfigError{"source directory", fmt.Errorf("%s is not a directory", c.SourceDir)}
	}
	if len(c.InputExtensions) == 0 {
		return &ConfigError{"input extensions", errors.New("none given")}
	}
	if !youtube.ValidPrivacy(c.Privacy) {
		return &ConfigError{"privacy status", fmt.Errorf("%q is not one of public, private or unlisted", c.Privacy)}
	}
	if youtube.CategoryID(c.Category) == "" {
		return &ConfigError{"category", fmt.Errorf("unknown category %q", c.Category)}
	}
	if c.Limit <= 0 {
		return &ConfigError{"batch limit", fmt.Errorf("%d is not positive", c.Limit)}
	}
	if c.ChunkSize < 0 {
		return &ConfigError{"chunk size", fmt.Errorf("%d is negative", c.ChunkSize)}
	}

	if c.DescriptionTemplate != "" {
		ok, err := gauth.Exists(ctx, c.DescriptionTemplate)
		if err != nil {
			return &ConfigError{"description template", err}
		}
		if !ok {
			return &ConfigError{"description template", fmt.Errorf("%s does not exist", c.DescriptionTemplate)}
		}
	}

	if c.DryRun {
		return nil
	}
	if c.SecretsFile == "" {
		return &ConfigError{"client secrets", errors.New("no client secrets file given")}
	}
	data, err := gauth.ReadURI(ctx, c.SecretsFile)
	if err != nil {
		return &ConfigError{"client secrets", err}
	}
	if !json.Valid(data) {
		return &ConfigError{"client secrets", fmt.Errorf("%s is not valid JSON", c.SecretsFile)}
	}
	return nil
}
