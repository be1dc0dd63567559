/*
DESCRIPTION
  config.go provides the command line arguments of ytbulk, their loading
  from and saving to a YAML file, and their conversion to run parameters.

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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexflint/go-arg"
	"gopkg.in/yaml.v3"

	"github.com/ausocean/ytbulk/bulk"
	"github.com/ausocean/ytbulk/gauth"
	"github.com/ausocean/ytbulk/naming"
)

// User interface choices.
const (
	uiAuto    = "auto"
	uiTUI     = "tui"
	uiConsole = "console"
)

// args holds the command line arguments. Every argument except --config
// and --save-config may also be given in the YAML config file, with flags
// taking precedence.
type args struct {
	Config     string `arg:"-c,--config" yaml:"-" help:"YAML file of parameters, overridden by flags"`
	SaveConfig bool   `arg:"--save-config" yaml:"-" help:"write the effective parameters to --config before running"`

	SourceDir       string   `arg:"-d,--source-dir" yaml:"source_dir" help:"directory of videos to upload"`
	InputExtensions []string `arg:"--input-extensions" yaml:"input_extensions" help:"extensions of video files to upload"`
	Limit           int      `arg:"--limit" yaml:"limit" help:"most videos to upload in one run"`
	DryRun          bool     `arg:"--dry-run" yaml:"dry_run" help:"log what would be uploaded without uploading"`
	NonInteractive  bool     `arg:"-y,--non-interactive" yaml:"non_interactive" help:"never prompt"`
	NoDuplicates    bool     `arg:"--no-duplicate-check" yaml:"no_duplicate_check" help:"skip searching the channel for existing videos"`

	SecretsFile string        `arg:"--client-secrets" yaml:"client_secrets" help:"OAuth2 client secrets JSON file or gs:// object"`
	TokenFile   string        `arg:"--token" yaml:"token" help:"file or gs:// object caching the OAuth2 token"`
	CallTimeout time.Duration `arg:"--call-timeout" yaml:"call_timeout" help:"bound on each YouTube call, 0 for none"`

	Category string   `arg:"--category" yaml:"category" help:"YouTube category ID or name"`
	Keywords []string `arg:"--keywords" yaml:"keywords" help:"tags for each video"`
	Privacy  string   `arg:"--privacy" yaml:"privacy" help:"public, private or unlisted"`

	TitlePrefix       string   `arg:"--title-prefix" yaml:"title_prefix" help:"prepended to each title"`
	TitleSuffix       string   `arg:"--title-suffix" yaml:"title_suffix" help:"appended to each title"`
	TitleReplacements []string `arg:"--title-replacements" yaml:"title_replacements" help:"pattern and replacement pairs applied to titles"`

	DescriptionTemplate     string   `arg:"--description-template" yaml:"description_template" help:"description template file or gs:// object"`
	DescriptionReplacements []string `arg:"--description-replacements" yaml:"description_replacements" help:"pattern and replacement pairs applied to the description, where {{youtube_title}} is the title"`

	ThumbnailPrefix       string   `arg:"--thumbnail-prefix" yaml:"thumbnail_prefix" help:"prepended to each thumbnail filename"`
	ThumbnailSuffix       string   `arg:"--thumbnail-suffix" yaml:"thumbnail_suffix" help:"appended to each thumbnail filename"`
	ThumbnailReplacements []string `arg:"--thumbnail-replacements" yaml:"thumbnail_replacements" help:"pattern and replacement pairs applied to thumbnail filenames"`
	ThumbnailExtensions   []string `arg:"--thumbnail-extensions" yaml:"thumbnail_extensions" help:"thumbnail extensions to try, in order"`

	UI       string `arg:"--ui" yaml:"ui" help:"auto, tui or console"`
	LogLevel string `arg:"--log-level" yaml:"log_level" help:"debug, info, warning, error or fatal"`
	LogFile  string `arg:"--log-file" yaml:"log_file" help:"rotating log file"`

	NotifyTo     []string      `arg:"--notify" yaml:"notify" help:"email addresses sent a report of each run"`
	NotifyStore  string        `arg:"--notify-store" yaml:"notify_store" help:"file or gs:// object recording when reports were sent"`
	NotifyPeriod time.Duration `arg:"--notify-period" yaml:"notify_period" help:"minimum time between reports"`
}

func (args) Description() string {
	return "ytbulk uploads a directory of videos to YouTube, deriving titles, descriptions and thumbnails from filenames."
}

// defaultArgs returns the arguments used when neither the config file nor
// a flag gives a value.
func defaultArgs() args {
	d := bulk.DefaultConfig()
	return args{
		SourceDir:           d.SourceDir,
		InputExtensions:     d.InputExtensions,
		Limit:               d.Limit,
		SecretsFile:         "client_secret.json",
		TokenFile:           filepath.Join(os.TempDir(), "ytbulk-token.json"),
		Category:            d.Category,
		Keywords:            d.Keywords,
		Privacy:             d.Privacy,
		ThumbnailExtensions: d.ThumbnailExtensions,
		UI:                  uiAuto,
		LogLevel:            "info",
		LogFile:             filepath.Join(os.TempDir(), "ytbulk.log"),
		NotifyStore:         filepath.Join(os.TempDir(), "ytbulk-notify.json"),
	}
}

// parseArgs parses the command line in argv. If a config file is named,
// its values replace the defaults and the command line is parsed again on
// top of them.
func parseArgs(ctx context.Context, argv []string) (args, error) {
	a := defaultArgs()
	p, err := arg.NewParser(arg.Config{Program: "ytbulk"}, &a)
	if err != nil {
		return a, err
	}
	if err := p.Parse(argv); err != nil {
		return a, err
	}
	if a.Config == "" {
		return a, nil
	}

	path, save := a.Config, a.SaveConfig
	a = defaultArgs()
	err = loadConfig(ctx, path, &a)
	switch {
	case errors.Is(err, gauth.ErrNotExist) && save:
		// Created below.
	case err != nil:
		return a, err
	}

	p, err = arg.NewParser(arg.Config{Program: "ytbulk"}, &a)
	if err != nil {
		return a, err
	}
	if err := p.Parse(argv); err != nil {
		return a, err
	}
	return a, nil
}

// loadConfig reads YAML arguments from the file or gs:// object at uri
// into a.
func loadConfig(ctx context.Context, uri string, a *args) error {
	b, err := gauth.ReadURI(ctx, uri)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := yaml.Unmarshal(b, a); err != nil {
		return fmt.Errorf("could not parse config %s: %w", uri, err)
	}
	return nil
}

// saveConfig writes a as YAML to a.Config.
func saveConfig(ctx context.Context, a args) error {
	b, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}
	return gauth.WriteURI(ctx, a.Config, b, 0644)
}

// runConfig converts a to run parameters.
func (a args) runConfig() (bulk.Config, error) {
	cfg := bulk.DefaultConfig()
	cfg.SourceDir = a.SourceDir
	cfg.InputExtensions = a.InputExtensions
	cfg.ThumbnailExtensions = a.ThumbnailExtensions
	cfg.Privacy = a.Privacy
	cfg.Category = a.Category
	cfg.Keywords = a.Keywords
	cfg.Limit = a.Limit
	cfg.DryRun = a.DryRun
	cfg.Interactive = !a.NonInteractive
	cfg.CheckDuplicates = !a.NoDuplicates
	cfg.SecretsFile = a.SecretsFile
	cfg.CallTimeout = a.CallTimeout
	cfg.DescriptionTemplate = a.DescriptionTemplate

	var err error
	cfg.Title = naming.Affix{Prefix: a.TitlePrefix, Suffix: a.TitleSuffix}
	cfg.Title.Rules, err = naming.ParseRules(a.TitleReplacements)
	if err != nil {
		return cfg, &bulk.ConfigError{Param: "title replacements", Err: err}
	}
	cfg.Thumbnail = naming.Affix{Prefix: a.ThumbnailPrefix, Suffix: a.ThumbnailSuffix}
	cfg.Thumbnail.Rules, err = naming.ParseRules(a.ThumbnailReplacements)
	if err != nil {
		return cfg, &bulk.ConfigError{Param: "thumbnail replacements", Err: err}
	}
	cfg.DescriptionRules, err = naming.ParseRules(a.DescriptionReplacements)
	if err != nil {
		return cfg, &bulk.ConfigError{Param: "description replacements", Err: err}
	}
	return cfg, nil
}
