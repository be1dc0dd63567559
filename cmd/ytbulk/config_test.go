/*
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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausocean/ytbulk/bulk"
	"github.com/ausocean/ytbulk/naming"
)

func TestParseArgsDefaults(t *testing.T) {
	a, err := parseArgs(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, defaultArgs(), a)

	cfg, err := a.runConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Interactive)
	assert.True(t, cfg.CheckDuplicates)
	assert.Equal(t, bulk.DefaultLimit, cfg.Limit)
	assert.Equal(t, "public", cfg.Privacy)
}

func TestParseArgsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytbulk.yaml")
	yaml := `source_dir: /videos
privacy: unlisted
title_prefix: "AusOcean - "
keywords: [ocean, reef]
call_timeout: 1m
title_replacements: ["_", " "]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	a, err := parseArgs(context.Background(), []string{"-c", path, "--privacy", "private", "-y"})
	require.NoError(t, err)

	// Flags take precedence over the file, which takes precedence over
	// the defaults.
	assert.Equal(t, "/videos", a.SourceDir)
	assert.Equal(t, "private", a.Privacy)
	assert.Equal(t, "AusOcean - ", a.TitlePrefix)
	assert.Equal(t, []string{"ocean", "reef"}, a.Keywords)
	assert.Equal(t, time.Minute, a.CallTimeout)
	assert.True(t, a.NonInteractive)
	assert.Equal(t, "10", a.Category)

	cfg, err := a.runConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Interactive)
	require.Len(t, cfg.Title.Rules, 1)
	assert.Equal(t, "AusOcean - my clip", naming.DeriveTitle("/videos/my_clip.mp4", cfg.Title, (*logging.TestLogger)(t)))
}

func TestParseArgsMissingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := parseArgs(context.Background(), []string{"-c", path})
	assert.Error(t, err)

	a, err := parseArgs(context.Background(), []string{"-c", path, "--save-config", "--limit", "5"})
	require.NoError(t, err)
	assert.Equal(t, 5, a.Limit)
}

func TestParseArgsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: [1, 2"), 0644))

	_, err := parseArgs(context.Background(), []string{"-c", path})
	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	a, err := parseArgs(context.Background(), []string{
		"-c", path, "--save-config",
		"--title-suffix", " (4K)",
		"--description-replacements", "TITLE", naming.TitlePlaceholder,
		"--notify-period", "24h",
	})
	require.NoError(t, err)
	require.NoError(t, saveConfig(context.Background(), a))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "save_config")

	got, err := parseArgs(context.Background(), []string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, " (4K)", got.TitleSuffix)
	assert.Equal(t, []string{"TITLE", naming.TitlePlaceholder}, got.DescriptionReplacements)
	assert.Equal(t, 24*time.Hour, got.NotifyPeriod)
	assert.False(t, got.SaveConfig)
}

func TestRunConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*args)
		param string
	}{
		{"title", func(a *args) { a.TitleReplacements = []string{"odd"} }, "title replacements"},
		{"thumbnail", func(a *args) { a.ThumbnailReplacements = []string{"(", "x"} }, "thumbnail replacements"},
		{"description", func(a *args) { a.DescriptionReplacements = []string{"a", "b", "c"} }, "description replacements"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a := defaultArgs()
			test.edit(&a)
			_, err := a.runConfig()
			var cerr *bulk.ConfigError
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, test.param, cerr.Param)
		})
	}
}

func TestChooseUI(t *testing.T) {
	tui, err := chooseUI(uiTUI, true)
	require.NoError(t, err)
	assert.True(t, tui)

	tui, err = chooseUI(uiConsole, false)
	require.NoError(t, err)
	assert.False(t, tui)

	tui, err = chooseUI(uiAuto, true)
	require.NoError(t, err)
	assert.False(t, tui)

	_, err = chooseUI("gui", false)
	assert.Error(t, err)
}

func TestPrepareValidatesBeforeAuthorising(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp4"), nil, 0644))
	secrets := filepath.Join(dir, "client_secret.json")
	require.NoError(t, os.WriteFile(secrets, []byte(`{"installed":{}}`), 0600))

	a := defaultArgs()
	a.SourceDir = dir
	a.SecretsFile = secrets
	a.TokenFile = filepath.Join(dir, "token.json")
	a.Privacy = "secret"

	// Authorising with these secrets would fail, so a configuration error
	// shows the parameters were checked first.
	_, _, err := prepare(context.Background(), a, (*logging.TestLogger)(t))
	var cerr *bulk.ConfigError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "privacy status", cerr.Param)
}

func TestPrepareDryRunWithoutSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp4"), nil, 0644))

	a := defaultArgs()
	a.SourceDir = dir
	a.SecretsFile = filepath.Join(dir, "missing.json")
	a.DryRun = true

	cfg, client, err := prepare(context.Background(), a, (*logging.TestLogger)(t))
	require.NoError(t, err)
	assert.Nil(t, client)
	assert.False(t, cfg.CheckDuplicates)
}
