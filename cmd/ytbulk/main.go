/*
DESCRIPTION
  ytbulk uploads a directory of videos to YouTube. Titles, descriptions and
  thumbnails are derived from the video filenames, a description template
  and replacement rules. Uploads may be confirmed interactively, either on
  the console or in a terminal user interface, and videos that already
  exist on the channel are skipped.

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
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/ausocean/utils/logging"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/ytbulk/bulk"
	"github.com/ausocean/ytbulk/gauth"
	"github.com/ausocean/ytbulk/prompt"
	"github.com/ausocean/ytbulk/youtube"
)

// projectID names the <PROJECT>_SECRETS environment variable.
const projectID = "ytbulk"

// Logging configuration.
const (
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logSuppress  = false
)

// Exit codes.
const (
	exitError = 1
	exitUsage = 2
)

var logLevels = map[string]int8{
	"debug":   logging.Debug,
	"info":    logging.Info,
	"warning": logging.Warning,
	"error":   logging.Error,
	"fatal":   logging.Fatal,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The first signal stops the run after the current video. Restoring
	// the default handlers lets a second signal kill the process.
	go func() {
		<-ctx.Done()
		stop()
	}()

	a, err := parseArgs(ctx, os.Args[1:])
	switch {
	case errors.Is(err, arg.ErrHelp):
		p, _ := arg.NewParser(arg.Config{Program: "ytbulk"}, &a)
		p.WriteHelp(os.Stdout)
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, "ytbulk:", err)
		os.Exit(exitUsage)
	}

	err = run(ctx, a)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ytbulk:", err)
		os.Exit(exitError)
	}
}

// run performs a bulk upload run as described by a.
func run(ctx context.Context, a args) error {
	level, ok := logLevels[a.LogLevel]
	if !ok {
		return fmt.Errorf("invalid log level %q", a.LogLevel)
	}
	useTUI, err := chooseUI(a.UI, a.NonInteractive)
	if err != nil {
		return err
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   a.LogFile,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()

	// The terminal belongs to the user interface when there is one.
	w := io.Writer(fileLog)
	if !useTUI {
		w = io.MultiWriter(fileLog, os.Stderr)
	}
	log := logging.New(level, w, logSuppress)

	runID := uuid.NewString()
	start := time.Now()
	log.Info("starting run", "id", runID, "dir", a.SourceDir, "dryRun", a.DryRun)

	if a.SaveConfig {
		if a.Config == "" {
			return errors.New("--save-config requires --config")
		}
		if err := saveConfig(ctx, a); err != nil {
			return err
		}
		log.Info("saved config", "uri", a.Config)
	}

	cfg, client, err := prepare(ctx, a, log)
	if err != nil {
		return err
	}

	var (
		results []bulk.Result
		stats   bulk.RunStats
	)
	if useTUI {
		results, stats, err = runTUI(ctx, cfg, client, log)
	} else {
		results, stats, err = runConsole(ctx, cfg, client, log)
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		log.Info("uploaded video", "file", r.InputFilename, "title", r.Title, "url", r.URL)
		fmt.Printf("%s\t%s\t%s\n", r.URL, r.Title, r.InputFilename)
	}
	log.Info("run complete", "id", runID, "stats", stats.String(), "started", humanize.Time(start))

	if len(a.NotifyTo) > 0 {
		err := sendReport(ctx, a, log, runReport(runID, start, cfg.DryRun, stats, results))
		if err != nil {
			log.Error("could not send run report", "error", err)
		}
	}
	return nil
}

// chooseUI reports whether the terminal user interface should be used.
func chooseUI(ui string, nonInteractive bool) (bool, error) {
	switch ui {
	case uiTUI:
		return true, nil
	case uiConsole:
		return false, nil
	case uiAuto:
		return !nonInteractive && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())), nil
	default:
		return false, fmt.Errorf("invalid user interface %q", ui)
	}
}

// prepare returns the run parameters described by a, checked, and a YouTube
// client for them. The parameters are checked before the user is asked to
// authorise access.
func prepare(ctx context.Context, a args, log logging.Logger) (bulk.Config, youtube.Client, error) {
	cfg, err := a.runConfig()
	if err != nil {
		return cfg, nil, err
	}
	if err := cfg.Validate(ctx); err != nil {
		return cfg, nil, err
	}
	client, err := newClient(ctx, a, &cfg, log)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, client, nil
}

// newClient returns an authorised YouTube client. A dry run without client
// secrets gets no client, and duplicate checking is turned off.
func newClient(ctx context.Context, a args, cfg *bulk.Config, log logging.Logger) (youtube.Client, error) {
	if cfg.DryRun {
		ok, err := gauth.Exists(ctx, a.SecretsFile)
		if err != nil || !ok {
			log.Warning("no client secrets for dry run, not checking for duplicates", "secrets", a.SecretsFile)
			cfg.CheckDuplicates = false
			return nil, nil
		}
	}

	secrets, err := gauth.ReadURI(ctx, a.SecretsFile)
	if err != nil {
		return nil, &bulk.ConfigError{Param: "client secrets", Err: err}
	}
	show := func(url string) {
		fmt.Fprintf(os.Stderr, "Open this URL in a browser to authorise access to your YouTube channel:\n\n%s\n\n", url)
	}
	svc, err := youtube.GetService(ctx, secrets, a.TokenFile, youtube.LoopbackAuthoriser(show), log)
	if err != nil {
		return nil, fmt.Errorf("could not authenticate with YouTube: %w", err)
	}
	return svc, nil
}

// runConsole runs the pipeline prompting on stdin and stdout.
func runConsole(ctx context.Context, cfg bulk.Config, client youtube.Client, log logging.Logger) ([]bulk.Result, bulk.RunStats, error) {
	opts := []bulk.Option{
		bulk.WithLogger(log),
		bulk.WithGate(prompt.NewConsole(os.Stdin, os.Stdout)),
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		opts = append(opts, bulk.WithProgress(consoleProgress(os.Stderr)))
	}

	p, err := bulk.New(cfg, client, opts...)
	if err != nil {
		return nil, bulk.RunStats{}, err
	}
	results, err := p.Process(ctx)
	return results, p.Stats(), err
}

// consoleProgress returns a progress function that redraws a percentage
// on w, clearing it when progress returns to zero.
func consoleProgress(w io.Writer) func(float64) {
	return func(f float64) {
		if f <= 0 {
			fmt.Fprint(w, "\r\033[K")
			return
		}
		fmt.Fprintf(w, "\rUploading: %s%%", humanize.FtoaWithDigits(f*100, 1))
	}
}
