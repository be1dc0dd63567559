/*
DESCRIPTION
  report.go provides the run report emailed to the --notify recipients.

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
	"fmt"
	"strings"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/dustin/go-humanize"

	"github.com/ausocean/ytbulk/bulk"
	"github.com/ausocean/ytbulk/gauth"
	"github.com/ausocean/ytbulk/notify"
)

// reportKind is the notification kind of run reports, which the
// notification store rate limits.
const reportKind = "run report"

// runReport returns the text of the report for a run.
func runReport(runID string, start time.Time, dryRun bool, stats bulk.RunStats, results []bulk.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s started %s", runID, humanize.Time(start))
	if dryRun {
		b.WriteString(" (dry run)")
	}
	b.WriteString(".\n\n")

	fmt.Fprintf(&b, "%s of %s uploaded.\n", humanize.Comma(int64(stats.Uploaded)), pluralVideos(stats.Candidates))
	if stats.SkippedDuplicate > 0 {
		fmt.Fprintf(&b, "%s already on the channel.\n", pluralVideos(stats.SkippedDuplicate))
	}
	if stats.SkippedByUser > 0 {
		fmt.Fprintf(&b, "%s skipped by the user.\n", pluralVideos(stats.SkippedByUser))
	}
	if stats.Failed > 0 {
		fmt.Fprintf(&b, "%s failed, see %s.\n", pluralVideos(stats.Failed), bulk.DefaultFailedLog)
	}

	if len(results) > 0 {
		b.WriteString("\nUploaded:\n")
		for _, r := range results {
			fmt.Fprintf(&b, "  %s\n    %s\n    %s\n", r.Title, r.URL, r.InputFilename)
		}
	}
	return b.String()
}

func pluralVideos(n int) string {
	if n == 1 {
		return "1 video"
	}
	return humanize.Comma(int64(n)) + " videos"
}

// sendReport emails msg to the notification recipients. MailJet keys are
// read from the secrets named by YTBULK_SECRETS.
func sendReport(ctx context.Context, a args, log logging.Logger, msg string) error {
	secrets, err := gauth.GetSecrets(ctx, projectID, []string{notify.PublicKeySecret, notify.PrivateKeySecret})
	if err != nil {
		return fmt.Errorf("could not get notification secrets: %w", err)
	}

	opts := []notify.Option{
		notify.WithRecipients(a.NotifyTo),
		notify.WithSecrets(secrets),
		notify.WithLogger(log),
	}
	if a.NotifyPeriod > 0 {
		opts = append(opts, notify.WithStore(notify.NewStore(a.NotifyStore), a.NotifyPeriod))
	}

	var n notify.Notifier
	if err := n.Init(opts...); err != nil {
		return fmt.Errorf("could not initialise notifier: %w", err)
	}
	return n.Send(ctx, reportKind, msg)
}
