/*
DESCRIPTION
  tui.go provides the terminal user interface of ytbulk. The upload
  pipeline runs on its own goroutine and its prompts, progress and log
  messages are handed to the interface as messages.

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
	"os"
	"strings"
	"sync"

	"github.com/ausocean/utils/logging"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/ausocean/ytbulk/bulk"
	"github.com/ausocean/ytbulk/prompt"
	"github.com/ausocean/ytbulk/youtube"
)

const (
	maxStatusLines  = 8
	maxBarWidth     = 60
	exitInterrupted = 130
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	promptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Messages sent to the model from outside the event loop.
type (
	promptMsg   struct{ req *prompt.Request }
	progressMsg float64
	statusMsg   struct {
		level int8
		text  string
	}
	stopMsg struct{}
	doneMsg struct{ err error }
)

// model is the bubbletea model of a run. It shows recent log messages,
// the progress of the current upload and at most one prompt.
type model struct {
	cancel   context.CancelFunc
	stopping bool
	forced   bool
	done     bool
	err      error

	req    *prompt.Request
	input  textinput.Model
	bar    progress.Model
	pct    float64
	status []statusMsg
}

func newModel(cancel context.CancelFunc) model {
	input := textinput.New()
	input.Prompt = "> "
	input.Width = maxBarWidth
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = maxBarWidth
	return model{cancel: cancel, input: input, bar: bar}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, maxBarWidth)
		m.input.Width = min(msg.Width-6, maxBarWidth)
		return m, nil

	case promptMsg:
		m.req = msg.req
		if m.req.Kind == prompt.KindText {
			m.input.SetValue(m.req.Default)
			return m, m.input.Focus()
		}
		return m, nil

	case progressMsg:
		m.pct = float64(msg)
		return m, nil

	case statusMsg:
		m.status = append(m.status, msg)
		if len(m.status) > maxStatusLines {
			m.status = m.status[len(m.status)-maxStatusLines:]
		}
		return m, nil

	case stopMsg:
		return m.stop(), nil

	case doneMsg:
		m.done = true
		m.err = msg.err
		m.pct = 0
		return m, tea.Quit

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.stopping {
			m.forced = true
			return m, tea.Quit
		}
		return m.stop(), nil
	}
	if m.req == nil {
		return m, nil
	}

	switch m.req.Kind {
	case prompt.KindYesNo:
		switch strings.ToLower(msg.String()) {
		case "y":
			m.req.Confirm(true)
		case "n":
			m.req.Confirm(false)
		case "enter":
			m.req.Confirm(m.req.AllowEmpty)
		case "esc":
			m.req.Cancel()
		default:
			return m, nil
		}
		m.req = nil
		return m, nil

	case prompt.KindText:
		switch msg.String() {
		case "enter":
			m.req.Submit(strings.TrimSpace(m.input.Value()))
		case "esc":
			m.req.Cancel()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		m.input.Blur()
		m.input.SetValue("")
		m.req = nil
	}
	return m, nil
}

// stop asks the run to finish after the current video. Open prompts stay
// open.
func (m model) stop() model {
	if m.stopping {
		return m
	}
	m.stopping = true
	if m.cancel != nil {
		m.cancel()
	}
	return m
}

func (m model) View() string {
	var b strings.Builder

	header := "ytbulk"
	if m.stopping && !m.done {
		header += " (stopping after the current video, ctrl+c again to quit)"
	}
	b.WriteString(titleStyle.Render(header) + "\n\n")

	for _, s := range m.status {
		b.WriteString(renderStatus(s) + "\n")
	}

	if m.pct > 0 {
		b.WriteString("\n" + m.bar.ViewAs(m.pct) + "\n")
	}

	if m.req != nil {
		body := m.req.Msg
		switch m.req.Kind {
		case prompt.KindYesNo:
			hint := "y/n, esc to skip"
			if m.req.AllowEmpty {
				hint = "[y]/n, esc to skip"
			}
			body += "\n\n" + mutedStyle.Render(hint)
		case prompt.KindText:
			body += "\n\n" + m.input.View() + "\n" + mutedStyle.Render("enter to accept, esc for the default")
		}
		b.WriteString("\n" + promptStyle.Render(body) + "\n")
	}

	if m.done {
		if m.err != nil {
			b.WriteString("\n" + errorStyle.Render("Run failed: "+m.err.Error()) + "\n")
		} else {
			b.WriteString("\n" + okStyle.Render("Run complete.") + "\n")
		}
	}
	return b.String()
}

func renderStatus(s statusMsg) string {
	switch s.level {
	case logging.Warning:
		return warnStyle.Render(s.text)
	case logging.Error, logging.Fatal:
		return errorStyle.Render(s.text)
	default:
		return mutedStyle.Render(s.text)
	}
}

// statusText formats a log message and its key value pairs as one line.
func statusText(msg string, kv []interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}

// uiLogger logs to the wrapped logger and also shows info and more severe
// messages in the interface.
type uiLogger struct {
	logging.Logger
	send func(tea.Msg)
}

func (l *uiLogger) Info(msg string, args ...interface{}) {
	l.Logger.Info(msg, args...)
	l.send(statusMsg{logging.Info, statusText(msg, args)})
}

func (l *uiLogger) Warning(msg string, args ...interface{}) {
	l.Logger.Warning(msg, args...)
	l.send(statusMsg{logging.Warning, statusText(msg, args)})
}

func (l *uiLogger) Error(msg string, args ...interface{}) {
	l.Logger.Error(msg, args...)
	l.send(statusMsg{logging.Error, statusText(msg, args)})
}

// pending tracks the prompt shown in the interface so that it can be
// cancelled when the interface exits. Requests made after that can never be
// answered and are refused.
type pending struct {
	mu     sync.Mutex
	req    *prompt.Request
	exited bool
}

// set records r as the prompt being shown, reporting false if the
// interface has exited.
func (p *pending) set(r *prompt.Request) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exited {
		return false
	}
	p.req = r
	return true
}

// exit cancels the prompt being shown, if it is still unanswered.
func (p *pending) exit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.exited = true
	if p.req != nil {
		p.req.Cancel()
		p.req = nil
	}
}

// runTUI runs the pipeline behind the terminal user interface. The first
// ctrl+c or signal stops the run after the current video and a second
// ctrl+c exits immediately.
func runTUI(ctx context.Context, cfg bulk.Config, client youtube.Client, log logging.Logger) ([]bulk.Result, bulk.RunStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(newModel(cancel), tea.WithoutSignalHandler())

	var open pending
	ask := func(r *prompt.Request) {
		if !open.set(r) {
			r.Cancel()
			return
		}
		prog.Send(promptMsg{r})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer open.exit()
		final, err := prog.Run()
		if err != nil {
			return fmt.Errorf("could not run user interface: %w", err)
		}
		if m, ok := final.(model); ok && m.forced {
			log.Warning("run interrupted")
			fmt.Fprintln(os.Stderr, "ytbulk: interrupted")
			os.Exit(exitInterrupted)
		}
		return nil
	})

	go func() {
		<-ctx.Done()
		prog.Send(stopMsg{})
	}()

	var (
		results []bulk.Result
		stats   bulk.RunStats
	)
	g.Go(func() error {
		p, err := bulk.New(cfg, client,
			bulk.WithLogger(&uiLogger{Logger: log, send: prog.Send}),
			bulk.WithGate(prompt.NewDialog(ask)),
			bulk.WithProgress(func(f float64) { prog.Send(progressMsg(f)) }),
		)
		if err != nil {
			prog.Send(doneMsg{err})
			return err
		}
		results, err = p.Process(gctx)
		stats = p.Stats()
		prog.Send(doneMsg{err})
		return err
	})

	err := g.Wait()
	return results, stats, err
}
