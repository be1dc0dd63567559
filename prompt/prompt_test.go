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

package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleYesNo(t *testing.T) {
	tests := []struct {
		in         string
		allowEmpty bool
		want       bool
		opts       string
	}{
		{in: "y\n", want: true, opts: "y/[n]"},
		{in: " YES \n", want: true, opts: "y/[n]"},
		{in: "\n", want: false, opts: "y/[n]"},
		{in: "\n", allowEmpty: true, want: true, opts: "[y]/n"},
		{in: "", allowEmpty: true, want: true, opts: "[y]/n"},
		{in: "no\n", allowEmpty: true, want: false, opts: "[y]/n"},
		{in: "maybe\n", want: false, opts: "y/[n]"},
	}

	for _, test := range tests {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader(test.in), &out)
		got, err := c.YesNo(context.Background(), "Proceed?", test.allowEmpty)
		require.NoError(t, err)
		assert.Equal(t, test.want, got, "answer %q", test.in)
		assert.Equal(t, "\nProceed? "+test.opts+" ", out.String())
	}
}

func TestConsoleText(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("My Title\r\n\n"), &out)

	got, err := c.Text(context.Background(), "Title: ", "default")
	require.NoError(t, err)
	assert.Equal(t, "My Title", got)

	got, err = c.Text(context.Background(), "Title: ", "default")
	require.NoError(t, err)
	assert.Equal(t, "default", got)
	assert.Equal(t, "Title: Title: ", out.String())
}

func TestConsoleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewConsole(strings.NewReader("y\n"), &bytes.Buffer{})
	_, err := c.YesNo(ctx, "Proceed?", false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfirmOrAbort(t *testing.T) {
	c := NewConsole(strings.NewReader("\ny\n"), &bytes.Buffer{})

	err := ConfirmOrAbort(context.Background(), c, "Continue?", "stopped")
	var abort *AbortError
	require.True(t, errors.As(err, &abort))
	assert.Equal(t, "stopped", abort.Msg)
	assert.ErrorIs(t, err, ErrUserAborted)

	assert.NoError(t, ConfirmOrAbort(context.Background(), c, "Continue?", "stopped"))
}

// host answers dialog requests from its own goroutine, as a UI event loop
// would.
type host struct {
	mu     sync.Mutex
	seen   []string
	answer func(*Request)
}

func (h *host) request(r *Request) {
	h.mu.Lock()
	h.seen = append(h.seen, r.Msg)
	h.mu.Unlock()
	go h.answer(r)
}

func TestDialog(t *testing.T) {
	h := &host{answer: func(r *Request) {
		switch r.Kind {
		case KindYesNo:
			r.Confirm(r.Msg == "yes?")
		case KindText:
			r.Submit("typed")
		}
	}}
	d := NewDialog(h.request)
	ctx := context.Background()

	ok, err := d.YesNo(ctx, "yes?", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.YesNo(ctx, "no?", true)
	require.NoError(t, err)
	assert.False(t, ok)

	s, err := d.Text(ctx, "text?", "def")
	require.NoError(t, err)
	assert.Equal(t, "typed", s)

	assert.Equal(t, []string{"yes?", "no?", "text?"}, h.seen)
}

func TestDialogCancelledRequest(t *testing.T) {
	d := NewDialog((&host{answer: (*Request).Cancel}).request)
	ctx := context.Background()

	ok, err := d.YesNo(ctx, "q", true)
	require.NoError(t, err)
	assert.False(t, ok)

	s, err := d.Text(ctx, "q", "def")
	require.NoError(t, err)
	assert.Equal(t, "def", s)
}

func TestDialogOnlyFirstReplyCounts(t *testing.T) {
	d := NewDialog((&host{answer: func(r *Request) {
		r.Submit("first")
		r.Submit("second")
		r.Cancel()
	}}).request)

	s, err := d.Text(context.Background(), "q", "def")
	require.NoError(t, err)
	assert.Equal(t, "first", s)
}

func TestDialogContextDone(t *testing.T) {
	var pending *Request
	d := NewDialog(func(r *Request) { pending = r })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := d.YesNo(ctx, "q", false)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// A late answer from the host does not block.
	pending.Confirm(true)
}

func TestDialogOneOutstanding(t *testing.T) {
	var (
		mu          sync.Mutex
		outstanding int
		maxSeen     int
	)
	d := NewDialog(func(r *Request) {
		mu.Lock()
		outstanding++
		if outstanding > maxSeen {
			maxSeen = outstanding
		}
		mu.Unlock()
		go func() {
			time.Sleep(time.Millisecond)
			mu.Lock()
			outstanding--
			mu.Unlock()
			r.Confirm(true)
		}()
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.YesNo(context.Background(), "q", false)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}
