/*
DESCRIPTION
  console.go provides a Gate that asks questions on a line based console.

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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Console is a Gate that writes prompts to w and reads one line of answer
// from r. Answers are not validated; anything other than an accepted answer
// is taken as no.
type Console struct {
	mu sync.Mutex
	r  *bufio.Reader
	w  io.Writer
}

// NewConsole returns a Console reading from r and writing to w. Nil values
// default to stdin and stdout.
func NewConsole(r io.Reader, w io.Writer) *Console {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &Console{r: bufio.NewReader(r), w: w}
}

// YesNo implements Gate.
func (c *Console) YesNo(ctx context.Context, msg string, allowEmpty bool) (bool, error) {
	opts := "y/[n]"
	if allowEmpty {
		opts = "[y]/n"
	}
	ans, err := c.ask(ctx, fmt.Sprintf("\n%s %s ", msg, opts))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(ans)) {
	case "y", "yes":
		return true, nil
	case "":
		return allowEmpty, nil
	default:
		return false, nil
	}
}

// Text implements Gate. The line is returned as typed, except that an
// empty line selects def as it does for a Dialog.
func (c *Console) Text(ctx context.Context, msg, def string) (string, error) {
	ans, err := c.ask(ctx, msg)
	if err != nil {
		return "", err
	}
	if ans == "" {
		return def, nil
	}
	return ans, nil
}

// ask writes msg and reads a line, without its line ending. End of input
// is an empty answer.
func (c *Console) ask(ctx context.Context, msg string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := io.WriteString(c.w, msg); err != nil {
		return "", fmt.Errorf("could not write prompt: %w", err)
	}

	line, err := c.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("could not read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
