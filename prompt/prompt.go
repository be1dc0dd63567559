/*
DESCRIPTION
  prompt.go defines the confirmation gate through which the upload pipeline
  asks the operator questions.

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

// Package prompt provides yes/no and free text prompts, answered either on
// a console or through an asynchronous dialog host such as a terminal UI.
package prompt

import (
	"context"
	"errors"
)

// ErrUserAborted is wrapped by AbortError.
var ErrUserAborted = errors.New("user aborted")

// AbortError is returned when the operator declines to continue.
type AbortError struct {
	Msg string
}

func (e *AbortError) Error() string { return e.Msg }

func (e *AbortError) Unwrap() error { return ErrUserAborted }

// Gate asks the operator questions and blocks until they answer.
type Gate interface {
	// YesNo asks a yes/no question. If allowEmpty is true an empty answer
	// counts as yes.
	YesNo(ctx context.Context, msg string, allowEmpty bool) (bool, error)

	// Text asks for free text, returning def if the answer is empty.
	Text(ctx context.Context, msg, def string) (string, error)
}

// ConfirmOrAbort asks msg as a yes/no question, returning an *AbortError
// carrying abortMsg unless the answer is yes.
func ConfirmOrAbort(ctx context.Context, g Gate, msg, abortMsg string) error {
	ok, err := g.YesNo(ctx, msg, false)
	if err != nil {
		return err
	}
	if !ok {
		return &AbortError{Msg: abortMsg}
	}
	return nil
}
