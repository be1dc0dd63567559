/*
DESCRIPTION
  rules.go provides ordered regular expression find/replace rules used when
  deriving titles, descriptions and thumbnail filenames.

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

// Package naming derives video titles and thumbnail paths from video
// filenames using prefixes, suffixes and ordered replacement rules.
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ausocean/utils/logging"
)

// TitlePlaceholder may appear in a rule's replacement text, in which case
// it is substituted with the resolved video title before the rule runs.
const TitlePlaceholder = "{{youtube_title}}"

// ErrOddPairs is returned by ParseRules when a pattern has no replacement.
var ErrOddPairs = errors.New("replacement rules must be pattern/replacement pairs")

// Rule is a single find/replace step. Replacement uses regexp expansion
// syntax, so $1 and ${name} refer to submatches.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// NewRule compiles pattern into a Rule.
func NewRule(pattern, replacement string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid replacement pattern %q: %w", pattern, err)
	}
	return Rule{Pattern: re, Replacement: replacement}, nil
}

// ParseRules builds rules from a flat list of alternating patterns and
// replacements, as given on the command line.
func ParseRules(pairs []string) ([]Rule, error) {
	if len(pairs)%2 != 0 {
		return nil, ErrOddPairs
	}
	rules := make([]Rule, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		r, err := NewRule(pairs[i], pairs[i+1])
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// String returns the rule in pattern -> replacement form.
func (r Rule) String() string {
	return r.Pattern.String() + " -> " + r.Replacement
}

// ApplyRules applies rules to s in order. If title is not empty, any
// TitlePlaceholder in a replacement is substituted with title first. Each
// application is logged at debug level.
func ApplyRules(s string, rules []Rule, title string, log logging.Logger) string {
	for _, r := range rules {
		repl := r.Replacement
		if title != "" && strings.Contains(repl, TitlePlaceholder) {
			// Titles are literal text, so protect them from expansion.
			repl = strings.ReplaceAll(repl, TitlePlaceholder, strings.ReplaceAll(title, "$", "$$"))
		}
		log.Debug("applying replacement rule", "pattern", r.Pattern.String(), "replacement", repl)
		s = r.Pattern.ReplaceAllString(s, repl)
	}
	return s
}
