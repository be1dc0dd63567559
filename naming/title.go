/*
DESCRIPTION
  title.go provides derivation of video titles and thumbnail paths from
  video filenames.

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

package naming

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ausocean/utils/logging"
)

// MaxTitleLength is the length titles are truncated to, leaving headroom
// below the platform limit for manual edits.
const MaxTitleLength = 95

// Ellipsis marks a truncated title.
const Ellipsis = " ..."

// Affix holds the prefix, suffix and rules used to derive a name.
type Affix struct {
	Prefix string
	Suffix string
	Rules  []Rule
}

// apply builds a name from the base of a filename.
func (a Affix) apply(base string, log logging.Logger) string {
	s := a.Prefix + base + a.Suffix
	if len(a.Rules) > 0 {
		log.Info("applying replacement rules", "name", s, "rules", len(a.Rules))
	}
	return ApplyRules(s, a.Rules, "", log)
}

// stem returns the filename of path without its directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DeriveTitle returns the title for the video at path: the filename without
// its extension, with the prefix, suffix and rules of a applied, truncated
// to MaxTitleLength.
func DeriveTitle(path string, a Affix, log logging.Logger) string {
	log.Info("crafting title for video file", "file", path)
	title := a.apply(stem(path), log)
	return Truncate(title, MaxTitleLength, log)
}

// DeriveThumbnailPath returns the path of the thumbnail image for the video
// at path. The candidate name is built as for DeriveTitle, placed in the
// video's directory, and each extension in exts is tried in order. It
// returns the first existing file, or an empty string if none exists.
func DeriveThumbnailPath(path string, a Affix, exts []string, log logging.Logger) string {
	log.Info("determining thumbnail path for video file", "file", path)
	base := filepath.Join(filepath.Dir(path), a.apply(stem(path), log))
	for _, ext := range exts {
		candidate := base + ext
		fi, err := os.Stat(candidate)
		if err == nil && fi.Mode().IsRegular() {
			log.Debug("found thumbnail", "file", candidate)
			return candidate
		}
	}
	log.Debug("no thumbnail found", "base", base, "extensions", exts)
	return ""
}

// Truncate shortens title to at most max characters without splitting a
// word, appending Ellipsis when anything was removed. A title with no
// whitespace in its first max characters is cut at max without a marker.
func Truncate(title string, max int, log logging.Logger) string {
	r := []rune(title)
	log.Debug("truncating title to nearest word", "length", len(r), "max", max)
	if len(r) <= max {
		return title
	}

	cut, ok := cutToWord(r[:max])
	if !ok || len(cut) == 0 {
		return string(r[:max])
	}
	if len(cut)+len(Ellipsis) <= max {
		return string(cut) + Ellipsis
	}

	// Not enough room for the marker; drop another word if possible.
	if max > len(Ellipsis) {
		if shorter, ok := cutToWord(r[:max-len(Ellipsis)]); ok && len(shorter) > 0 {
			return string(shorter) + Ellipsis
		}
	}
	return string(cut)
}

// cutToWord drops the trailing partial word from r, along with the
// whitespace before it. It reports false if r contains no whitespace, in
// which case r is returned unchanged.
func cutToWord(r []rune) ([]rune, bool) {
	i := len(r) - 1
	for i >= 0 && !unicode.IsSpace(r[i]) {
		i--
	}
	if i < 0 {
		return r, false
	}
	for i >= 0 && unicode.IsSpace(r[i]) {
		i--
	}
	return r[:i+1], true
}
