// Package listcodec converts long free-text fields between editable plain text
// and the <li>-tagged form they are stored in.
package listcodec

import (
	"regexp"
	"strings"
)

const (
	openTag  = "<li>"
	closeTag = "</li>"
)

var (
	anyTag        = regexp.MustCompile(`(?i)</?li>`)
	openingTag    = regexp.MustCompile(`(?i)<li>`)
	closingTag    = regexp.MustCompile(`(?i)</li>`)
	repeatedOpen  = regexp.MustCompile(`(?i)(?:<li>\s*){2,3}`)
	repeatedClose = regexp.MustCompile(`(?i)(?:</li>\s*){2,3}`)
)

// DisplayLine is one rendered line of a stored list field.
type DisplayLine struct {
	Text   string `json:"text"`
	Quoted bool   `json:"quoted"`
}

// IsTagged reports whether s already carries list-item tags.
func IsTagged(s string) bool {
	return openingTag.MatchString(s) || closingTag.MatchString(s)
}

// ToStorage wraps every non-empty line of text in exactly one <li> pair.
// Already tagged input is repaired: doubled or tripled tags left by earlier
// edits collapse to one before the fragments are re-wrapped.
func ToStorage(text string) string {
	var fragments []string
	if IsTagged(text) {
		repaired := repeatedOpen.ReplaceAllString(text, openTag)
		repaired = repeatedClose.ReplaceAllString(repaired, closeTag)
		fragments = anyTag.Split(repaired, -1)
	} else {
		fragments = strings.Split(text, "\n")
	}

	var b strings.Builder
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		b.WriteString(openTag)
		b.WriteString(fragment)
		b.WriteString(closeTag)
	}
	return b.String()
}

// ToEditableText turns a stored value back into newline separated plain text.
// Untagged values are returned unchanged.
func ToEditableText(stored string) string {
	if !IsTagged(stored) {
		return stored
	}
	return strings.Join(lines(stored), "\n")
}

// ToDisplayLines splits a stored value into display lines, flagging lines that start with ">".
func ToDisplayLines(stored string) []DisplayLine {
	var raw []string
	if IsTagged(stored) {
		raw = lines(stored)
	} else {
		raw = splitTrimmed(stored)
	}
	out := make([]DisplayLine, 0, len(raw))
	for _, line := range raw {
		out = append(out, DisplayLine{Text: line, Quoted: strings.HasPrefix(line, ">")})
	}
	return out
}

func lines(stored string) []string {
	detagged := openingTag.ReplaceAllString(stored, "")
	detagged = closingTag.ReplaceAllString(detagged, "\n")
	return splitTrimmed(detagged)
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
