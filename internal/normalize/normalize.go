// Package normalize post-processes generated timelines to enforce literal
// time and action phrasing.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// Replacement order matters: action phrases rewrite before the vague
// qualifiers so "contacted authorities" is not first mangled by
// "about" → "exactly" style substitutions inside longer phrases.
var replacements = []struct {
	vague    string
	specific string
}{
	{"contacted authorities", "called 911"},
	{"called emergency services", "called 911"},
	{"dialed emergency", "called 911"},
	{"around", "exactly"},
	{"approximately", "exactly"},
	{"about", "exactly"},
}

var exactTimePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}:\d{2}\s*(AM|PM)`),
	regexp.MustCompile(`\d{1,2}\s*(AM|PM)`),
	regexp.MustCompile(`\d{1,2}:\d{2}`),
}

// Normalize rewrites the fixed vague qualifiers and action phrases in a
// generated timeline. Pure text transform, no service calls.
func Normalize(text string) string {
	for _, r := range replacements {
		text = strings.ReplaceAll(text, r.vague, r.specific)
	}
	return text
}

// CheckTimePrecision inspects bullet lines that talk about time and reports
// the ones lacking a literal clock pattern. Advisory only: the caller may
// log the warnings but the text is never rejected or repaired.
func CheckTimePrecision(text string) []string {
	var warnings []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "•") && !strings.HasPrefix(trimmed, "-") {
			continue
		}
		if !mentionsTime(trimmed) {
			continue
		}
		if hasExactTime(trimmed) {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("no explicit HH:MM time: %s", trimmed))
	}
	return warnings
}

func mentionsTime(line string) bool {
	lower := strings.ToLower(line)
	for _, word := range []string{"time", "am", "pm"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func hasExactTime(line string) bool {
	for _, p := range exactTimePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
