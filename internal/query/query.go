// Package query turns skills or a free-text job field into the search
// string sent to a provider.
package query

import (
	"strings"

	"github.com/resumesmartx/resumesmartx/internal/model"
)

// Separator joins extracted skills into one base query.
const Separator = ", "

// Base returns the untruncated query: the non-blank skills joined with
// Separator, or the job field when no skills remain. It returns
// model.ErrEmptyQuery when both are empty.
func Base(skills []string, field string) (string, error) {
	var kept []string
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) > 0 {
		return strings.Join(kept, Separator), nil
	}
	if field = strings.TrimSpace(field); field != "" {
		return field, nil
	}
	return "", model.ErrEmptyQuery
}

// Truncate hard-cuts s to at most max characters. The cut is made on a rune
// boundary so multi-byte characters are never split. max <= 0 disables it.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// Build truncates base to max characters and appends the region qualifier
// verbatim, e.g. Build("Go, SQL", 400, "jobs India") = "Go, SQL jobs India".
func Build(base string, max int, qualifier string) string {
	q := Truncate(strings.TrimSpace(base), max)
	if qualifier == "" {
		return q
	}
	if q == "" {
		return qualifier
	}
	return q + " " + qualifier
}

// Qualifier returns the region qualifier appended to every query.
func Qualifier(region string) string {
	if region == "" {
		return "jobs"
	}
	return "jobs " + region
}
