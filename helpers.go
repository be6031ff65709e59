package sitekit

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Slug namespaces. System route keys never use these prefixes, so content
// routes cannot collide with system routes.
const (
	PagePrefix = "page/"
	PostPrefix = "post/"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current Post, posts []Post) []Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// Truncate shortens s to at most max bytes, appending "..." when cut.
// The cut never splits a rune, so the result is always valid UTF-8.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

var timeAgoUnits = []struct {
	label string
	secs  int64
}{
	{"year", 31536000},
	{"month", 2592000},
	{"week", 604800},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
	{"second", 1},
}

// TimeAgo formats how long ago a timestamp was, relative to now.
// The input is an RFC 3339 string, as stored on Page and Post records.
func TimeAgo(stamp string, now time.Time) string {
	then, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return "unknown time"
	}
	diff := int64(now.Sub(then).Seconds())
	if diff < 0 {
		diff = 0
	}
	for _, u := range timeAgoUnits {
		count := diff / u.secs
		if count >= 1 {
			plural := ""
			if count != 1 {
				plural = "s"
			}
			return fmt.Sprintf("%d %s%s ago", count, u.label, plural)
		}
	}
	return "just now"
}
