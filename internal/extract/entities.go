// Package extract implements the text scanning passes of the enrichment
// pipeline: entity extraction, host derivation, media bucketing, and the
// legacy HTML text decoder.
package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// The extraction patterns are immutable and shared across all messages;
// regexp.Regexp is safe for concurrent use.
var (
	// spacexPattern matches runs of two or more spaces.
	spacexPattern = regexp.MustCompile("  +")
	// urlPattern: right boundary is set by excluding trailing characters
	// that may not legally end a URL, since most punctuation may appear
	// inside one.
	urlPattern = regexp.MustCompile(`(?:\b|^)(https?://[-A-Za-z0-9+&@#/%?=~_()|!:,.;]*[-A-Za-z0-9+&@#/%=~_()|])`)
	// mentionPattern: left boundary must be a space, an open parenthesis, or
	// the text start, since the @ is not itself a word boundary.
	mentionPattern = regexp.MustCompile(`(?:[ (]|^)(@..*?)(?:\b|$)`)
	// hashtagPattern: same boundary rules as mentions.
	hashtagPattern = regexp.MustCompile(`(?:[ (]|^)(#..*?)(?:\b|$)`)
)

// Entities is the result of the three ordered extraction passes over a
// message text.
type Entities struct {
	// Links, Mentions, Hashtags in first-occurrence order. Mentions and
	// hashtags are stored without their marker character; hashtags are
	// lowercased.
	Links    []string
	Mentions []string
	Hashtags []string

	// Residual text lengths in runes, measured after each pass. Always
	// WithoutLinks >= WithoutLinksUsers >= WithoutLinksUsersHashtags >= 0.
	WithoutLinks              int
	WithoutLinksUsers         int
	WithoutLinksUsersHashtags int
}

// Extract runs the three passes over text: links first, then mentions, then
// hashtags. The order matters: removing links before scanning for mentions
// keeps "@" characters inside URLs from being read as mentions, and removing
// mentions before hashtags avoids cross-matching. Each pass removes its
// matches from the working text, collapses space runs, and records the
// remaining length.
func Extract(text string) Entities {
	var e Entities

	t, links := extractPass(text, urlPattern)
	e.WithoutLinks = utf8.RuneCountInString(t)

	t, users := extractPass(t, mentionPattern)
	e.WithoutLinksUsers = utf8.RuneCountInString(t)

	t, tags := extractPass(t, hashtagPattern)
	e.WithoutLinksUsersHashtags = utf8.RuneCountInString(t)

	e.Links = links
	e.Mentions = make([]string, len(users))
	for i, u := range users {
		e.Mentions[i] = u[1:] // strip the @
	}
	e.Hashtags = make([]string, len(tags))
	for i, h := range tags {
		e.Hashtags[i] = strings.ToLower(h[1:]) // strip the #
	}
	return e
}

// extractPass collects group 1 of every non-overlapping match, removes each
// matched string from the text, and normalizes whitespace.
func extractPass(text string, p *regexp.Regexp) (string, []string) {
	var found []string
	for _, m := range p.FindAllStringSubmatch(text, -1) {
		found = append(found, m[1])
	}
	for _, f := range found {
		if i := strings.Index(text, f); i >= 0 {
			text = text[:i] + text[i+len(f):]
		}
	}
	text = strings.TrimSpace(spacexPattern.ReplaceAllString(text, " "))
	return text, found
}

// Hosts derives lowercase host names from links, preserving first-seen order
// and dropping duplicates. Links that do not parse as URLs are skipped
// silently.
func Hosts(links []string) []string {
	hosts := make([]string, 0, len(links))
	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		hosts = append(hosts, host)
	}
	return hosts
}
