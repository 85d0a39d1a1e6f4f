// Package parser turns user and server supplied text into usable values:
// HTML descriptions into plain text and reward QR links into claims.
package parser

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrEmptyLink      = errors.New("claim link is empty")
	ErrIncompleteLink = errors.New("claim link has no event id or token")
)

// PlainText strips markup from an HTML fragment. Line breaks and block
// elements become newlines, runs of spaces collapse, blank lines are dropped.
func PlainText(fragment string) (string, error) {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("• ")
	})

	return collapse(doc.Text()), nil
}

// MustPlainText is PlainText that falls back to the raw input.
func MustPlainText(fragment string) string {
	text, err := PlainText(fragment)
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return text
}

func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Claim is an event id and one-time token read from a reward QR code.
type Claim struct {
	EventID string
	Token   string
}

// ClaimLink extracts the claim from the link a reward QR code decodes to,
// e.g. https://pulse.example/claim?eventId=E&token=T. The short aliases
// "event" and "t" are accepted too.
func ClaimLink(link string) (Claim, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return Claim{}, ErrEmptyLink
	}

	u, err := url.Parse(link)
	if err != nil {
		return Claim{}, fmt.Errorf("failed to parse claim link %q: %w", link, err)
	}

	q := u.Query()
	claim := Claim{
		EventID: firstOf(q, "eventId", "event"),
		Token:   firstOf(q, "token", "t"),
	}
	if claim.EventID == "" || claim.Token == "" {
		return Claim{}, ErrIncompleteLink
	}

	return claim, nil
}

func firstOf(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}
