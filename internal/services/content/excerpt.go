package content

import (
	"regexp"
	"strings"
)

// DefaultExcerptLength bounds generated excerpts, counted in characters, not
// bytes.
const DefaultExcerptLength = 150

var (
	reHeading        = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reBoldStars      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore = regexp.MustCompile(`__(.+?)__`)
	reItalicStar     = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnder    = regexp.MustCompile(`_([^_]+)_`)
	reInlineCode     = regexp.MustCompile("`([^`]+)`")
	reHTMLTag        = regexp.MustCompile(`<[^>]*>`)
	reWhitespace     = regexp.MustCompile(`\s+`)
)

// GenerateExcerpt strips markdown and HTML markers from content and bounds
// the result to maxLength characters, appending an ellipsis when truncated.
// Inputs already within the bound come back verbatim (modulo stripping).
func GenerateExcerpt(content string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}
	s := reHeading.ReplaceAllString(content, "")
	s = reBoldStars.ReplaceAllString(s, "$1")
	s = reBoldUnderscore.ReplaceAllString(s, "$1")
	s = reItalicStar.ReplaceAllString(s, "$1")
	s = reItalicUnder.ReplaceAllString(s, "$1")
	s = reInlineCode.ReplaceAllString(s, "$1")
	s = reHTMLTag.ReplaceAllString(s, "")
	s = strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))

	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + "..."
}
