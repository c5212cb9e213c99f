package comphysearch

import (
	"strconv"
	"strings"
	"unicode"
)

// Anchor creates a URL-safe fragment slug from a heading: lowercased, with
// runs of non-alphanumeric characters collapsed to a single hyphen. This
// matches the IDs Jekyll generates for headings.
func Anchor(heading string) string {
	// Strip wiki-link brackets and inline markdown markers first so
	// "[[Getting Started]]" and "**Bold**" slug cleanly.
	heading = strings.NewReplacer("[[", "", "]]", "", "*", "", "_", "", "`", "").Replace(heading)

	var sb strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(heading) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if !prevHyphen && sb.Len() > 0 {
			sb.WriteRune('-')
			prevHyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// AnchorSequence generates anchors within a single document, suffixing
// duplicates with a numeric counter the way Jekyll does.
type AnchorSequence struct {
	counts map[string]int
}

// Next returns the anchor for the given heading, unique within the
// sequence.
func (s *AnchorSequence) Next(heading string) string {
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	base := Anchor(heading)
	if base == "" {
		return ""
	}
	count, seen := s.counts[base]
	if !seen {
		s.counts[base] = 1
		return base
	}
	s.counts[base] = count + 1
	return base + "-" + strconv.Itoa(count)
}
