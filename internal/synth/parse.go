package synth

import (
	"strings"
	"unicode"

	"cityinfo/internal/models"
)

// ParseSections splits generated text on the six headings. A heading is a
// line whose letters, once decoration is stripped, equal a section title.
// Text before the first heading is dropped. A repeated heading keeps the
// first occurrence.
func ParseSections(text string) map[models.SectionKind]string {
	out := make(map[models.SectionKind]string)
	var (
		current models.SectionKind
		inside  bool
		body    []string
	)
	flush := func() {
		if !inside {
			return
		}
		if _, seen := out[current]; !seen {
			out[current] = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = body[:0]
	}
	for _, line := range strings.Split(text, "\n") {
		if kind, ok := headingKind(line); ok {
			flush()
			current, inside = kind, true
			continue
		}
		if inside {
			body = append(body, line)
		}
	}
	flush()
	return out
}

var titleKinds = func() map[string]models.SectionKind {
	m := make(map[string]models.SectionKind, len(models.SectionOrder))
	for _, k := range models.SectionOrder {
		m[normalizeHeading(k.Title())] = k
	}
	return m
}()

func headingKind(line string) (models.SectionKind, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "• ") {
		return 0, false
	}
	key := normalizeHeading(line)
	if key == "" {
		return 0, false
	}
	k, ok := titleKinds[key]
	return k, ok
}

// normalizeHeading keeps letters and single spaces, lowercased.
func normalizeHeading(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}
