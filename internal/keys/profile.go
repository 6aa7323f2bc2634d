package keys

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"cityinfo/internal/models"
)

// sanitizeKey lowercases the string, turns spaces into hyphens and drops
// anything that is not a letter, digit or hyphen.
func sanitizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('-')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

// ProfilePrefix is the object prefix holding every run for q.
func ProfilePrefix(q models.CityQuery) string {
	return fmt.Sprintf("profiles/%s/%s/", sanitizeKey(q.Country), sanitizeKey(q.City))
}

// Profile returns the canonical object key for one run.
func Profile(q models.CityQuery, runID uuid.UUID) string {
	return ProfilePrefix(q) + runID.String() + ".json"
}
