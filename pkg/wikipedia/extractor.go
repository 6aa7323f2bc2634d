package wikipedia

import (
	"strings"
	"unicode/utf8"

	ac "github.com/petar-dambovaliev/aho-corasick"
)

// minSentenceLength is the rune count a trimmed sentence must exceed to be
// captured.
const minSentenceLength = 20

// Category is a keyword-driven heuristic: every keyword found in the text
// contributes the first sentence mentioning it, up to Limit sentences.
type Category struct {
	Name     string
	Keywords []string
	Limit    int

	matcher ac.AhoCorasick
}

func newCategory(name string, limit int, keywords ...string) *Category {
	builder := ac.NewAhoCorasickBuilder(ac.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
	})
	return &Category{
		Name:     name,
		Keywords: keywords,
		Limit:    limit,
		matcher:  builder.Build(keywords),
	}
}

var (
	activitiesCategory = newCategory("activities", 5,
		"museum", "park", "theater", "concert", "festival", "market",
		"shopping", "nightlife", "entertainment", "sports", "recreation",
		"gallery", "exhibition", "tour", "walking", "cycling",
	)
	cuisineCategory = newCategory("cuisine", 3,
		"cuisine", "food", "restaurant", "dish", "traditional", "local",
		"specialty", "famous", "popular", "dining", "culinary",
	)
	attractionsCategory = newCategory("attractions", 5,
		"landmark", "monument", "building", "church", "cathedral",
		"palace", "castle", "bridge", "tower", "square", "attraction",
		"historic", "famous", "notable", "important",
	)
	safetyCategory = newCategory("safety", 3,
		"crime", "safety", "security", "caution", "warning", "danger",
		"risk", "precaution", "emergency", "police", "health", "medical",
	)
)

// Extract returns, in keyword order, the first qualifying sentence for every
// keyword of the category that occurs in text. The list is capped at Limit
// before duplicates are removed, so two keywords hitting the same sentence
// yield one entry.
func (c *Category) Extract(text string) []string {
	firstSentence := make(map[int]string, len(c.Keywords))
	for _, sentence := range strings.Split(text, ".") {
		trimmed := strings.TrimSpace(sentence)
		if utf8.RuneCountInString(trimmed) <= minSentenceLength {
			continue
		}
		lower := strings.ToLower(trimmed)
		// The matcher only reports non-overlapping hits, so it gates the
		// sentence and every keyword is then checked on its own.
		if len(c.matcher.FindAll(lower)) == 0 {
			continue
		}
		for i, kw := range c.Keywords {
			if _, seen := firstSentence[i]; !seen && strings.Contains(lower, kw) {
				firstSentence[i] = trimmed
			}
		}
		if len(firstSentence) == len(c.Keywords) {
			break
		}
	}

	captured := make([]string, 0, c.Limit)
	for i := range c.Keywords {
		if len(captured) == c.Limit {
			break
		}
		if s, ok := firstSentence[i]; ok {
			captured = append(captured, s)
		}
	}
	return Dedupe(captured)
}

// Extraction groups the four category lists pulled from one text.
type Extraction struct {
	Activities  []string
	Cuisine     []string
	Attractions []string
	Safety      []string
}

type Extractor struct {
	activities  *Category
	cuisine     *Category
	attractions *Category
	safety      *Category
}

func NewExtractor() *Extractor {
	return &Extractor{
		activities:  activitiesCategory,
		cuisine:     cuisineCategory,
		attractions: attractionsCategory,
		safety:      safetyCategory,
	}
}

// Extract runs the four category heuristics over text. Empty lists are a
// valid outcome.
func (e *Extractor) Extract(text string) Extraction {
	return Extraction{
		Activities:  e.activities.Extract(text),
		Cuisine:     e.cuisine.Extract(text),
		Attractions: e.attractions.Extract(text),
		Safety:      e.safety.Extract(text),
	}
}

// Dedupe removes repeated entries keeping the first occurrence. The result is
// never nil.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
