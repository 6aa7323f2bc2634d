package models

import "strings"

// SectionKind identifies one of the six fixed profile sections.
type SectionKind int

const (
	SectionOverview SectionKind = iota
	SectionWeather
	SectionActivities
	SectionFood
	SectionAttractions
	SectionConcerns
)

// SectionOrder is the only order in which sections are ever rendered.
var SectionOrder = []SectionKind{
	SectionOverview,
	SectionWeather,
	SectionActivities,
	SectionFood,
	SectionAttractions,
	SectionConcerns,
}

var sectionHeadings = map[SectionKind]string{
	SectionOverview:    "🏙️ **City Overview**",
	SectionWeather:     "☀️ **Weather**",
	SectionActivities:  "🎯 **Activities**",
	SectionFood:        "🍽️ **Good Food**",
	SectionAttractions: "📸 **Attractions**",
	SectionConcerns:    "⚠️ **Things to Worry About**",
}

var sectionTitles = map[SectionKind]string{
	SectionOverview:    "City Overview",
	SectionWeather:     "Weather",
	SectionActivities:  "Activities",
	SectionFood:        "Good Food",
	SectionAttractions: "Attractions",
	SectionConcerns:    "Things to Worry About",
}

// Heading is the exact marker line that introduces the section in a document.
func (k SectionKind) Heading() string {
	return sectionHeadings[k]
}

// Title is the plain label without decoration.
func (k SectionKind) Title() string {
	return sectionTitles[k]
}

func (k SectionKind) String() string {
	return k.Title()
}

// Section is one labelled block of the profile.
type Section struct {
	Kind SectionKind `json:"kind"`
	Body string      `json:"body"`
}

// CityProfile is the only externally visible artifact of a run.
type CityProfile struct {
	City     string    `json:"city"`
	Country  string    `json:"country,omitempty"`
	Sections []Section `json:"sections"`
	// Generated is true when the text generator supplied every section.
	Generated bool `json:"generated"`
}

// Section returns the body for kind, or "" when it is missing.
func (p *CityProfile) Section(kind SectionKind) string {
	for _, s := range p.Sections {
		if s.Kind == kind {
			return s.Body
		}
	}
	return ""
}

// Document renders the six sections in fixed order.
func (p *CityProfile) Document() string {
	var b strings.Builder
	for i, kind := range SectionOrder {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(kind.Heading())
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(p.Section(kind)))
	}
	return b.String()
}
