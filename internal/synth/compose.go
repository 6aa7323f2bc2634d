package synth

import (
	"fmt"
	"strconv"
	"strings"

	"cityinfo/internal/models"
)

const maxNamedPlaces = 5

// Composer writes a section from the collected results alone. Output is a
// pure function of the state, and never contains an adapter error string.
type Composer struct{}

func (Composer) Compose(kind models.SectionKind, state *models.PipelineState) string {
	v := newView(state)
	switch kind {
	case models.SectionOverview:
		return v.overview()
	case models.SectionWeather:
		return v.weather()
	case models.SectionActivities:
		return v.activities()
	case models.SectionFood:
		return v.food()
	case models.SectionAttractions:
		return v.attractions()
	case models.SectionConcerns:
		return v.concerns()
	}
	return ""
}

// view flattens the state so that failed sources read as empty.
type view struct {
	city      string
	country   string
	wiki      models.WikipediaResult
	geo       models.GeoNamesResult
	osm       models.OSMResult
	wx        models.WeatherResult
	weatherOK bool
}

func newView(s *models.PipelineState) view {
	v := view{city: s.Query.City, country: s.Query.Country, osm: models.NewOSMResult()}
	if s.Wikipedia != nil {
		v.wiki = *s.Wikipedia
	}
	if s.GeoNames != nil {
		v.geo = *s.GeoNames
		if v.geo.Name != nil && *v.geo.Name != "" {
			v.city = *v.geo.Name
		}
		if v.geo.Country != nil && *v.geo.Country != "" {
			v.country = *v.geo.Country
		}
	}
	if s.OSM != nil {
		v.osm = *s.OSM
	}
	if s.Weather != nil {
		v.wx = *s.Weather
		v.weatherOK = s.Weather.Error == "" && s.Weather.Temperature != nil
	}
	return v
}

func (v view) place() string {
	if v.country != "" {
		return v.city + ", " + v.country
	}
	return v.city
}

func (v view) overview() string {
	var lines []string
	if s := strings.TrimSpace(v.wiki.Summary); s != "" {
		lines = append(lines, s)
	} else {
		lines = append(lines, fmt.Sprintf("%s is a city worth getting to know before you arrive.", v.place()))
	}
	var facts []string
	if v.geo.AdminDivision != nil && *v.geo.AdminDivision != "" {
		facts = append(facts, "Region: "+*v.geo.AdminDivision)
	}
	if v.country != "" {
		facts = append(facts, "Country: "+v.country)
	}
	if v.geo.Population != nil && *v.geo.Population > 0 {
		facts = append(facts, "Population: about "+groupDigits(*v.geo.Population))
	}
	if v.geo.Location.Complete() {
		facts = append(facts, fmt.Sprintf("Coordinates: %.4f, %.4f", *v.geo.Location.Lat, *v.geo.Location.Lon))
	}
	if v.geo.Elevation != nil {
		facts = append(facts, fmt.Sprintf("Elevation: %d m", *v.geo.Elevation))
	}
	if v.geo.Timezone != nil && *v.geo.Timezone != "" {
		facts = append(facts, "Time zone: "+*v.geo.Timezone)
	}
	for _, f := range facts {
		lines = append(lines, "- "+f)
	}
	return strings.Join(lines, "\n")
}

func (v view) weather() string {
	if !v.weatherOK {
		return strings.Join([]string{
			fmt.Sprintf("- Live conditions for %s are not available right now.", v.city),
			"- Check a local forecast shortly before you go and pack layers for changing conditions.",
		}, "\n")
	}
	w := v.wx
	var lines []string
	now := "- Currently " + formatFloat(*w.Temperature) + "°C"
	if w.Conditions != nil {
		now += ", " + strings.ToLower(*w.Conditions)
	}
	if w.FeelsLike != nil {
		now += " (feels like " + formatFloat(*w.FeelsLike) + "°C)"
	}
	lines = append(lines, now)
	if w.Humidity != nil {
		lines = append(lines, "- Humidity: "+formatFloat(*w.Humidity)+"%")
	}
	if w.WindSpeed != nil {
		wind := "- Wind: " + formatFloat(*w.WindSpeed) + " km/h"
		if w.WindGust != nil {
			wind += ", gusts up to " + formatFloat(*w.WindGust) + " km/h"
		}
		lines = append(lines, wind)
	}
	return strings.Join(lines, "\n")
}

func (v view) activities() string {
	lines := bullets(v.wiki.Activities)
	if names := poiNames(v.osm.Parks); len(names) > 0 {
		lines = append(lines, "- Parks to unwind in: "+strings.Join(names, ", "))
	}
	if names := poiNames(v.osm.Leisure); len(names) > 0 {
		lines = append(lines, "- Sports and leisure: "+strings.Join(names, ", "))
	}
	if len(lines) == 0 {
		lines = []string{
			fmt.Sprintf("- Explore %s on foot, starting from the historic centre.", v.city),
			"- Visit a local market and the main public squares.",
			"- Ask locals about seasonal festivals and events.",
		}
	}
	return strings.Join(lines, "\n")
}

func (v view) food() string {
	lines := bullets(v.wiki.Cuisine)
	if len(v.osm.Restaurants) > 0 {
		var named []string
		for _, r := range v.osm.Restaurants {
			if len(named) == maxNamedPlaces {
				break
			}
			if r.Name == "" || strings.HasPrefix(r.Name, "Unknown") {
				continue
			}
			if r.Type != nil && *r.Type != "restaurant" {
				named = append(named, fmt.Sprintf("%s (%s)", r.Name, strings.ReplaceAll(*r.Type, "_", " ")))
			} else {
				named = append(named, r.Name)
			}
		}
		if len(named) > 0 {
			lines = append(lines, "- Restaurants to try: "+strings.Join(named, ", "))
		}
	}
	if len(lines) == 0 {
		lines = []string{
			fmt.Sprintf("- Try the regional specialities of %s at neighbourhood restaurants.", v.place()),
			"- Markets and street food stalls are a good way to sample local dishes.",
		}
	}
	return strings.Join(lines, "\n")
}

func (v view) attractions() string {
	lines := bullets(v.wiki.Attractions)
	if names := poiNames(v.osm.Museums); len(names) > 0 {
		lines = append(lines, "- Museums: "+strings.Join(names, ", "))
	}
	if len(lines) == 0 {
		lines = []string{
			fmt.Sprintf("- See the landmark buildings and monuments of central %s.", v.city),
			"- Look for viewpoints, old town districts and the main cathedral or temple.",
		}
	}
	return strings.Join(lines, "\n")
}

func (v view) concerns() string {
	lines := bullets(v.wiki.Safety)
	if v.weatherOK {
		t := *v.wx.Temperature
		switch {
		case t >= 30:
			lines = append(lines, "- It is hot: stay hydrated and avoid the midday sun.")
		case t <= 0:
			lines = append(lines, "- Temperatures are below freezing: watch for ice and dress warmly.")
		}
		if v.wx.WindGust != nil && *v.wx.WindGust >= 60 {
			lines = append(lines, "- Strong gusts are expected: take care outdoors.")
		}
	}
	lines = append(lines,
		"- Keep an eye on your belongings in crowded places and on public transport.",
		"- Keep copies of your travel documents and know the local emergency number.",
	)
	return strings.Join(lines, "\n")
}

func bullets(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, "- "+it+".")
		}
	}
	return out
}

func poiNames(pois []models.POI) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, p := range pois {
		if len(names) == maxNamedPlaces {
			break
		}
		if p.Name == "" || strings.HasPrefix(p.Name, "Unknown") {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		names = append(names, p.Name)
	}
	return names
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
