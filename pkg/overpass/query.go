package overpass

import (
	"fmt"
	"regexp"
	"strings"
)

// Area ids in Overpass are derived from the OSM id of the boundary.
const (
	relationAreaOffset = 3600000000
	wayAreaOffset      = 2400000000
	nodeSearchRadius   = 5000
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// areaQuery matches the city name literally: regex metacharacters are
// escaped before the name is embedded in a quoted Overpass string.
func areaQuery(city string) string {
	name := quoteEscaper.Replace(regexp.QuoteMeta(city))
	return fmt.Sprintf(`[out:json][timeout:25];
(
  relation["name"~"%[1]s",i]["place"~"city|town|village"]["admin_level"~"[4-8]"];
  way["name"~"%[1]s",i]["place"~"city|town|village"];
  node["name"~"%[1]s",i]["place"~"city|town|village"];
  relation["name"~"%[1]s",i]["boundary"="administrative"]["admin_level"~"[4-8]"];
);
out center;`, name)
}

// Scope is the filter that restricts a category query to the resolved city.
type Scope string

// scopeFor turns a resolved boundary into a query filter. Relations and
// ways map to their derived area; a bare node is searched by radius.
func scopeFor(e Element) Scope {
	switch e.Type {
	case "relation":
		return Scope(fmt.Sprintf("(area:%d)", relationAreaOffset+e.ID))
	case "way":
		return Scope(fmt.Sprintf("(area:%d)", wayAreaOffset+e.ID))
	}
	if p := coordinates(e); p != nil {
		return Scope(fmt.Sprintf("(around:%d,%g,%g)", nodeSearchRadius, p.Lat, p.Lon))
	}
	return Scope(fmt.Sprintf("(area:%d)", e.ID))
}

// categoryQuery builds a union of filter over kinds within scope.
func categoryQuery(filter string, scope Scope, kinds ...string) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, k := range kinds {
		fmt.Fprintf(&b, "  %s%s%s;\n", k, filter, scope)
	}
	b.WriteString(");\nout center;")
	return b.String()
}
