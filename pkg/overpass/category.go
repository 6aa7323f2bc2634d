package overpass

import "cityinfo/internal/models"

// category describes one paced POI query.
type category struct {
	name        string
	filter      string
	kinds       []string
	limit       int
	defaultName string
	// typeTag names the tag used for POI.Type; empty uses fixedType.
	typeTag   string
	fixedType string
	// contact adds phone, website and opening hours.
	contact bool
}

var categories = []category{
	{
		name:        "restaurants",
		filter:      `["amenity"="restaurant"]`,
		kinds:       []string{"node", "way"},
		limit:       20,
		defaultName: "Unknown",
		typeTag:     "cuisine",
		fixedType:   "restaurant",
		contact:     true,
	},
	{
		name:        "museums",
		filter:      `["tourism"="museum"]`,
		kinds:       []string{"node", "way"},
		limit:       15,
		defaultName: "Unknown Museum",
		fixedType:   "museum",
		contact:     true,
	},
	{
		name:        "parks",
		filter:      `["leisure"="park"]`,
		kinds:       []string{"node", "way", "relation"},
		limit:       15,
		defaultName: "Unknown Park",
		fixedType:   "park",
	},
	{
		name:        "leisure",
		filter:      `["leisure"~"sports_centre|swimming_pool|fitness_centre|golf_course|stadium"]`,
		kinds:       []string{"node", "way"},
		limit:       10,
		defaultName: "Unknown Facility",
		typeTag:     "leisure",
		fixedType:   "leisure",
		contact:     true,
	},
}

func (c category) toPOIs(elements []Element) []models.POI {
	if len(elements) > c.limit {
		elements = elements[:c.limit]
	}
	pois := make([]models.POI, 0, len(elements))
	for _, e := range elements {
		pois = append(pois, c.toPOI(e))
	}
	return pois
}

func (c category) toPOI(e Element) models.POI {
	poi := models.POI{
		Name:        c.defaultName,
		Type:        models.Ptr(c.fixedType),
		Address:     e.tag("addr:street"),
		Coordinates: coordinates(e),
	}
	if name := e.tag("name"); name != nil {
		poi.Name = *name
	}
	if c.typeTag != "" {
		if t := e.tag(c.typeTag); t != nil {
			poi.Type = t
		}
	}
	if c.contact {
		poi.Phone = e.tag("phone")
		poi.Website = e.tag("website")
		poi.OpeningHours = e.tag("opening_hours")
	}
	return poi
}

func coordinates(e Element) *models.Coordinates {
	if e.Lat != nil && e.Lon != nil {
		return &models.Coordinates{Lat: *e.Lat, Lon: *e.Lon}
	}
	if e.Center != nil {
		return &models.Coordinates{Lat: e.Center.Lat, Lon: e.Center.Lon}
	}
	return nil
}
