package models

import "time"

// Source identifiers carried by every result.
const (
	SourceWikipedia     = "Wikipedia"
	SourceGeoNames      = "GeoNames"
	SourceOpenStreetMap = "OpenStreetMap"
	SourceWeather       = "Weather"
)

// WikipediaResult is the encyclopedia adapter output. Summary is always
// present (empty when unavailable) and the four category lists are never nil.
type WikipediaResult struct {
	Source      string   `json:"source"`
	PageTitle   *string  `json:"page_title,omitempty"`
	Summary     string   `json:"summary"`
	Activities  []string `json:"activities"`
	Cuisine     []string `json:"cuisine"`
	Attractions []string `json:"attractions"`
	Safety      []string `json:"safety"`
	Error       string   `json:"error,omitempty"`
}

// NewWikipediaFailure builds the empty result returned on any failure path.
func NewWikipediaFailure(msg string) WikipediaResult {
	return WikipediaResult{
		Source:      SourceWikipedia,
		Activities:  []string{},
		Cuisine:     []string{},
		Attractions: []string{},
		Safety:      []string{},
		Error:       msg,
	}
}

// GeoNamesResult is the geographic registry adapter output.
type GeoNamesResult struct {
	Source        string   `json:"source"`
	GeonameID     *int64   `json:"geoname_id,omitempty"`
	Name          *string  `json:"name,omitempty"`
	ASCIIName     *string  `json:"ascii_name,omitempty"`
	Location      Location `json:"location"`
	Country       *string  `json:"country,omitempty"`
	CountryCode   *string  `json:"country_code,omitempty"`
	AdminDivision *string  `json:"admin_division,omitempty"`
	Population    *int64   `json:"population,omitempty"`
	Elevation     *int64   `json:"elevation,omitempty"`
	Timezone      *string  `json:"timezone,omitempty"`
	FeatureClass  *string  `json:"feature_class,omitempty"`
	FeatureCode   *string  `json:"feature_code,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// CityArea is the resolved map area that scopes the POI queries.
type CityArea struct {
	AreaID     *int64  `json:"area_id,omitempty"`
	Name       *string `json:"name,omitempty"`
	PlaceType  *string `json:"place_type,omitempty"`
	Population *string `json:"population,omitempty"`
}

// POI is a normalized point of interest.
type POI struct {
	Name         string       `json:"name"`
	Type         *string      `json:"type,omitempty"`
	Address      *string      `json:"address,omitempty"`
	Phone        *string      `json:"phone,omitempty"`
	Website      *string      `json:"website,omitempty"`
	OpeningHours *string      `json:"opening_hours,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// OSMResult is the places index adapter output. Cultural, Historical and
// Markets are part of the contract but no query populates them yet.
type OSMResult struct {
	Source      string    `json:"source"`
	CityArea    *CityArea `json:"city_area,omitempty"`
	Restaurants []POI     `json:"restaurants"`
	Museums     []POI     `json:"museums"`
	Parks       []POI     `json:"parks"`
	Leisure     []POI     `json:"leisure"`
	Cultural    []POI     `json:"cultural"`
	Historical  []POI     `json:"historical"`
	Markets     []POI     `json:"markets"`
	Error       string    `json:"error,omitempty"`
}

// NewOSMResult returns a result with every category initialised to an empty
// list.
func NewOSMResult() OSMResult {
	return OSMResult{
		Source:      SourceOpenStreetMap,
		Restaurants: []POI{},
		Museums:     []POI{},
		Parks:       []POI{},
		Leisure:     []POI{},
		Cultural:    []POI{},
		Historical:  []POI{},
		Markets:     []POI{},
	}
}

// WeatherResult is a flat current-conditions record.
type WeatherResult struct {
	Source      string     `json:"source"`
	Location    *string    `json:"location,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
	FeelsLike   *float64   `json:"feels_like,omitempty"`
	Humidity    *float64   `json:"humidity,omitempty"`
	WindSpeed   *float64   `json:"wind_speed,omitempty"`
	WindGust    *float64   `json:"wind_gust,omitempty"`
	Conditions  *string    `json:"conditions,omitempty"`
	ObservedAt  *time.Time `json:"observed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}
