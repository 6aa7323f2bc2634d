package geonames

// SearchResponse is the searchJSON envelope.
type SearchResponse struct {
	TotalResultsCount int       `json:"totalResultsCount"`
	Geonames          []Geoname `json:"geonames"`
	Status            *Status   `json:"status,omitempty"`
}

// Status is how GeoNames reports errors inside a 200 response (bad
// username, exhausted credits).
type Status struct {
	Message string `json:"message"`
	Value   int    `json:"value"`
}

// Timezone is the nested timezone object of a detail lookup.
type Timezone struct {
	TimeZoneID string  `json:"timeZoneId"`
	GMTOffset  float64 `json:"gmtOffset"`
	DSTOffset  float64 `json:"dstOffset"`
}

// Geoname is a search candidate or a detail record. Every field is optional
// because the two endpoints return different subsets; pointers distinguish
// "absent" from zero so enrichment can be merged key by key.
type Geoname struct {
	GeonameID   *int64    `json:"geonameId,omitempty"`
	Name        *string   `json:"name,omitempty"`
	ASCIIName   *string   `json:"asciiName,omitempty"`
	Lat         *string   `json:"lat,omitempty"`
	Lng         *string   `json:"lng,omitempty"`
	CountryName *string   `json:"countryName,omitempty"`
	CountryCode *string   `json:"countryCode,omitempty"`
	AdminName1  *string   `json:"adminName1,omitempty"`
	Population  *int64    `json:"population,omitempty"`
	Elevation   *float64  `json:"elevation,omitempty"`
	SRTM3       *int64    `json:"srtm3,omitempty"`
	Timezone    *Timezone `json:"timezone,omitempty"`
	FCL         *string   `json:"fcl,omitempty"`
	FCode       *string   `json:"fcode,omitempty"`
}

func (g Geoname) population() int64 {
	if g.Population == nil {
		return 0
	}
	return *g.Population
}

// Merge overlays every field present in enrichment on top of g. Enrichment
// wins on conflicting keys.
func (g Geoname) Merge(enrichment Geoname) Geoname {
	out := g
	if enrichment.GeonameID != nil {
		out.GeonameID = enrichment.GeonameID
	}
	if enrichment.Name != nil {
		out.Name = enrichment.Name
	}
	if enrichment.ASCIIName != nil {
		out.ASCIIName = enrichment.ASCIIName
	}
	if enrichment.Lat != nil {
		out.Lat = enrichment.Lat
	}
	if enrichment.Lng != nil {
		out.Lng = enrichment.Lng
	}
	if enrichment.CountryName != nil {
		out.CountryName = enrichment.CountryName
	}
	if enrichment.CountryCode != nil {
		out.CountryCode = enrichment.CountryCode
	}
	if enrichment.AdminName1 != nil {
		out.AdminName1 = enrichment.AdminName1
	}
	if enrichment.Population != nil {
		out.Population = enrichment.Population
	}
	if enrichment.Elevation != nil {
		out.Elevation = enrichment.Elevation
	}
	if enrichment.SRTM3 != nil {
		out.SRTM3 = enrichment.SRTM3
	}
	if enrichment.Timezone != nil {
		out.Timezone = enrichment.Timezone
	}
	if enrichment.FCL != nil {
		out.FCL = enrichment.FCL
	}
	if enrichment.FCode != nil {
		out.FCode = enrichment.FCode
	}
	return out
}
