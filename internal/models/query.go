package models

import (
	"fmt"
	"strings"
)

// CityQuery is the immutable input handed to every source adapter during a
// single pipeline run.
type CityQuery struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// NewCityQuery trims both parts and rejects an empty city name.
func NewCityQuery(city, country string) (CityQuery, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return CityQuery{}, fmt.Errorf("%w: city name is required", ErrInvalidQuery)
	}
	return CityQuery{City: city, Country: strings.TrimSpace(country)}, nil
}

// HasCountry reports whether a country hint was supplied.
func (q CityQuery) HasCountry() bool {
	return q.Country != ""
}

// String renders the query the way it is shown to users and search engines,
// e.g. "Paris, France".
func (q CityQuery) String() string {
	if q.HasCountry() {
		return q.City + ", " + q.Country
	}
	return q.City
}
