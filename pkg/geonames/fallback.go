package geonames

import (
	"strings"

	"cityinfo/internal/models"
)

type fallbackCity struct {
	name          string
	lat, lon      float64
	country       string
	countryCode   string
	population    int64
	timezone      string
	adminDivision string
}

// fallbackCities backs the adapter when the registry cannot be reached.
// Keys are lowercase city names.
var fallbackCities = map[string]fallbackCity{
	"tokyo":    {"Tokyo", 35.6762, 139.6503, "Japan", "JP", 14000000, "Asia/Tokyo", "Tokyo Metropolis"},
	"london":   {"London", 51.5074, -0.1278, "United Kingdom", "GB", 9000000, "Europe/London", "Greater London"},
	"paris":    {"Paris", 48.8566, 2.3522, "France", "FR", 2200000, "Europe/Paris", "Île-de-France"},
	"new york": {"New York", 40.7128, -74.0060, "United States", "US", 8400000, "America/New_York", "New York"},
	"beirut":   {"Beirut", 33.8938, 35.5018, "Lebanon", "LB", 2200000, "Asia/Beirut", "Beirut Governorate"},
}

// Fallback returns the static record for city, annotated with an error
// string. Cities outside the table get an empty location.
func Fallback(q models.CityQuery) models.GeoNamesResult {
	fc, ok := fallbackCities[strings.ToLower(strings.TrimSpace(q.City))]
	if !ok {
		res := models.GeoNamesResult{
			Source: models.SourceGeoNames,
			Name:   models.Ptr(q.City),
			Error:  "No GeoNames data found for " + q.City + " and no fallback available",
		}
		if q.HasCountry() {
			res.Country = models.Ptr(q.Country)
		}
		return res
	}
	return models.GeoNamesResult{
		Source:        models.SourceGeoNames,
		Name:          models.Ptr(fc.name),
		Location:      models.Location{Lat: models.Ptr(fc.lat), Lon: models.Ptr(fc.lon)},
		Country:       models.Ptr(fc.country),
		CountryCode:   models.Ptr(fc.countryCode),
		AdminDivision: models.Ptr(fc.adminDivision),
		Population:    models.Ptr(fc.population),
		Timezone:      models.Ptr(fc.timezone),
		Error:         "Using fallback data - GeoNames API unavailable for " + q.City,
	}
}
