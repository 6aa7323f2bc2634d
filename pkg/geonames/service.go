package geonames

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"cityinfo/internal/models"
	"cityinfo/pkg/geo"
	"cityinfo/pkg/logger"
)

// Service is the geographic registry adapter.
type Service struct {
	client *Client
	logger *slog.Logger
}

func NewService(client *Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger.With("source", models.SourceGeoNames)}
}

// Fetch resolves q to a single populated place. Registry outages fall back to
// a static table; the result always carries the reason in Error.
func (s *Service) Fetch(ctx context.Context, q models.CityQuery) (result models.GeoNamesResult) {
	log := logger.Scoped(ctx, s.logger)
	defer func() {
		if r := recover(); r != nil {
			log.Error("geonames adapter panicked", "city", q.City, "panic", r)
			result = models.GeoNamesResult{
				Source: models.SourceGeoNames,
				Error:  fmt.Sprintf("Error fetching GeoNames data: %v", r),
			}
		}
	}()

	code, _ := geo.CountryCode(q.Country)
	candidates, err := s.client.Search(ctx, q.City, code)
	if err != nil {
		log.Warn("search failed", "city", q.City, "error", fmt.Errorf("%w: %w", models.ErrFallbackUsed, err))
		return Fallback(q)
	}

	best := SelectBestMatch(candidates)
	if best == nil {
		log.Info("no candidates", "city", q.City, "country_code", code, "error", models.ErrFallbackUsed)
		return Fallback(q)
	}

	merged := *best
	if best.GeonameID != nil {
		detail, err := s.client.Get(ctx, *best.GeonameID)
		if err != nil {
			log.Warn("detail lookup failed", "geoname_id", *best.GeonameID, "error", err)
		} else {
			merged = best.Merge(*detail)
		}
	}

	res, err := format(merged)
	if err != nil {
		return models.GeoNamesResult{
			Source: models.SourceGeoNames,
			Error:  fmt.Sprintf("Error fetching GeoNames data: %v", err),
		}
	}
	return res
}

func format(g Geoname) (models.GeoNamesResult, error) {
	res := models.GeoNamesResult{
		Source:        models.SourceGeoNames,
		GeonameID:     g.GeonameID,
		Name:          g.Name,
		ASCIIName:     g.ASCIIName,
		Country:       g.CountryName,
		CountryCode:   g.CountryCode,
		AdminDivision: g.AdminName1,
		Population:    g.Population,
		FeatureClass:  g.FCL,
		FeatureCode:   g.FCode,
	}
	if g.Lat != nil {
		lat, err := strconv.ParseFloat(*g.Lat, 64)
		if err != nil {
			return models.GeoNamesResult{}, fmt.Errorf("parse latitude %q: %w", *g.Lat, err)
		}
		res.Location.Lat = &lat
	}
	if g.Lng != nil {
		lon, err := strconv.ParseFloat(*g.Lng, 64)
		if err != nil {
			return models.GeoNamesResult{}, fmt.Errorf("parse longitude %q: %w", *g.Lng, err)
		}
		res.Location.Lon = &lon
	}
	switch {
	case g.Elevation != nil:
		res.Elevation = models.Ptr(int64(math.Round(*g.Elevation)))
	case g.SRTM3 != nil:
		res.Elevation = g.SRTM3
	}
	if g.Timezone != nil && g.Timezone.TimeZoneID != "" {
		res.Timezone = models.Ptr(g.Timezone.TimeZoneID)
	}
	return res, nil
}
