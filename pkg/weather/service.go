package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cityinfo/internal/models"
	"cityinfo/pkg/location"
	"cityinfo/pkg/logger"
)

// Geocoder resolves a free-text place to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*location.Place, error)
}

// Service is the current-conditions adapter.
type Service struct {
	geocoder Geocoder
	client   *Client
	logger   *slog.Logger
}

func NewService(geocoder Geocoder, client *Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{geocoder: geocoder, client: client, logger: logger.With("source", models.SourceWeather)}
}

func (s *Service) Fetch(ctx context.Context, q models.CityQuery) (result models.WeatherResult) {
	log := logger.Scoped(ctx, s.logger)
	defer func() {
		if r := recover(); r != nil {
			log.Error("weather adapter panicked", "city", q.City, "panic", r)
			result = failure(fmt.Sprintf("Error fetching weather data: %v", r))
		}
	}()

	place, err := s.geocoder.Geocode(ctx, q.String())
	if err != nil {
		log.Warn("geocoding failed", "query", q.String(), "error", err)
		if errors.Is(err, models.ErrNotFound) {
			return failure(fmt.Sprintf("Location '%s' not found", q.String()))
		}
		return failure(fmt.Sprintf("Error fetching weather data: %v", err))
	}

	forecast, err := s.client.Current(ctx, place.Latitude, place.Longitude)
	if err != nil {
		log.Warn("forecast failed", "lat", place.Latitude, "lon", place.Longitude, "error", err)
		return failure(fmt.Sprintf("Error fetching weather data: %v", err))
	}

	cur := forecast.Current
	res := models.WeatherResult{
		Source:      models.SourceWeather,
		Location:    models.Ptr(placeName(place, q)),
		Temperature: cur.Temperature,
		FeelsLike:   cur.ApparentTemperature,
		Humidity:    cur.RelativeHumidity,
		WindSpeed:   cur.WindSpeed,
		WindGust:    cur.WindGusts,
	}
	if cur.WeatherCode != nil {
		res.Conditions = models.Ptr(Condition(*cur.WeatherCode))
	}
	if at, ok := cur.ObservedAt(); ok {
		res.ObservedAt = &at
	}
	return res
}

func placeName(p *location.Place, q models.CityQuery) string {
	name := p.City
	if name == "" {
		name = p.Name
	}
	if name == "" {
		name = q.City
	}
	if p.Country != "" {
		return name + ", " + p.Country
	}
	return name
}

func failure(msg string) models.WeatherResult {
	return models.WeatherResult{Source: models.SourceWeather, Error: msg}
}
