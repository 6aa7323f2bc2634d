package cityinfo

import (
	"context"
	"log/slog"
	"net/http"

	"cityinfo/internal/env"
	"cityinfo/internal/synth"
	"cityinfo/pkg/geonames"
	"cityinfo/pkg/location"
	"cityinfo/pkg/overpass"
	"cityinfo/pkg/weather"
	"cityinfo/pkg/wikipedia"
)

// NewSources builds the four live adapters sharing one HTTP client.
func NewSources(cfg env.Config, logger *slog.Logger) Sources {
	if logger == nil {
		logger = slog.Default()
	}
	hc := &http.Client{Timeout: cfg.HTTPTimeout}

	wiki := wikipedia.NewClient(wikipedia.WithHTTPClient(hc), wikipedia.WithUserAgent(cfg.UserAgent))
	gn := geonames.NewClient(cfg.GeoNamesUsername, geonames.WithHTTPClient(hc), geonames.WithUserAgent(cfg.UserAgent))
	osm := overpass.NewClient(
		overpass.WithHTTPClient(hc),
		overpass.WithURL(cfg.OverpassURL),
		overpass.WithUserAgent(cfg.UserAgent),
	)
	nominatim := location.NewClient(location.WithHTTPClient(hc), location.WithUserAgent(cfg.UserAgent))
	meteo := weather.NewClient(weather.WithHTTPClient(hc), weather.WithUserAgent(cfg.UserAgent))

	var osmOpts []overpass.Option
	if cfg.OverpassInterval > 0 {
		osmOpts = append(osmOpts, overpass.WithInterval(cfg.OverpassInterval))
	}

	return Sources{
		Wikipedia: wikipedia.NewService(wiki, logger),
		GeoNames:  geonames.NewService(gn, logger),
		OSM:       overpass.NewService(osm, logger, osmOpts...),
		Weather:   weather.NewService(nominatim, meteo, logger),
	}
}

// NewGenerator returns the Gemini generator, or nil when it cannot be built.
// A nil generator makes every run fail at synthesis.
func NewGenerator(ctx context.Context, cfg env.Config, logger *slog.Logger) synth.Generator {
	if logger == nil {
		logger = slog.Default()
	}
	gen, err := synth.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warn("text generator unavailable", "error", err)
		return nil
	}
	return gen
}
