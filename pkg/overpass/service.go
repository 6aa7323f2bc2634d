package overpass

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cityinfo/internal/models"
	"cityinfo/pkg/logger"
	"cityinfo/pkg/pacer"
)

// DefaultInterval is the minimum spacing between category queries.
const DefaultInterval = time.Second

// Service is the places index adapter.
type Service struct {
	client   *Client
	logger   *slog.Logger
	interval time.Duration
	clock    pacer.Clock
}

type Option func(*Service)

func WithInterval(d time.Duration) Option {
	return func(s *Service) { s.interval = d }
}

// WithClock replaces the pacer's time source.
func WithClock(c pacer.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func NewService(client *Client, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		client:   client,
		logger:   logger.With("source", models.SourceOpenStreetMap),
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) newPacer() *pacer.Pacer {
	if s.clock != nil {
		return pacer.New(s.interval, pacer.WithClock(s.clock))
	}
	return pacer.New(s.interval)
}

// Fetch resolves the city boundary then runs the paced category queries.
// Cultural, Historical and Markets are always empty.
func (s *Service) Fetch(ctx context.Context, q models.CityQuery) (result models.OSMResult) {
	log := logger.Scoped(ctx, s.logger)
	defer func() {
		if r := recover(); r != nil {
			log.Error("overpass adapter panicked", "city", q.City, "panic", r)
			result = models.NewOSMResult()
			result.Error = fmt.Sprintf("Error fetching OpenStreetMap data: %v", r)
		}
	}()

	result = models.NewOSMResult()

	elements, err := s.client.Query(ctx, areaQuery(q.City))
	if err != nil {
		log.Warn("area query failed", "city", q.City, "error", err)
		result.Error = fmt.Sprintf("Error fetching OpenStreetMap data: %v", err)
		return result
	}
	boundary := bestArea(elements)
	if boundary == nil {
		result.Error = fmt.Sprintf("No OpenStreetMap area found for %s", q.City)
		return result
	}
	result.CityArea = cityArea(*boundary, q.City)
	if boundary.ID == 0 {
		return result
	}

	scope := scopeFor(*boundary)
	p := s.newPacer()
	lists := []*[]models.POI{&result.Restaurants, &result.Museums, &result.Parks, &result.Leisure}
	for i, c := range categories {
		pois, err := s.fetchCategory(ctx, p, c, scope)
		if err != nil {
			log.Warn("category query failed", "category", c.name, "city", q.City, "error", err)
			continue
		}
		*lists[i] = pois
	}
	log.Debug("collected points of interest",
		"city", q.City,
		"restaurants", len(result.Restaurants),
		"museums", len(result.Museums),
		"parks", len(result.Parks),
		"leisure", len(result.Leisure),
	)
	return result
}

func (s *Service) fetchCategory(ctx context.Context, p *pacer.Pacer, c category, scope Scope) ([]models.POI, error) {
	var pois []models.POI
	err := p.Do(ctx, func(ctx context.Context) error {
		elements, err := s.client.Query(ctx, categoryQuery(c.filter, scope, c.kinds...))
		if err != nil {
			return err
		}
		pois = c.toPOIs(elements)
		return nil
	})
	return pois, err
}

// bestArea prefers the first relation, then the first way, then the first
// node.
func bestArea(elements []Element) *Element {
	var way, node *Element
	for i := range elements {
		e := &elements[i]
		switch e.Type {
		case "relation":
			return e
		case "way":
			if way == nil {
				way = e
			}
		case "node":
			if node == nil {
				node = e
			}
		}
	}
	if way != nil {
		return way
	}
	return node
}

func cityArea(e Element, city string) *models.CityArea {
	area := &models.CityArea{
		AreaID:     models.Ptr(e.ID),
		Name:       models.Ptr(city),
		PlaceType:  e.tag("place"),
		Population: e.tag("population"),
	}
	if name := e.tag("name"); name != nil {
		area.Name = name
	}
	return area
}
