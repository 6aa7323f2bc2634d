package wikipedia

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"cityinfo/internal/models"
	"cityinfo/pkg/logger"
)

// Service is the encyclopedia source adapter.
type Service struct {
	client    *Client
	extractor *Extractor
	logger    *slog.Logger
}

func NewService(client *Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:    client,
		extractor: NewExtractor(),
		logger:    logger.With("source", models.SourceWikipedia),
	}
}

// Fetch never fails: every error is reported through the result's Error
// field with empty lists.
func (s *Service) Fetch(ctx context.Context, q models.CityQuery) (result models.WikipediaResult) {
	log := logger.Scoped(ctx, s.logger)
	defer func() {
		if r := recover(); r != nil {
			log.Error("wikipedia adapter panicked", "city", q.City, "panic", r)
			result = models.NewWikipediaFailure(fmt.Sprintf("Error fetching Wikipedia data: %v", r))
		}
	}()

	hits, err := s.client.Search(ctx, q.String())
	if err != nil {
		log.Warn("search failed", "term", q.String(), "error", err)
		return models.NewWikipediaFailure(fmt.Sprintf("Error fetching Wikipedia data: %v", err))
	}
	if len(hits) == 0 {
		return models.NewWikipediaFailure(fmt.Sprintf("No Wikipedia page found for %s", q.City))
	}
	title := hits[0].Title

	summary, intro, err := s.pageContent(ctx, title)
	if err != nil {
		log.Warn("page content failed", "title", title, "error", err)
		return models.NewWikipediaFailure(fmt.Sprintf("Failed to fetch Wikipedia page content for %s: %v", title, err))
	}

	extraction := s.extractor.Extract(intro)
	log.Debug("extracted city info",
		"title", title,
		"activities", len(extraction.Activities),
		"cuisine", len(extraction.Cuisine),
		"attractions", len(extraction.Attractions),
		"safety", len(extraction.Safety),
	)

	return models.WikipediaResult{
		Source:      models.SourceWikipedia,
		PageTitle:   models.Ptr(title),
		Summary:     summary.Extract,
		Activities:  extraction.Activities,
		Cuisine:     extraction.Cuisine,
		Attractions: extraction.Attractions,
		Safety:      extraction.Safety,
	}
}

// pageContent fetches the summary and the introduction concurrently.
func (s *Service) pageContent(ctx context.Context, title string) (*PageSummary, string, error) {
	var (
		summary *PageSummary
		intro   string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.client.Summary(gctx, title)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		intro, err = s.client.IntroExtract(gctx, title)
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, "", err
	}
	return summary, intro, nil
}
