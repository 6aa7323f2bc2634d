// Package cityinfo runs the city profile workflow: the four sources in a
// fixed order, then synthesis.
package cityinfo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cityinfo/internal/enrich"
	"cityinfo/internal/models"
	"cityinfo/pkg/logger"
)

// Request is the workflow input.
type Request struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// Response is the workflow output.
type Response struct {
	CityInformation string `json:"city_information"`
}

type WikipediaSource interface {
	Fetch(ctx context.Context, q models.CityQuery) models.WikipediaResult
}

type GeoNamesSource interface {
	Fetch(ctx context.Context, q models.CityQuery) models.GeoNamesResult
}

type OSMSource interface {
	Fetch(ctx context.Context, q models.CityQuery) models.OSMResult
}

type WeatherSource interface {
	Fetch(ctx context.Context, q models.CityQuery) models.WeatherResult
}

type Synthesizer interface {
	Synthesize(ctx context.Context, state *models.PipelineState) (*models.CityProfile, error)
}

// Sources groups the four adapters.
type Sources struct {
	Wikipedia WikipediaSource
	GeoNames  GeoNamesSource
	OSM       OSMSource
	Weather   WeatherSource
}

type Workflow struct {
	pipeline *enrich.Pipeline[models.PipelineState]
	logger   *slog.Logger
}

type Option func(*config)

type config struct {
	logger   *slog.Logger
	observer enrich.Observer
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithObserver receives the duration and outcome of every stage.
func WithObserver(fn enrich.Observer) Option {
	return func(c *config) { c.observer = fn }
}

func NewWorkflow(src Sources, synth Synthesizer, opts ...Option) *Workflow {
	c := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&c)
	}
	logger := c.logger.With("component", "workflow")

	stages := []enrich.Stage[models.PipelineState]{
		enrich.NewNamedStage(models.SourceWikipedia, func(ctx context.Context, s *models.PipelineState) error {
			if err := s.SetWikipedia(src.Wikipedia.Fetch(ctx, s.Query)); err != nil {
				return err
			}
			return sourceError(s.Wikipedia.Error)
		}),
		enrich.NewNamedStage(models.SourceGeoNames, func(ctx context.Context, s *models.PipelineState) error {
			if err := s.SetGeoNames(src.GeoNames.Fetch(ctx, s.Query)); err != nil {
				return err
			}
			return sourceError(s.GeoNames.Error)
		}),
		enrich.NewNamedStage(models.SourceOpenStreetMap, func(ctx context.Context, s *models.PipelineState) error {
			if err := s.SetOSM(src.OSM.Fetch(ctx, s.Query)); err != nil {
				return err
			}
			return sourceError(s.OSM.Error)
		}),
		enrich.NewNamedStage(models.SourceWeather, func(ctx context.Context, s *models.PipelineState) error {
			if err := s.SetWeather(src.Weather.Fetch(ctx, s.Query)); err != nil {
				return err
			}
			return sourceError(s.Weather.Error)
		}),
		enrich.NewNamedStage("Synthesize", func(ctx context.Context, s *models.PipelineState) error {
			profile, err := synth.Synthesize(ctx, s)
			if err != nil {
				return enrich.Fatal(fmt.Errorf("synthesize profile: %w", err))
			}
			return s.SetProfile(profile)
		}),
	}

	pipelineOpts := []enrich.Option{enrich.WithLogger(logger)}
	if c.observer != nil {
		pipelineOpts = append(pipelineOpts, enrich.WithObserver(c.observer))
	}
	return &Workflow{
		pipeline: enrich.NewPipeline(stages, pipelineOpts...),
		logger:   logger,
	}
}

// sourceError surfaces an adapter's error message as a step error so the
// pipeline logs it. The result has already been stored.
func sourceError(msg string) error {
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}

// Execute runs every stage and returns the accumulated state. The error is
// non-nil only for an invalid request or a fatal stage.
func (w *Workflow) Execute(ctx context.Context, req Request) (*models.PipelineState, error) {
	q, err := models.NewCityQuery(req.City, req.Country)
	if err != nil {
		return nil, err
	}
	state := models.NewPipelineState(q)
	ctx = logger.WithRunID(ctx, state.RunID.String())
	log := logger.Scoped(ctx, w.logger).With("city", q.City)

	start := time.Now()
	log.Info("workflow started", "country", q.Country)
	if err := w.pipeline.Run(ctx, state); err != nil {
		log.Error("workflow aborted", "error", err, "elapsed", time.Since(start))
		return state, err
	}
	log.Info("workflow finished",
		"elapsed", time.Since(start),
		"source_errors", len(state.SourceErrors()),
		"generated", state.Profile.Generated,
	)
	return state, nil
}

// Run executes the workflow and renders the profile document.
func (w *Workflow) Run(ctx context.Context, req Request) (Response, error) {
	state, err := w.Execute(ctx, req)
	if err != nil {
		return Response{}, err
	}
	return Response{CityInformation: state.Profile.Document()}, nil
}
