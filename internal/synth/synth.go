// Package synth turns the collected source results into the six-section
// city profile. A text generator writes the prose; any section it leaves
// out, leaves blank or contaminates with a source error is composed from the
// collected facts instead, so the profile is always complete.
package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cityinfo/internal/models"
)

type Synthesizer struct {
	generator Generator
	composer  Composer
	logger    *slog.Logger
}

func New(generator Generator, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{generator: generator, logger: logger.With("component", "synth")}
}

// Synthesize builds the profile for state. It fails only when the generator
// is unavailable.
func (s *Synthesizer) Synthesize(ctx context.Context, state *models.PipelineState) (*models.CityProfile, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", ErrGeneratorUnavailable)
	}

	var generated map[models.SectionKind]string
	text, err := s.generator.Generate(ctx, BuildPrompt(state))
	switch {
	case errors.Is(err, ErrGeneratorUnavailable):
		return nil, err
	case err != nil:
		s.logger.Warn("generation failed, composing from sources", "city", state.Query.City, "error", err)
	default:
		generated = ParseSections(text)
	}

	return s.assemble(state, generated), nil
}

// Compose builds the profile from the collected results only.
func (s *Synthesizer) Compose(state *models.PipelineState) *models.CityProfile {
	return s.assemble(state, nil)
}

func (s *Synthesizer) assemble(state *models.PipelineState, generated map[models.SectionKind]string) *models.CityProfile {
	sourceErrs := state.SourceErrors()
	profile := &models.CityProfile{
		City:     state.Query.City,
		Country:  state.Query.Country,
		Sections: make([]models.Section, 0, len(models.SectionOrder)),
	}
	fromGenerator := 0
	for _, kind := range models.SectionOrder {
		body := strings.TrimSpace(generated[kind])
		if body != "" && !leaksError(body, sourceErrs) {
			fromGenerator++
		} else {
			if body != "" {
				s.logger.Debug("discarding generated section that repeats a source error", "section", kind.Title())
			}
			body = s.composer.Compose(kind, state)
		}
		profile.Sections = append(profile.Sections, models.Section{Kind: kind, Body: body})
	}
	profile.Generated = fromGenerator == len(models.SectionOrder)
	return profile
}

func leaksError(body string, sourceErrs map[string]string) bool {
	for _, msg := range sourceErrs {
		if msg != "" && strings.Contains(body, msg) {
			return true
		}
	}
	return false
}
