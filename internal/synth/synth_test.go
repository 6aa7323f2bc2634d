package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityinfo/internal/models"
)

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func failedState(city string) *models.PipelineState {
	s := models.NewPipelineState(models.CityQuery{City: city})
	_ = s.SetWikipedia(models.NewWikipediaFailure("Error fetching Wikipedia data: dial tcp: connection refused"))
	_ = s.SetGeoNames(models.GeoNamesResult{
		Source: models.SourceGeoNames,
		Name:   models.Ptr(city),
		Error:  "No GeoNames data found for " + city + " and no fallback available",
	})
	osm := models.NewOSMResult()
	osm.Error = "Error fetching OpenStreetMap data: HTTP error! status: 504"
	_ = s.SetOSM(osm)
	_ = s.SetWeather(models.WeatherResult{Source: models.SourceWeather, Error: "Location '" + city + "' not found"})
	return s
}

func parisState() *models.PipelineState {
	s := models.NewPipelineState(models.CityQuery{City: "Paris"})
	_ = s.SetWikipedia(models.WikipediaResult{
		Source:      models.SourceWikipedia,
		PageTitle:   models.Ptr("Paris"),
		Summary:     "Paris is the capital and largest city of France.",
		Activities:  []string{},
		Cuisine:     []string{"Parisian cuisine is celebrated for its bistros"},
		Attractions: []string{},
		Safety:      []string{},
	})
	_ = s.SetGeoNames(models.GeoNamesResult{
		Source:     models.SourceGeoNames,
		Name:       models.Ptr("Paris"),
		Country:    models.Ptr("France"),
		Location:   models.Location{Lat: models.Ptr(48.8566), Lon: models.Ptr(2.3522)},
		Population: models.Ptr(int64(2200000)),
	})
	osm := models.NewOSMResult()
	osm.Restaurants = []models.POI{
		{Name: "Le Procope", Type: models.Ptr("french")},
		{Name: "Unknown", Type: models.Ptr("restaurant")},
		{Name: "Chez Janou", Type: models.Ptr("restaurant")},
	}
	_ = s.SetOSM(osm)
	_ = s.SetWeather(models.WeatherResult{Source: models.SourceWeather, Error: "Error fetching weather data: timeout"})
	return s
}

func fullText(prefix string) string {
	var b strings.Builder
	b.WriteString("Here is your guide.\n\n")
	for _, k := range models.SectionOrder {
		fmt.Fprintf(&b, "%s\n%s %s\n\n", k.Heading(), prefix, k.Title())
	}
	return b.String()
}

func assertComplete(t *testing.T, p *models.CityProfile) {
	t.Helper()
	require.Len(t, p.Sections, 6)
	for i, kind := range models.SectionOrder {
		assert.Equal(t, kind, p.Sections[i].Kind)
		assert.NotEmpty(t, strings.TrimSpace(p.Sections[i].Body), kind.Title())
	}
}

func TestSynthesize_AllSourcesFailedAndGeneratorErrors(t *testing.T) {
	state := failedState("Atlantis")
	gen := &fakeGenerator{err: ErrEmptyResponse}

	profile, err := New(gen, nil).Synthesize(context.Background(), state)

	require.NoError(t, err)
	assertComplete(t, profile)
	assert.False(t, profile.Generated)

	doc := profile.Document()
	for _, msg := range state.SourceErrors() {
		assert.NotContains(t, doc, msg)
	}
	assert.Contains(t, profile.Section(models.SectionWeather), "Atlantis")
	assert.Contains(t, profile.Section(models.SectionActivities), "Atlantis")
}

func TestSynthesize_GeneratorUnavailable(t *testing.T) {
	tests := []struct {
		name string
		gen  Generator
	}{
		{"nil generator", nil},
		{"unavailable error", &fakeGenerator{err: fmt.Errorf("%w: bad key", ErrGeneratorUnavailable)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := New(tt.gen, nil).Synthesize(context.Background(), parisState())
			assert.ErrorIs(t, err, ErrGeneratorUnavailable)
			assert.Nil(t, profile)
		})
	}
}

func TestSynthesize_UsesGeneratedSections(t *testing.T) {
	gen := &fakeGenerator{text: fullText("Generated")}

	profile, err := New(gen, nil).Synthesize(context.Background(), parisState())

	require.NoError(t, err)
	assertComplete(t, profile)
	assert.True(t, profile.Generated)
	assert.Equal(t, "Generated Good Food", profile.Section(models.SectionFood))
	assert.NotContains(t, profile.Document(), "Here is your guide")
}

func TestSynthesize_FillsMissingAndContaminatedSections(t *testing.T) {
	text := strings.Join([]string{
		models.SectionOverview.Heading(),
		"Paris, the City of Light.",
		models.SectionFood.Heading(),
		"   ",
		models.SectionAttractions.Heading(),
		"The Louvre and the Eiffel Tower.",
		models.SectionWeather.Heading(),
		"Sorry: Error fetching weather data: timeout",
	}, "\n")
	gen := &fakeGenerator{text: text}

	profile, err := New(gen, nil).Synthesize(context.Background(), parisState())

	require.NoError(t, err)
	assertComplete(t, profile)
	assert.False(t, profile.Generated)
	assert.Equal(t, "Paris, the City of Light.", profile.Section(models.SectionOverview))
	assert.Equal(t, "The Louvre and the Eiffel Tower.", profile.Section(models.SectionAttractions))
	assert.NotContains(t, profile.Document(), "Error fetching weather data")
	assert.Contains(t, profile.Section(models.SectionFood), "Le Procope (french)")
}

func TestSynthesize_ParisScenario(t *testing.T) {
	profile, err := New(&fakeGenerator{err: errors.New("stream reset")}, nil).Synthesize(context.Background(), parisState())

	require.NoError(t, err)
	assertComplete(t, profile)
	overview := profile.Section(models.SectionOverview)
	assert.Contains(t, overview, "Paris is the capital and largest city of France.")
	assert.Contains(t, overview, "Population: about 2,200,000")
	assert.Contains(t, overview, "48.8566, 2.3522")
	assert.Contains(t, profile.Section(models.SectionWeather), "not available")
	assert.NotEmpty(t, profile.Section(models.SectionAttractions))

	food := profile.Section(models.SectionFood)
	assert.Contains(t, food, "Parisian cuisine is celebrated for its bistros.")
	assert.Contains(t, food, "Le Procope (french), Chez Janou")
	assert.NotContains(t, food, "Unknown")
}

func TestSynthesize_Deterministic(t *testing.T) {
	state := failedState("Springfield")
	s := New(&fakeGenerator{err: errors.New("boom")}, nil)

	first, err := s.Synthesize(context.Background(), state)
	require.NoError(t, err)
	second, err := s.Synthesize(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, first.Document(), second.Document())
	assert.Equal(t, first.Document(), s.Compose(state).Document())
}

func TestBuildPrompt(t *testing.T) {
	state := parisState()
	state.Query = models.CityQuery{City: "Paris", Country: "France"}
	gen := &fakeGenerator{text: fullText("x")}

	_, err := New(gen, nil).Synthesize(context.Background(), state)
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)

	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "about Paris, France")
	assert.Contains(t, prompt, `"population": 2200000`)
	assert.Contains(t, prompt, `"name": "Le Procope"`)
	for _, k := range models.SectionOrder {
		assert.Contains(t, prompt, k.Heading())
	}
}

func TestBuildPrompt_MissingSources(t *testing.T) {
	prompt := BuildPrompt(models.NewPipelineState(models.CityQuery{City: "Oslo"}))
	assert.Equal(t, 4, strings.Count(prompt, "No data collected."))
}
