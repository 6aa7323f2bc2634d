package cityinfo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cityinfo/internal/env"
)

func TestNewSources(t *testing.T) {
	src := NewSources(env.Config{
		UserAgent:        "CityInfoService/1.0",
		HTTPTimeout:      time.Second,
		GeoNamesUsername: "demo",
	}, nil)

	assert.NotNil(t, src.Wikipedia)
	assert.NotNil(t, src.GeoNames)
	assert.NotNil(t, src.OSM)
	assert.NotNil(t, src.Weather)
}

func TestNewGenerator_MissingKeyIsNil(t *testing.T) {
	gen := NewGenerator(context.Background(), env.Config{GeminiModel: "gemini-2.5-flash"}, nil)
	// Must be a nil interface so the synthesizer treats it as unavailable.
	assert.True(t, gen == nil)
}
