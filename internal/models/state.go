package models

import (
	"fmt"

	"github.com/google/uuid"
)

// PipelineState accumulates the results of one run. Each slot starts nil and
// is written exactly once.
type PipelineState struct {
	RunID     uuid.UUID        `json:"run_id"`
	Query     CityQuery        `json:"query"`
	Wikipedia *WikipediaResult `json:"wikipedia,omitempty"`
	GeoNames  *GeoNamesResult  `json:"geonames,omitempty"`
	OSM       *OSMResult       `json:"openstreetmap,omitempty"`
	Weather   *WeatherResult   `json:"weather,omitempty"`
	Profile   *CityProfile     `json:"profile,omitempty"`
}

// NewPipelineState starts a run for q with a fresh run id.
func NewPipelineState(q CityQuery) *PipelineState {
	return &PipelineState{RunID: uuid.New(), Query: q}
}

func (s *PipelineState) SetWikipedia(r WikipediaResult) error {
	if s.Wikipedia != nil {
		return fmt.Errorf("%w: %s", ErrAlreadySet, SourceWikipedia)
	}
	s.Wikipedia = &r
	return nil
}

func (s *PipelineState) SetGeoNames(r GeoNamesResult) error {
	if s.GeoNames != nil {
		return fmt.Errorf("%w: %s", ErrAlreadySet, SourceGeoNames)
	}
	s.GeoNames = &r
	return nil
}

func (s *PipelineState) SetOSM(r OSMResult) error {
	if s.OSM != nil {
		return fmt.Errorf("%w: %s", ErrAlreadySet, SourceOpenStreetMap)
	}
	s.OSM = &r
	return nil
}

func (s *PipelineState) SetWeather(r WeatherResult) error {
	if s.Weather != nil {
		return fmt.Errorf("%w: %s", ErrAlreadySet, SourceWeather)
	}
	s.Weather = &r
	return nil
}

func (s *PipelineState) SetProfile(p *CityProfile) error {
	if s.Profile != nil {
		return fmt.Errorf("%w: profile", ErrAlreadySet)
	}
	s.Profile = p
	return nil
}

// SourceErrors maps each source that reported an error to its message.
// Sources that have not run yet are omitted.
func (s *PipelineState) SourceErrors() map[string]string {
	out := make(map[string]string)
	if s.Wikipedia != nil && s.Wikipedia.Error != "" {
		out[SourceWikipedia] = s.Wikipedia.Error
	}
	if s.GeoNames != nil && s.GeoNames.Error != "" {
		out[SourceGeoNames] = s.GeoNames.Error
	}
	if s.OSM != nil && s.OSM.Error != "" {
		out[SourceOpenStreetMap] = s.OSM.Error
	}
	if s.Weather != nil && s.Weather.Error != "" {
		out[SourceWeather] = s.Weather.Error
	}
	return out
}
