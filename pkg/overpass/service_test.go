package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityinfo/internal/models"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func f(v float64) *float64 { return &v }

func restaurants(n int) []Element {
	out := make([]Element, n)
	for i := range out {
		out[i] = Element{
			Type:   "way",
			ID:     int64(i + 1),
			Center: &Point{Lat: 48.85, Lon: 2.35},
			Tags: map[string]string{
				"name":          fmt.Sprintf("Bistro %d", i+1),
				"cuisine":       "french",
				"addr:street":   "Rue de Rivoli",
				"opening_hours": "Mo-Su 12:00-23:00",
			},
		}
	}
	return out
}

// overpassServer answers by inspecting the posted query text.
type overpassServer struct {
	t       *testing.T
	area    []Element
	areaErr bool
	parks   int
	mu      sync.Mutex
	queries []string

	// clock and latency make every query take time on the injected clock.
	clock   *fakeClock
	latency time.Duration
	calls   []span
}

type span struct {
	start, end time.Time
}

func (s *overpassServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	q := string(body)
	s.mu.Lock()
	s.queries = append(s.queries, q)
	if s.clock != nil {
		start := s.clock.Now()
		s.clock.advance(s.latency)
		s.calls = append(s.calls, span{start: start, end: s.clock.Now()})
	}
	s.mu.Unlock()

	if r.Header.Get("Content-Type") != "text/plain" {
		s.t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
	}

	var elements []Element
	switch {
	case strings.Contains(q, `["place"~"city|town|village"]`):
		if s.areaErr {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		elements = s.area
	case strings.Contains(q, `"amenity"="restaurant"`):
		elements = restaurants(50)
	case strings.Contains(q, `"tourism"="museum"`):
		elements = nil
	case strings.Contains(q, `"leisure"="park"`):
		if s.parks < 0 {
			w.WriteHeader(http.StatusGatewayTimeout)
			return
		}
		for i := 0; i < s.parks; i++ {
			elements = append(elements, Element{Type: "relation", ID: int64(100 + i)})
		}
	case strings.Contains(q, "sports_centre"):
		elements = []Element{
			{Type: "node", ID: 7, Lat: f(48.84), Lon: f(2.25), Tags: map[string]string{"name": "Roland Garros", "leisure": "stadium"}},
			{Type: "node", ID: 8, Lat: f(48.83), Lon: f(2.30), Tags: map[string]string{"leisure": "swimming_pool"}},
		}
	default:
		s.t.Errorf("unexpected query: %s", q)
	}
	_ = json.NewEncoder(w).Encode(Response{Elements: elements})
}

func newService(srv *httptest.Server, clock *fakeClock) *Service {
	return NewService(NewClient(WithURL(srv.URL)), nil, WithClock(clock))
}

func TestService_Fetch(t *testing.T) {
	fake := &overpassServer{t: t, parks: -1, area: []Element{
		{Type: "node", ID: 17807753, Lat: f(48.8566), Lon: f(2.3522), Tags: map[string]string{"name": "Paris", "place": "city"}},
		{Type: "relation", ID: 7444, Tags: map[string]string{"name": "Paris", "place": "city", "population": "2165423"}},
	}}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	clock := newClock()

	got := newService(srv, clock).Fetch(t.Context(), models.CityQuery{City: "Paris", Country: "France"})

	require.Empty(t, got.Error)
	require.NotNil(t, got.CityArea)
	assert.Equal(t, int64(7444), *got.CityArea.AreaID)
	assert.Equal(t, "2165423", *got.CityArea.Population)
	assert.Equal(t, "city", *got.CityArea.PlaceType)

	require.Len(t, got.Restaurants, 20)
	first := got.Restaurants[0]
	assert.Equal(t, "Bistro 1", first.Name)
	assert.Equal(t, "french", *first.Type)
	assert.Equal(t, "Rue de Rivoli", *first.Address)
	assert.Equal(t, "Mo-Su 12:00-23:00", *first.OpeningHours)
	assert.Equal(t, &models.Coordinates{Lat: 48.85, Lon: 2.35}, first.Coordinates)

	assert.NotNil(t, got.Museums)
	assert.Empty(t, got.Museums)
	assert.NotNil(t, got.Parks, "failed category stays an empty list")
	assert.Empty(t, got.Parks)

	require.Len(t, got.Leisure, 2)
	assert.Equal(t, "stadium", *got.Leisure[0].Type)
	assert.Equal(t, "Unknown Facility", got.Leisure[1].Name)

	for _, list := range [][]models.POI{got.Cultural, got.Historical, got.Markets} {
		assert.NotNil(t, list)
		assert.Empty(t, list)
	}

	require.Len(t, fake.queries, 5)
	for _, q := range fake.queries[1:] {
		assert.Contains(t, q, "(area:3600007444)")
	}
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, clock.sleeps)
}

func TestService_Fetch_SlowQueriesAreSpacedFromTheirEnd(t *testing.T) {
	clock := newClock()
	fake := &overpassServer{t: t, parks: 2, clock: clock, latency: 4 * time.Second, area: []Element{
		{Type: "relation", ID: 7444, Tags: map[string]string{"name": "Paris", "place": "city"}},
	}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	got := newService(srv, clock).Fetch(t.Context(), models.CityQuery{City: "Paris"})
	require.Empty(t, got.Error)

	require.Len(t, fake.calls, 5)
	categoryCalls := fake.calls[1:]
	for i := 1; i < len(categoryCalls); i++ {
		gap := categoryCalls[i].start.Sub(categoryCalls[i-1].end)
		assert.GreaterOrEqual(t, gap, time.Second, "category query %d started %s after the previous one ended", i, gap)
	}
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, clock.sleeps)
}

func TestService_Fetch_ParkDefaults(t *testing.T) {
	fake := &overpassServer{t: t, parks: 30, area: []Element{{Type: "way", ID: 5}}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	got := newService(srv, newClock()).Fetch(t.Context(), models.CityQuery{City: "Smallville"})

	require.Len(t, got.Parks, 15)
	assert.Equal(t, "Unknown Park", got.Parks[0].Name)
	assert.Equal(t, "park", *got.Parks[0].Type)
	assert.Nil(t, got.Parks[0].Coordinates)
	assert.Equal(t, "Smallville", *got.CityArea.Name)
	assert.Contains(t, fake.queries[1], "(area:2400000005)")
}

func TestService_Fetch_NoArea(t *testing.T) {
	fake := &overpassServer{t: t}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	clock := newClock()

	got := newService(srv, clock).Fetch(t.Context(), models.CityQuery{City: "Atlantis"})

	assert.Equal(t, "No OpenStreetMap area found for Atlantis", got.Error)
	assert.Nil(t, got.CityArea)
	assert.Len(t, fake.queries, 1)
	assert.Empty(t, clock.sleeps)
	assert.NotNil(t, got.Restaurants)
	assert.NotNil(t, got.Markets)
}

func TestService_Fetch_AreaQueryFails(t *testing.T) {
	fake := &overpassServer{t: t, areaErr: true}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	got := newService(srv, newClock()).Fetch(t.Context(), models.CityQuery{City: "Paris"})

	assert.Contains(t, got.Error, "Error fetching OpenStreetMap data")
	assert.Contains(t, got.Error, "429")
	assert.Empty(t, got.Restaurants)
	assert.NotNil(t, got.Leisure)
}

func TestBestArea(t *testing.T) {
	tests := []struct {
		name     string
		elements []Element
		wantType string
		wantID   int64
	}{
		{"relation wins", []Element{{Type: "node", ID: 1}, {Type: "way", ID: 2}, {Type: "relation", ID: 3}}, "relation", 3},
		{"first way over node", []Element{{Type: "node", ID: 1}, {Type: "way", ID: 2}, {Type: "way", ID: 4}}, "way", 2},
		{"node only", []Element{{Type: "node", ID: 1}}, "node", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bestArea(tt.elements)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
	assert.Nil(t, bestArea(nil))
}

func TestScopeFor_NodeUsesRadius(t *testing.T) {
	scope := scopeFor(Element{Type: "node", ID: 9, Lat: f(33.8938), Lon: f(35.5018)})
	assert.Equal(t, Scope("(around:5000,33.8938,35.5018)"), scope)
}

func TestAreaQuery_Escaping(t *testing.T) {
	tests := []struct {
		city string
		want string
	}{
		{city: `Foo"bar`, want: `"name"~"Foo\"bar",i`},
		{city: "Washington (DC)", want: `"name"~"Washington \\(DC\\)",i`},
		{city: "St. Louis", want: `"name"~"St\\. Louis",i`},
		{city: "C++ City [old]", want: `"name"~"C\\+\\+ City \\[old\\]",i`},
		{city: "Paris", want: `"name"~"Paris",i`},
	}
	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			q := areaQuery(tt.city)
			assert.Contains(t, q, tt.want)
		})
	}
}
