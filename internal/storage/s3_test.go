package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityinfo/internal/env"
	"cityinfo/internal/models"
)

// fakeS3 keeps objects in memory and speaks just enough of the S3 API.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func newTestService(t *testing.T) (*S3Service, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	svc, err := NewS3Service(env.MinIOConfig{
		Endpoint:  u.Host,
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "city-profiles",
	}, nil)
	require.NoError(t, err)
	return svc, fake
}

func TestNewS3Service_RequiresCredentials(t *testing.T) {
	_, err := NewS3Service(env.MinIOConfig{Endpoint: "localhost:9000"}, nil)
	assert.ErrorContains(t, err, "MINIO_ACCESS_KEY")
}

func TestS3Service_StoreRun(t *testing.T) {
	svc, fake := newTestService(t)
	state := models.NewPipelineState(models.CityQuery{City: "Paris", Country: "France"})
	state.RunID = uuid.MustParse("0b6f2f0e-3f7c-4c59-8f8e-7b0f9c1d2e3a")
	state.Profile = &models.CityProfile{City: "Paris", Sections: []models.Section{{Kind: models.SectionOverview, Body: "Capital of France."}}}

	key, err := svc.StoreRun(context.Background(), state)

	require.NoError(t, err)
	assert.Equal(t, "profiles/france/paris/0b6f2f0e-3f7c-4c59-8f8e-7b0f9c1d2e3a.json", key)
	body, ok := fake.objects["/city-profiles/"+key]
	require.True(t, ok, "object not written: %v", fake.objects)
	assert.Contains(t, string(body), "Capital of France.")
}

func TestS3Service_GetRun(t *testing.T) {
	svc, fake := newTestService(t)
	rec := Record{
		State:    models.NewPipelineState(models.CityQuery{City: "Tokyo"}),
		Document: "🏙️ **City Overview**\nTokyo.",
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	fake.objects["/city-profiles/profiles/unknown/tokyo/run.json"] = data

	got, err := svc.GetRun(context.Background(), "profiles/unknown/tokyo/run.json")

	require.NoError(t, err)
	assert.Equal(t, "Tokyo", got.State.Query.City)
	assert.True(t, strings.HasSuffix(got.Document, "Tokyo."))
}

func TestS3Service_GetRun_Missing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetRun(context.Background(), "profiles/unknown/nowhere/run.json")

	assert.ErrorIs(t, err, models.ErrNotFound)
}
