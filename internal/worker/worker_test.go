package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cityinfo/internal/archive"
	"cityinfo/internal/cityinfo"
	"cityinfo/internal/models"
	"cityinfo/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeExecutor struct {
	err error
}

func (f fakeExecutor) Execute(_ context.Context, req cityinfo.Request) (*models.PipelineState, error) {
	q, err := models.NewCityQuery(req.City, req.Country)
	if err != nil {
		return nil, err
	}
	state := models.NewPipelineState(q)
	_ = state.SetWeather(models.WeatherResult{Error: "Location 'x' not found"})
	if f.err != nil {
		return state, f.err
	}
	_ = state.SetProfile(&models.CityProfile{
		City:      q.City,
		Sections:  []models.Section{{Kind: models.SectionOverview, Body: "Nice."}},
		Generated: true,
	})
	return state, nil
}

type published struct {
	key   string
	event ProfileEvent
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{key: key, event: v.(ProfileEvent)})
	return nil
}

type fakeStore struct {
	err error
}

func (s fakeStore) StoreRun(_ context.Context, state *models.PipelineState) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "profiles/x/" + state.RunID.String() + ".json", nil
}

type fakeRecorder struct {
	runs []archive.Run
}

func (r *fakeRecorder) Record(_ context.Context, run archive.Run) error {
	r.runs = append(r.runs, run)
	return nil
}

type fakeMetrics struct {
	runs   int
	failed int
}

func (m *fakeMetrics) RecordRun(_ *models.PipelineState, _ time.Duration, err error) {
	m.runs++
	if err != nil {
		m.failed++
	}
}

func TestHandle_Success(t *testing.T) {
	pub := &fakePublisher{}
	rec := &fakeRecorder{}
	met := &fakeMetrics{}
	w := New(fakeExecutor{}, pub,
		WithObjectStore(fakeStore{}),
		WithRunRecorder(rec),
		WithMetrics(met),
	)

	event := w.Handle(context.Background(), cityinfo.Request{City: "Paris", Country: "France"})

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "paris, france", pub.msgs[0].key)
	assert.Equal(t, event, pub.msgs[0].event)
	assert.Empty(t, event.Error)
	assert.True(t, event.Generated)
	assert.Contains(t, event.CityInformation, "Nice.")
	assert.Contains(t, event.ObjectKey, event.RunID.String())
	assert.Equal(t, "Location 'x' not found", event.SourceErrors[models.SourceWeather])

	require.Len(t, rec.runs, 1)
	assert.Equal(t, event.ObjectKey, rec.runs[0].ObjectKey)
	assert.Equal(t, 1, met.runs)
	assert.Equal(t, 0, met.failed)
}

func TestHandle_FatalRunIsStillArchived(t *testing.T) {
	pub := &fakePublisher{}
	rec := &fakeRecorder{}
	w := New(fakeExecutor{err: errors.New("synthesize profile: generator unavailable")}, pub, WithRunRecorder(rec))

	event := w.Handle(context.Background(), cityinfo.Request{City: "Paris"})

	assert.Equal(t, "synthesize profile: generator unavailable", event.Error)
	assert.Empty(t, event.CityInformation)
	require.Len(t, rec.runs, 1)
	assert.Equal(t, event.Error, rec.runs[0].Failure)
	require.Len(t, pub.msgs, 1)
}

func TestHandle_InvalidRequest(t *testing.T) {
	pub := &fakePublisher{}
	rec := &fakeRecorder{}
	w := New(fakeExecutor{}, pub, WithRunRecorder(rec))

	event := w.Handle(context.Background(), cityinfo.Request{City: "  "})

	assert.Contains(t, event.Error, models.ErrInvalidQuery.Error())
	assert.Empty(t, rec.runs)
	require.Len(t, pub.msgs, 1)
}

func TestHandle_StoreAndPublishFailuresAreLogged(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	rec := &fakeRecorder{}
	w := New(fakeExecutor{}, pub, WithObjectStore(fakeStore{err: errors.New("bucket missing")}), WithRunRecorder(rec))

	event := w.Handle(context.Background(), cityinfo.Request{City: "Paris"})

	assert.Empty(t, event.ObjectKey)
	require.Len(t, rec.runs, 1)
	assert.Empty(t, rec.runs[0].ObjectKey)
}

type fakeSource struct {
	ch chan kafka.Message

	mu        sync.Mutex
	committed []int64
}

func (f *fakeSource) Messages() <-chan kafka.Message { return f.ch }

func (f *fakeSource) CommitOffset(_ context.Context, msg kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msg.Offset)
	return nil
}

func TestRun_CommitsEveryDelivery(t *testing.T) {
	src := &fakeSource{ch: make(chan kafka.Message, 3)}
	for i, city := range []string{"Paris", "Tokyo"} {
		value, err := json.Marshal(cityinfo.Request{City: city})
		require.NoError(t, err)
		src.ch <- kafka.Message{Offset: int64(i), Value: value}
	}
	src.ch <- kafka.Message{Offset: 2, Value: []byte("not json")}
	close(src.ch)

	pub := &fakePublisher{}
	w := New(fakeExecutor{}, pub)
	ctx := context.Background()
	w.Run(ctx, service.NewIterator(src, service.JSON[cityinfo.Request](), nil).Objects(ctx))

	require.Len(t, pub.msgs, 2)
	assert.Equal(t, "paris", pub.msgs[0].key)
	assert.Equal(t, "tokyo", pub.msgs[1].key)
	assert.ElementsMatch(t, []int64{0, 1, 2}, src.committed)
}
