// Package worker turns city requests consumed from Kafka into published and
// archived profiles.
package worker

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cityinfo/internal/archive"
	"cityinfo/internal/cityinfo"
	"cityinfo/internal/models"
	"cityinfo/internal/service"
)

type Executor interface {
	Execute(ctx context.Context, req cityinfo.Request) (*models.PipelineState, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type ObjectStore interface {
	StoreRun(ctx context.Context, state *models.PipelineState) (string, error)
}

type RunRecorder interface {
	Record(ctx context.Context, run archive.Run) error
}

type Metrics interface {
	RecordRun(state *models.PipelineState, elapsed time.Duration, runErr error)
}

// ProfileEvent is published once per consumed request.
type ProfileEvent struct {
	RunID           uuid.UUID         `json:"run_id,omitempty"`
	City            string            `json:"city"`
	Country         string            `json:"country,omitempty"`
	CityInformation string            `json:"city_information,omitempty"`
	Generated       bool              `json:"generated"`
	SourceErrors    map[string]string `json:"source_errors,omitempty"`
	ObjectKey       string            `json:"object_key,omitempty"`
	Error           string            `json:"error,omitempty"`
}

// Worker handles one request at a time. Store, Recorder and Metrics are
// optional.
type Worker struct {
	exec      Executor
	publisher Publisher
	store     ObjectStore
	recorder  RunRecorder
	metrics   Metrics
	logger    *slog.Logger
}

type Option func(*Worker)

func WithObjectStore(s ObjectStore) Option {
	return func(w *Worker) { w.store = s }
}

func WithRunRecorder(r RunRecorder) Option {
	return func(w *Worker) { w.recorder = r }
}

func WithMetrics(m Metrics) Option {
	return func(w *Worker) { w.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Worker) { w.logger = l }
}

func New(exec Executor, publisher Publisher, opts ...Option) *Worker {
	w := &Worker{exec: exec, publisher: publisher, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "worker")
	return w
}

// Run handles deliveries until the channel closes. Every delivery is
// committed once handled, whatever the outcome of the run.
func (w *Worker) Run(ctx context.Context, deliveries <-chan *service.Delivery[cityinfo.Request]) {
	for d := range deliveries {
		w.Handle(ctx, d.Data)
		if err := d.Commit(ctx); err != nil {
			w.logger.Warn("failed to commit offset", "offset", d.Message.Offset, "error", err)
		}
	}
	w.logger.Info("delivery channel closed")
}

// Handle runs the workflow for req, archives the run and publishes the event.
func (w *Worker) Handle(ctx context.Context, req cityinfo.Request) ProfileEvent {
	start := time.Now()
	state, runErr := w.exec.Execute(ctx, req)
	elapsed := time.Since(start)
	if w.metrics != nil {
		w.metrics.RecordRun(state, elapsed, runErr)
	}

	event := ProfileEvent{City: req.City, Country: req.Country}
	if runErr != nil {
		event.Error = runErr.Error()
	}

	if state != nil {
		event.RunID = state.RunID
		event.SourceErrors = state.SourceErrors()
		if state.Profile != nil {
			event.CityInformation = state.Profile.Document()
			event.Generated = state.Profile.Generated
		}
		event.ObjectKey = w.archive(ctx, state, runErr)
	}

	logger := w.logger.With("city", req.City, "run_id", event.RunID.String())
	if err := w.publisher.PublishJSON(ctx, eventKey(req), event); err != nil {
		logger.Error("failed to publish profile", "error", err)
	} else {
		logger.Info("profile published", "elapsed", elapsed, "failed", runErr != nil)
	}
	return event
}

// archive stores the run in object storage and Postgres when configured and
// returns the object key, if any.
func (w *Worker) archive(ctx context.Context, state *models.PipelineState, runErr error) string {
	var objectKey string
	if w.store != nil {
		key, err := w.store.StoreRun(ctx, state)
		if err != nil {
			w.logger.Error("failed to store run", "run_id", state.RunID, "error", err)
		} else {
			objectKey = key
		}
	}
	if w.recorder != nil {
		if err := w.recorder.Record(ctx, archive.NewRun(state, runErr, objectKey)); err != nil {
			w.logger.Error("failed to record run", "run_id", state.RunID, "error", err)
		}
	}
	return objectKey
}

func eventKey(req cityinfo.Request) string {
	q := models.CityQuery{City: strings.TrimSpace(req.City), Country: strings.TrimSpace(req.Country)}
	return strings.ToLower(q.String())
}
