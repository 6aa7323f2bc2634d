package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cityinfo/pkg/logger"
)

// Observer is told how long each stage took and which error, if any, its
// steps reported.
type Observer func(stage string, elapsed time.Duration, err error)

// Pipeline coordinates the execution of a sequence of stages over an item.
// Steps within the same stage run in parallel, and stages themselves run
// sequentially. Step errors are logged and do not stop processing unless
// they are marked with Fatal.
//
// Pipeline is generic over the item type T.
type Pipeline[T any] struct {
	stages   []Stage[T]
	logger   *slog.Logger
	observer Observer
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer Observer
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithObserver(fn Observer) Option {
	return func(o *options) { o.observer = fn }
}

// NewPipeline constructs a Pipeline from the provided stages. Stages will be
// applied to each item in order.
func NewPipeline[T any](stages []Stage[T], opts ...Option) *Pipeline[T] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline[T]{stages: stages, logger: o.logger, observer: o.observer}
}

// Run applies every stage to item. All steps in a stage are started
// concurrently and must complete before moving to the next stage. The first
// fatal error aborts the run after its stage barrier and is returned.
func (p *Pipeline[T]) Run(ctx context.Context, item *T) error {
	for _, stage := range p.stages {
		start := time.Now()
		err := p.runStage(ctx, stage, item)
		if p.observer != nil {
			p.observer(stage.Name(), time.Since(start), err)
		}
		if IsFatal(err) {
			logger.Scoped(ctx, p.logger).Error("stage aborted pipeline", "stage", stage.Name(), "error", err)
			return err
		}
	}
	return nil
}

// runStage returns the first fatal error, else the first step error.
func (p *Pipeline[T]) runStage(ctx context.Context, stage Stage[T], item *T) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, step := range stage.steps {
		wg.Add(1)
		go func(step Step[T]) {
			defer wg.Done()
			err := step(ctx, item)
			if err == nil {
				return
			}
			logger.Scoped(ctx, p.logger).Warn("step failed", "stage", stage.Name(), "error", err)
			mu.Lock()
			if firstErr == nil || (IsFatal(err) && !IsFatal(firstErr)) {
				firstErr = err
			}
			mu.Unlock()
		}(step)
	}
	wg.Wait() // stage barrier
	return firstErr
}

// Outcome is an item that went through the pipeline and the fatal error, if
// any, that stopped it.
type Outcome[T any] struct {
	Item *T
	Err  error
}

// Process consumes items from in and emits each one after all stages have
// been applied. The returned channel is closed once in is closed or ctx is
// done.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T) <-chan Outcome[T] {
	out := make(chan Outcome[T])
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}
				err := p.Run(ctx, item)
				select {
				case out <- Outcome[T]{Item: item, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
