// Package enrich provides a small, generic pipeline abstraction that runs
// independent steps in parallel within a stage while enforcing sequential
// execution between stages.
package enrich

import (
	"context"
)

// Step represents a single operation that mutates the given item.
// Implementations should be safe to run concurrently with other steps in the
// same stage operating on the same item. A failing step returns an error; the
// pipeline logs it and continues unless the error is marked with Fatal.
//
// The item pointer allows steps to modify the entity in-place to accumulate
// data over the pipeline run.
//
// Example:
//
//	func addTitle(ctx context.Context, m *MyType) error { m.Title = "..."; return nil }
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups a set of steps that are safe to execute in parallel for a
// single item. All steps in a stage are started together, and the pipeline
// waits for them to complete before moving to the next stage.
//
// Note: Step functions must coordinate on shared fields if they might write to
// the same location concurrently.
type Stage[T any] struct {
	name  string
	steps []Step[T]
}

// NewStage constructs a Stage from the provided steps.
// Steps in a stage are executed concurrently for each item.
func NewStage[T any](steps ...Step[T]) Stage[T] {
	return Stage[T]{steps: steps}
}

// NewNamedStage is NewStage with a name used in logs and observations.
func NewNamedStage[T any](name string, steps ...Step[T]) Stage[T] {
	return Stage[T]{name: name, steps: steps}
}

// Name returns the stage name, "unnamed" when none was given.
func (s Stage[T]) Name() string {
	if s.name == "" {
		return "unnamed"
	}
	return s.name
}
