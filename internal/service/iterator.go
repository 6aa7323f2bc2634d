// Package service contains helpers used by application services.
// In particular, it provides an Iterator that consumes requests from a
// message source (e.g., Kafka via pkg/kafkaclient) and decodes them with a
// pluggable DecodeFunc.
package service

import (
	"context"
	"log/slog"
)

// Iterator consumes messages from a MessageIterator, decodes each one and
// yields it on a channel. It is generic over the decoded item type T.
//
// The Iterator does not manage the lifecycle of the underlying message source;
// callers should start/stop their consumer outside and pass in an implementation
// of MessageIterator.
type Iterator[T any] struct {
	msgIterator MessageIterator
	decode      DecodeFunc[T]
	logger      *slog.Logger
}

// NewIterator constructs an Iterator for the provided message source and
// decoder.
func NewIterator[T any](iterator MessageIterator, decode DecodeFunc[T], logger *slog.Logger) *Iterator[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Iterator[T]{
		msgIterator: iterator,
		decode:      decode,
		logger:      logger,
	}
}

// Objects starts a goroutine that:
//  1. Receives messages from the underlying MessageIterator
//  2. Decodes each message value
//  3. Emits a Delivery[T] on the returned channel
//
// A message that cannot be decoded is logged and committed so it is not
// redelivered. Decoded messages are committed by the receiver. The output
// channel is closed when the underlying Messages() channel is closed or ctx
// is done.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan *Delivery[T] {
	out := make(chan *Delivery[T])
	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-it.msgIterator.Messages():
				if !ok {
					return
				}
				data, err := it.decode(msg.Value)
				if err != nil {
					it.logger.Warn("skipping undecodable message", "topic", msg.Topic, "offset", msg.Offset, "error", err)
					if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
						it.logger.Warn("Failed to commit offset", "offset", msg.Offset, "error", err)
					}
					continue
				}
				d := &Delivery[T]{Data: data, Message: msg, commit: it.msgIterator.CommitOffset}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
