package service

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// MessageIterator defines the contract for consuming messages from a Kafka topic.
// It is used by the service's Iterator to abstract away the details of the
// underlying Kafka consumer.
//
// Implementations are responsible for the lifecycle of the consumer connection.
type MessageIterator interface {
	// Messages returns a receive-only channel of Kafka messages. The channel
	// is closed by the implementation when the consumer is stopped or the
	// underlying source is exhausted.
	Messages() <-chan kafka.Message

	// CommitOffset acknowledges that a message has been successfully processed.
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// DecodeFunc turns a message payload into a T.
type DecodeFunc[T any] func(value []byte) (T, error)

// JSON decodes payloads as JSON into a T.
func JSON[T any]() DecodeFunc[T] {
	return func(value []byte) (T, error) {
		var v T
		err := json.Unmarshal(value, &v)
		return v, err
	}
}

// Delivery pairs a decoded payload with the message that carried it. The
// message offset is committed only when the receiver calls Commit.
type Delivery[T any] struct {
	Data    T
	Message kafka.Message
	commit  func(ctx context.Context, msg kafka.Message) error
}

func (d *Delivery[T]) Commit(ctx context.Context) error {
	return d.commit(ctx, d.Message)
}
