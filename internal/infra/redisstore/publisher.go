package redisstore

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"librarium/internal/domain/message"
	"librarium/internal/pkg/errs"
	"librarium/internal/usecase/shared"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the wire shape on pub/sub channels: the event name keys the
// payload so consumers can dispatch without knowing every type.
type envelope struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// NewPublisher returns a PublishFunc over Redis pub/sub.
func NewPublisher(client *redis.Client) shared.PublishFunc {
	return func(ctx context.Context, channel string, evt message.Event) error {
		data, err := json.Marshal(envelope{Name: evt.EventName(), Payload: evt})
		if err != nil {
			return errs.Wrap(err, "encode event for publish")
		}
		if err := client.Publish(ctx, channel, data).Err(); err != nil {
			return errs.Wrapf(err, "publish event %s", evt.EventName())
		}
		return nil
	}
}
