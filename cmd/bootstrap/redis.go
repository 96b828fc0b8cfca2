package bootstrap

import (
	"context"

	"librarium/internal/infra/redisstore"
	"librarium/internal/otp"
	"librarium/internal/pkg/config"
	"librarium/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
		fx.Annotate(
			redisstore.NewStore,
			fx.As(new(otp.Store)),
		),
		func(client *redis.Client) shared.PublishFunc {
			return redisstore.NewPublisher(client)
		},
	),
)

func NewRedis(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	client, cleanup, err := redisstore.Connect(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return client, nil
}
