package bootstrap

import (
	"librarium/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	components.OTPModule,
	components.BusModule,
	components.HandlerModule,
)
