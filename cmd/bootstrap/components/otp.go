package components

import (
	"log/slog"

	"librarium/internal/handler/api"
	"librarium/internal/infra/sms"
	"librarium/internal/otp"
	"librarium/internal/pkg/clock"
	"librarium/internal/pkg/config"

	"go.uber.org/fx"
)

var OTPModule = fx.Module("otp",
	fx.Provide(
		NewProviders,
		NewThrottle,
		NewBreaker,
		NewOTPService,
		func(svc *otp.Service) api.OTPVerifier { return svc },
	),
)

// NewProviders builds the delivery rotation. Without an API key the log
// provider stands in so local runs still complete the login flow.
func NewProviders(cfg config.Config, logger *slog.Logger) []otp.Provider {
	if cfg.OTP.KavenegarAPIKey == "" {
		return []otp.Provider{sms.NewLogProvider(logger)}
	}
	return []otp.Provider{
		sms.NewKavenegarProvider(cfg.OTP.KavenegarAPIKey),
		sms.NewLogProvider(logger),
	}
}

func NewThrottle(store otp.Store, clk clock.Clock, cfg config.Config) *otp.Throttle {
	return otp.NewThrottle(store, clk, otp.ThrottleConfig{
		BurstLimit:  cfg.OTP.BurstLimit,
		BurstWindow: cfg.OTP.BurstWindow,
		HourlyLimit: cfg.OTP.HourlyLimit,
	})
}

func NewBreaker(providers []otp.Provider, logger *slog.Logger) *otp.Breaker {
	return otp.NewBreaker(providers, logger)
}

func NewOTPService(store otp.Store, throttle *otp.Throttle, breaker *otp.Breaker, clk clock.Clock, logger *slog.Logger, cfg config.Config) *otp.Service {
	return otp.NewService(store, throttle, breaker, clk, logger, cfg.OTP.TTL)
}
