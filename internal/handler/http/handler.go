package http

import (
	"time"

	"github.com/soclink/authcore/internal/config"
	"github.com/soclink/authcore/internal/logger"
	"github.com/soclink/authcore/internal/service"
)

type Handler struct {
	services *service.Services
	throttle *loginRateLimiter

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Security, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		throttle: newLoginRateLimiter(cfg.LoginThrottleMax, cfg.LoginThrottleWindow, time.Now),
		logger:   logger,
	}
}
