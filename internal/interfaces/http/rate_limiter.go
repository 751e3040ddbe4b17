package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/pkg/logger"
)

// RateLimit peticiones por minuto y ráfaga por IP. PerMinute <= 0 desactiva el límite.
type RateLimit struct {
	PerMinute int
	Burst     int
}

// limiterStore un limitador por IP.
type limiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[ip]
	if !ok {
		l = rate.NewLimiter(s.every, s.burst)
		s.limiters[ip] = l
	}
	return l
}

// RateLimitMiddleware responde 429 cuando la IP supera su cuota.
func RateLimitMiddleware(cfg RateLimit, log *logger.Logger) fiber.Handler {
	if cfg.PerMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("ratelimit")
	store := &limiterStore{
		limiters: map[string]*rate.Limiter{},
		every:    rate.Every(time.Minute / time.Duration(cfg.PerMinute)),
		burst:    cfg.Burst,
	}
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !store.get(ip).Allow() {
			log.Warn().Str("ip", ip).Str("path", c.Path()).Msg("límite de peticiones excedido")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiadas peticiones, intente más tarde",
			})
		}
		return c.Next()
	}
}
