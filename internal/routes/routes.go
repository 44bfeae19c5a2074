package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/payment_instructions/internal/config"
	"github.com/congo-pay/payment_instructions/internal/instruction"
	"github.com/congo-pay/payment_instructions/internal/middleware"
	"github.com/congo-pay/payment_instructions/internal/notification"
	"github.com/congo-pay/payment_instructions/internal/payments"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	Cache  *redis.Client
	Logger *slog.Logger
	// Notifier receives decision events; nil falls back to logging them.
	Notifier notification.Notifier
	// Processor defaults to one on the system clock.
	Processor *instruction.Processor
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Cache == nil && !d.Cfg.IsDev() {
		return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cfg.IsDev() {
		// [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	if d.Cache != nil {
		app.Use(middleware.RateLimit(d.Cache, d.Cfg.RateLimitPerMinute, d.Logger))
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	processor := d.Processor
	if processor == nil {
		processor = instruction.NewProcessor()
	}
	notifier := d.Notifier
	if notifier == nil {
		notifier = notification.NewLoggerNotifier(d.Logger)
	}

	paymentSvc := payments.NewService(processor, notifier, d.Logger)
	RegisterPaymentRoutes(app, payments.NewHandler(paymentSvc))

	return nil
}
