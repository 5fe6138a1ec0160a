package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/config"
	"github.com/Windi-Fikriyansyah/gigboard/internal/db"
	"github.com/Windi-Fikriyansyah/gigboard/internal/handlers"
	"github.com/Windi-Fikriyansyah/gigboard/internal/logger"
	"github.com/Windi-Fikriyansyah/gigboard/internal/middleware"
	"github.com/Windi-Fikriyansyah/gigboard/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/identity"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
	"github.com/Windi-Fikriyansyah/gigboard/internal/store"
	"github.com/Windi-Fikriyansyah/gigboard/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	lg, err := logger.New(cfg.Production())
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, lg, "gigboard-api", cfg.OTelCollectorURL)
	if err != nil {
		lg.Fatal("init tracer", zap.Error(err))
	}
	defer shutdownTracer()

	gdb, err := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		lg.Fatal("connect database", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		lg.Fatal("migrate", zap.Error(err))
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, lg)
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Fatal("redis not reachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
	}

	var feed realtime.Feed
	switch cfg.ChangeFeed {
	case "redis":
		if rdb == nil {
			lg.Fatal("CHANGE_FEED=redis needs REDIS_ADDR")
		}
		feed = realtime.NewRedisFeed(rdb, lg)
	case "nats":
		feed, err = realtime.NewNATSFeed(cfg.NATSURL, lg)
		if err != nil {
			lg.Fatal("connect nats", zap.Error(err))
		}
	default:
		feed = realtime.NewLocalFeed()
	}
	defer feed.Close()

	hub := realtime.NewHub(lg)
	go hub.Run(ctx)
	if err := realtime.Relay(ctx, feed, hub); err != nil {
		lg.Fatal("subscribe change feed", zap.Error(err))
	}
	lg.Info("change feed ready", zap.String("feed", cfg.ChangeFeed))

	st := store.New(gdb)
	jobs := lifecycle.NewService(st, feed, lg)
	ident := identity.NewService(st, rdb, cfg.RoleCacheTTL, lg)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(lg),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: !strings.Contains(cfg.CORSOrigins, "*"),
	}))
	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	handlers.Routes(app, handlers.Deps{
		DB:              gdb,
		Jobs:            jobs,
		Identity:        ident,
		Hub:             hub,
		Limiter:         middleware.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, time.Minute),
		Logger:          lg,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		CookieSecure:    cfg.CookieSecure,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	})

	go func() {
		<-ctx.Done()
		lg.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			lg.Warn("http shutdown", zap.Error(err))
		}
	}()

	lg.Info("listening", zap.String("port", cfg.AppPort), zap.String("db", cfg.DBDriver))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		lg.Fatal("listen", zap.Error(err))
	}
}
