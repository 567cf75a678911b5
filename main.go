package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skate-challenge-service/config"
	"skate-challenge-service/handlers"
	"skate-challenge-service/metrics"
	"skate-challenge-service/rules"
	"skate-challenge-service/services"
	"skate-challenge-service/store"
	"skate-challenge-service/utils"
	"skate-challenge-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore := openStore(ctx, cfg)
	defer closeStore()

	if cfg.SeedDemoData {
		if err := store.SeedDemoData(ctx, st, time.Now().UTC()); err != nil {
			log.Fatal("failed to seed demo data:", err)
		}
	}

	metrics.Register()

	engine := rules.NewEngine(nil, cfg.TurnWindow)
	challengeService := services.NewChallengeService(st, engine)
	userService := services.NewUserService(st)
	mediaService := services.NewMediaService(videoUploader(ctx, cfg), cfg.MaxVideoBytes)

	app := fiber.New(fiber.Config{
		Immutable: true,
		BodyLimit: int(cfg.MaxVideoBytes) + 1024*1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins(),
		AllowMethods: "GET,POST,PATCH,OPTIONS,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-User-ID",
		MaxAge:       86400,
	}))

	handlers.SetupChallengeRoutes(app, challengeService)
	handlers.SetupUserRoutes(app, userService, challengeService)
	handlers.SetupMediaRoutes(app, mediaService)
	handlers.SetupAdminRoutes(app, challengeService, cfg.AdminToken)

	app.Static("/uploads", cfg.UploadDir)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	sched, err := challengeService.StartExpiryScheduler(cfg.ExpirySweepInterval)
	if err != nil {
		log.Fatal("failed to start expiry scheduler:", err)
	}
	defer func() { _ = sched.Shutdown() }()

	if cfg.SyncServiceURL != "" {
		workers.NewUserSyncWorker(st, cfg.SyncServiceURL, cfg.SyncServiceToken, cfg.UserSyncInterval).Start(ctx)
		log.Println("✅ User Sync Worker running")
	}

	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost%s", cfg.Addr())
	log.Printf("✅ Expiry sweep every %s, turn window %s", cfg.ExpirySweepInterval, cfg.TurnWindow)
	log.Printf("✅ CORS configured for origins: %s", cfg.CORSOrigins())

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// openStore picks Postgres when DATABASE_URL is set and the in-memory store
// otherwise, wrapping either with the Redis list cache when REDIS_ADDR is set.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func()) {
	var st store.Store
	if cfg.DatabaseURL != "" {
		gs, err := store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database:", err)
		}
		log.Println("✅ Using Postgres store")
		st = gs
	} else {
		log.Println("⚠️  DATABASE_URL not set, using in-memory store")
		st = store.NewMemoryStore()
	}

	if cfg.RedisAddr == "" {
		return st, func() {}
	}
	cache, err := store.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, serving lists uncached: %v", err)
		return st, func() {}
	}
	log.Printf("✅ Caching challenge list in Redis at %s (ttl %s)", cfg.RedisAddr, cfg.ListCacheTTL)
	return store.NewCachedStore(st, cache, cfg.ListCacheTTL), func() { _ = cache.Close() }
}

// videoUploader returns R2 when configured and the local upload directory
// otherwise. A nil result disables the upload route.
func videoUploader(ctx context.Context, cfg config.Config) utils.VideoUploader {
	if cfg.R2.Enabled() {
		u, err := utils.NewR2Uploader(ctx, utils.R2Options{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			AccessKeySecret: cfg.R2.AccessKeySecret,
			Bucket:          cfg.R2.Bucket,
			CDNBaseURL:      cfg.R2.CDNBaseURL,
		})
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		log.Printf("✅ Video uploads go to R2 bucket %s", cfg.R2.Bucket)
		return u
	}

	u, err := utils.NewLocalUploader(cfg.UploadDir, "/uploads")
	if err != nil {
		log.Printf("⚠️  Upload dir %s unavailable, video uploads disabled: %v", cfg.UploadDir, err)
		return nil
	}
	log.Printf("✅ Video uploads saved under %s", cfg.UploadDir)
	return u
}
