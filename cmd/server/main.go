package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postbatch/configs"
	"github.com/maheshrc27/postbatch/internal/api/handlers"
	job "github.com/maheshrc27/postbatch/internal/jobs"
	"github.com/maheshrc27/postbatch/internal/queue"
	"github.com/maheshrc27/postbatch/internal/repository"
	"github.com/maheshrc27/postbatch/internal/service"
	"github.com/maheshrc27/postbatch/internal/state"
	applog "github.com/maheshrc27/postbatch/pkg/logger"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	slog.SetDefault(applog.New(os.Stderr, cfg.LogLevel, cfg.LogFormat))

	ctx := context.Background()
	dates := repository.NewDateNormalizer(cfg.Location())
	store := repository.NewStoreClient(cfg.Store.URL, &http.Client{Timeout: cfg.Store.Timeout}, dates)

	appState := state.New(store, state.Options{
		MandatoryContent: cfg.MandatoryContent,
		DefaultAPIKey:    cfg.Gemini.APIKey,
	})
	defer appState.Close()

	db, history := openHistory(ctx, cfg)
	if db != nil {
		defer closeDB(db)
	}

	uploader := service.NewStoreUploader(store)
	if cfg.MediaBackend == "r2" {
		r2, err := service.NewR2Service(ctx, cfg.R2)
		if err != nil {
			log.Fatalf("Failed to configure R2: %v", err)
		}
		uploader = r2
	}

	var refresher service.Refresher = appState
	var asynqServer *asynq.Server
	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		client := asynq.NewClient(redisConn)
		defer client.Close()
		refresher = queue.NewDispatcher(client)

		asynqServer = asynq.NewServer(redisConn, asynq.Config{Concurrency: 2})
		mux := asynq.NewServeMux()
		queue.NewQueue(appState).Register(mux)

		go func() {
			log.Println("Starting the Asynq server...")
			if err := asynqServer.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	}

	generator := service.NewGenerativeService(cfg.Gemini.Model, cfg.Gemini.APIKey)
	postService := service.NewPostService(store, uploader, generator, history, dates,
		service.WithDraftSource(appState, refresher),
		service.WithUploadConcurrency(cfg.UploadConcurrency),
	)

	// Initial load: explicit posts fetch, destinations and config.
	_ = appState.RefreshDestinations(ctx)
	_ = appState.RefreshConfig(ctx)
	_ = appState.Refresh(ctx)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("request failed", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	handlers.Register(app, handlers.Deps{
		State:     appState,
		Store:     store,
		Posts:     postService,
		Generator: generator,
		History:   history,
	})

	refreshJob := job.NewRefreshJob(appState, cfg.Store.Timeout)
	c, err := job.Start(cfg.RefreshSchedule, refreshJob)
	if err != nil {
		log.Fatalf("Invalid refresh schedule %q: %v", cfg.RefreshSchedule, err)
	}

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ListenAddr)

	gracefulShutdown(app, c, asynqServer)
}

func openHistory(ctx context.Context, cfg *config.Config) (*sql.DB, repository.HistoryRepository) {
	if cfg.PostgresURI == "" {
		return nil, repository.NewNopHistoryRepository()
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}
	if err := repository.EnsureHistorySchema(ctx, db); err != nil {
		log.Fatalf("Failed to prepare history table: %v", err)
	}
	return db, repository.NewHistoryRepository(db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, c *cron.Cron, asynqServer *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	c.Stop()
	if asynqServer != nil {
		asynqServer.Shutdown()
	}

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}
