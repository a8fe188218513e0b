package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	config "github.com/gridloom/feedplanner/configs"
	"github.com/gridloom/feedplanner/internal/ai"
	"github.com/gridloom/feedplanner/internal/api/handlers"
	"github.com/gridloom/feedplanner/internal/api/middleware"
	"github.com/gridloom/feedplanner/internal/cache"
	job "github.com/gridloom/feedplanner/internal/jobs"
	"github.com/gridloom/feedplanner/internal/queue"
	"github.com/gridloom/feedplanner/internal/repository"
	"github.com/gridloom/feedplanner/internal/service"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	completer, err := ai.NewGeminiCompleter(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	brandProfileRepo := repository.NewBrandProfileRepository(db)
	trainedModelRepo := repository.NewTrainedModelRepository(db)
	layoutRepo := repository.NewLayoutRepository(db)
	postRepo := repository.NewPostRepository(db)
	bioRepo := repository.NewBioRepository(db)

	researchCache := cache.NewResearchCache(rdb, 24*time.Hour)

	researchService := service.NewResearchService(completer, researchCache)
	analysisService := service.NewAnalysisService(completer)
	layoutService := service.NewLayoutService(completer)
	compositionService := service.NewCompositionService(completer, postRepo)
	bioService := service.NewBioService(completer)
	archiveService := service.NewArchiveService(*cfg)

	plannerService := service.NewPlannerService(brandProfileRepo, trainedModelRepo, layoutRepo, postRepo, bioRepo, service.StageSet{
		Research:    researchService,
		Analysis:    analysisService,
		Layout:      layoutService,
		Composition: compositionService,
		Bio:         bioService,
		Archive:     archiveService,
	})

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	plan := handlers.NewPlanHandler(plannerService, client)
	api.Post("/feed-plans", plan.CreatePlan)
	api.Post("/feed-plans/async", plan.CreatePlanAsync)
	api.Get("/feed-plans", plan.ListPlans)
	api.Get("/feed-plans/:id", plan.GetPlan)

	// cron jobs
	refreshJob := job.NewResearchRefreshJob(brandProfileRepo, researchService)

	//queue
	queueW := queue.NewQueue(plannerService)

	c := cron.New()
	c.AddFunc("@every 24h00m00s", refreshJob.Refresh)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 5,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePlanFeed, queueW.HandlePlanFeedTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
