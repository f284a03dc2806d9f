package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/ShoaibShoukat2/AIAgents/config"
	"github.com/ShoaibShoukat2/AIAgents/internal/agents"
	"github.com/ShoaibShoukat2/AIAgents/internal/bootstrap"
	"github.com/ShoaibShoukat2/AIAgents/internal/pipeline"
	cronjob "github.com/ShoaibShoukat2/AIAgents/internal/projects/cron"
	"github.com/ShoaibShoukat2/AIAgents/internal/projects/events"
	"github.com/ShoaibShoukat2/AIAgents/internal/projects/repository"
	"github.com/ShoaibShoukat2/AIAgents/internal/projects/service"
	"github.com/ShoaibShoukat2/AIAgents/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	var (
		db        *sql.DB
		svcStore  service.ProjectStore
		cronStore cronjob.Store
		pipeStore pipeline.Store
	)
	if cfg.UseDatabase() {
		db, err = postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()

		repo := repository.NewProjectRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("database: %v", err)
		}
		svcStore, cronStore, pipeStore = repo, repo, repo
	} else {
		log.Println("No database configured, using in-memory project store")
		mem := repository.NewMemoryStore()
		svcStore, cronStore, pipeStore = mem, mem, mem
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	publisher := events.NewPublisher(redisClient)

	runner := pipeline.NewRunner(
		pipeStore,
		agents.NewDesigner(cfg.Pipeline.StageDelay),
		agents.NewReviewer(cfg.Pipeline.StageDelay),
		publisher,
		pipeline.Config{
			StageTimeout:  cfg.Pipeline.StageTimeout,
			StageAttempts: cfg.Pipeline.StageAttempts,
			MaxRevisions:  cfg.Pipeline.MaxRevisions,
		},
	)

	svc := service.New(svcStore, runner, publisher, cfg.Pipeline.RunTimeout)

	sweeper := cronjob.NewScheduler(cronStore, cfg.Pipeline.StaleAfter)
	sweeper.Start()
	defer sweeper.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: cfg.App.ServiceName,
		Version:     cfg.App.Version,
		DB:          db,
		Service:     svc,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	log.Fatal(r.Run(":" + cfg.Server.Port))
}
