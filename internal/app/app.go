package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"interviewio/internal/cache"
	"interviewio/internal/collab"
	"interviewio/internal/config"
	"interviewio/internal/repository"
	"interviewio/internal/service"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App holds the connected stores and the services built on them
type App struct {
	Config *config.Config
	Speech *config.SpeechConfig

	Mongo *mongo.Client
	Redis *redis.Client

	RoomRepo repository.RoomRepo
	RunRepo  repository.RunRepo

	RoomCache      cache.RoomCache
	DocumentCache  cache.DocumentCache
	AwarenessCache cache.AwarenessCache
	OutputCache    cache.OutputCache

	Hub   *collab.Hub
	Relay *collab.RedisRelay

	AuthService   *service.AuthService
	RoomService   *service.RoomService
	RunService    *service.RunService
	SpeechService *service.SpeechService
}

// New connects to MongoDB and Redis and wires every service
func New(ctx context.Context, cfg *config.Config, speech *config.SpeechConfig) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	log.Println("Connected to Redis")

	a := &App{
		Config:         cfg,
		Speech:         speech,
		Mongo:          mongoClient,
		Redis:          rdb,
		RoomRepo:       repository.NewRoomRepo(db),
		RunRepo:        repository.NewRunRepo(db),
		RoomCache:      cache.NewRoomCache(rdb),
		DocumentCache:  cache.NewDocumentCache(rdb),
		AwarenessCache: cache.NewAwarenessCache(rdb),
		OutputCache:    cache.NewOutputCache(rdb),
	}

	// Collaboration hub, relayed across instances through Redis pub/sub
	a.Hub = collab.NewHub(cfg.InstanceID, a.DocumentCache, a.AwarenessCache)
	a.Relay = collab.NewRedisRelay(rdb)
	a.Hub.SetRelay(a.Relay)

	// Initialize services
	a.AuthService = service.NewAuthService(cfg.JWTSecret)
	a.RoomService = service.NewRoomService(a.RoomRepo, a.RoomCache, a.DocumentCache, a.AwarenessCache, a.AuthService)
	a.RunService = service.NewRunService(
		service.NewMockExecutor(cfg.ExecDelayMin, cfg.ExecDelayMax),
		a.RoomService,
		a.RoomCache,
		a.OutputCache,
		a.RunRepo,
	)
	a.SpeechService = service.NewSpeechService(speech)

	// The hub reports the room language in sync_init and carries service events
	a.Hub.SetLanguageSource(a.RoomService)
	a.RoomService.SetBroadcaster(a.Hub)
	a.RunService.SetBroadcaster(a.Hub)

	return a, nil
}

// Close releases the store connections
func (a *App) Close(ctx context.Context) {
	if err := a.Redis.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
}
