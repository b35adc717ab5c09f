package main

import (
	"context"
	"path/filepath"
	"time"

	"sea-u/config"
	"sea-u/internal/events"
	"sea-u/internal/handler"
	"sea-u/internal/redis"
	"sea-u/internal/repository"
	"sea-u/internal/repository/memory"
	"sea-u/internal/server"
	"sea-u/internal/services"
	"sea-u/internal/storage"
	"sea-u/internal/websocket"
	"sea-u/pkg/database"
	"sea-u/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const profileCacheTTL = 5 * time.Minute

type stores struct {
	profiles      repository.ProfileRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	health        func(ctx context.Context) error
	closeFn       func()
}

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := openStores(ctx, cfg, l)
	defer st.closeFn()

	rdb := connectRedis(ctx, cfg, l)
	bus := events.NewBus(0)
	defer bus.Close()

	st.messages = wireNotifications(ctx, cfg, l, st.messages, bus, rdb)

	var (
		onlineStore     websocket.OnlineStore
		presenceReader  services.PresenceReader
		limiter         *redis.RateLimiter
		settingsStorage services.Storage
	)
	if rdb != nil {
		presence := redis.NewPresenceStore(rdb, time.Duration(cfg.PresenceTTLSec)*time.Second)
		onlineStore, presenceReader = presence, presence
		rl := redis.DefaultRateLimitConfig()
		rl.MessageLimit = cfg.MessageRateLimit
		rl.LookupLimit = cfg.LookupRateLimit
		limiter = redis.NewRateLimiter(rdb, rl)
		st.profiles = redis.NewCachedProfileRepository(st.profiles, rdb, profileCacheTTL)
	}
	settingsStorage = openSettingsStorage(cfg, l, rdb)

	var uploader services.ExportUploader
	if cfg.S3Enabled() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PresignTTL: time.Duration(cfg.S3PresignMin) * time.Minute,
		})
		if err != nil {
			l.Logger.Fatal("s3 client", zap.Error(err))
		}
		uploader = s3Client
	}

	tracker := websocket.NewPresenceTracker(onlineStore, st.profiles, l)
	hub := websocket.NewHub(tracker)
	if presenceReader == nil {
		presenceReader = hub
	}

	auth := services.NewAuthService(cfg)
	resolver := services.NewConversationResolver(st.conversations)
	directory := services.NewDirectoryService(st.profiles, resolver, presenceReader, l)
	lists := services.NewConversationListBuilder(st.conversations, st.profiles, st.messages)
	messageService := services.NewMessageService(st.conversations, st.messages, bus)
	settingsService := services.NewSettingsService(settingsStorage, uploader, l)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		User:         handler.NewUserHandler(directory),
		Conversation: handler.NewConversationHandler(directory, lists),
		Message:      handler.NewMessageHandler(messageService),
		Settings:     handler.NewSettingsHandler(settingsService),
		WebSocket: websocket.NewHandler(websocket.HandlerDeps{
			Lists:         lists,
			Conversations: st.conversations,
			Subscriber:    bus,
			Messages:      messageService,
			Hub:           hub,
			Presence:      tracker,
			Limiter:       limiter,
			Logger:        l,
		}),
	}, server.Deps{
		Auth:    auth,
		Limiter: limiter,
		Health: func(ctx context.Context) error {
			if err := st.health(ctx); err != nil {
				return err
			}
			if rdb != nil {
				return redis.Ping(ctx, rdb)
			}
			return nil
		},
	})
	srv.OnShutdown(hub.CloseAll)
	srv.OnShutdown(cancel)

	if err := srv.Start(); err != nil {
		l.Errorf("server stopped with error: %s", err)
	}
}

func openStores(ctx context.Context, cfg *config.Config, l *logger.Logger) *stores {
	if cfg.StoreDriver == config.StoreMemory {
		store := memory.New()
		st := &stores{
			profiles:      store.Profiles(),
			conversations: store.Conversations(),
			messages:      store.Messages(),
			health:        func(context.Context) error { return nil },
			closeFn:       func() {},
		}
		result, err := database.SeedDevelopment(ctx, database.SeedTargets{
			Profiles:      st.profiles,
			Conversations: st.conversations,
			Messages:      st.messages,
		})
		if err != nil {
			l.Logger.Fatal("seed memory store", zap.Error(err))
		}
		l.Logger.Info("memory store seeded",
			zap.String("me", result.Me.SeaID), zap.Int("contacts", len(result.Contacts)))
		return st
	}

	db, err := database.Connect(cfg)
	if err != nil {
		l.Logger.Fatal("database connect", zap.Error(err))
	}
	if err := database.ApplyRawMigrations(db, "migrations"); err != nil {
		l.Logger.Fatal("apply migrations", zap.Error(err))
	}
	return &stores{
		profiles:      repository.NewProfileRepository(db),
		conversations: repository.NewConversationRepository(db),
		messages:      repository.NewMessageRepository(db),
		health:        func(context.Context) error { return database.HealthCheck(db) },
		closeFn:       func() { database.Close(db) },
	}
}

// connectRedis returns nil when Redis is not configured or not reachable.
func connectRedis(ctx context.Context, cfg *config.Config, l *logger.Logger) *goredis.Client {
	if !cfg.RedisEnabled() {
		return nil
	}
	client := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redis.Ping(pingCtx, client); err != nil {
		l.Logger.Warn("redis unavailable, presence, rate limits and caching are off", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

// wireNotifications connects message inserts to the bus. With the postgres
// driver a trigger announces every insert, whoever made it. The redis driver
// relays between instances. The memory driver publishes in process.
func wireNotifications(ctx context.Context, cfg *config.Config, l *logger.Logger, messages repository.MessageRepository, bus *events.Bus, rdb *goredis.Client) repository.MessageRepository {
	driver := cfg.NotifyDriver
	if driver == config.NotifyPostgres && cfg.StoreDriver == config.StoreMemory {
		l.Logger.Warn("postgres notifications need the postgres store, using in-process notifications")
		driver = config.NotifyMemory
	}
	if driver == config.NotifyRedis && rdb == nil {
		l.Logger.Warn("redis notifications need redis, using in-process notifications")
		driver = config.NotifyMemory
	}

	switch driver {
	case config.NotifyPostgres:
		listener := events.NewPgListener(cfg.PostgresDSN(), cfg.NotifyChan, messages, bus, l)
		go func() {
			if err := listener.Run(ctx); err != nil {
				l.Logger.Error("notification listener stopped", zap.Error(err))
			}
		}()
		return messages
	case config.NotifyRedis:
		source := events.NewRedisSource(rdb, bus, l)
		go func() {
			if err := source.Run(ctx); err != nil {
				l.Logger.Error("redis relay stopped", zap.Error(err))
			}
		}()
		return repository.NewNotifyingMessageRepository(messages, events.NewRedisPublisher(rdb))
	default:
		return repository.NewNotifyingMessageRepository(messages, bus)
	}
}

// openSettingsStorage prefers an explicit directory, then Redis, then a
// directory under the working dir.
func openSettingsStorage(cfg *config.Config, l *logger.Logger, rdb *goredis.Client) services.Storage {
	if cfg.SettingsDir == "" && rdb != nil {
		return redis.NewKVStore(rdb)
	}
	dir := cfg.SettingsDir
	if dir == "" {
		dir = filepath.Join("data", "settings")
	}
	files, err := storage.NewFileStore(dir)
	if err != nil {
		l.Logger.Fatal("settings storage", zap.Error(err))
	}
	return files
}
