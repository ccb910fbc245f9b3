package app

import (
	"context"
	"fmt"

	"github.com/kapu/media-rating-bot-go/internal/adapter"
	"github.com/kapu/media-rating-bot-go/internal/bot"
	"github.com/kapu/media-rating-bot-go/internal/config"
	"github.com/kapu/media-rating-bot-go/internal/constants"
	"github.com/kapu/media-rating-bot-go/internal/dialogue"
	"github.com/kapu/media-rating-bot-go/internal/iris"
	"github.com/kapu/media-rating-bot-go/internal/server"
	"github.com/kapu/media-rating-bot-go/internal/service/cache"
	"github.com/kapu/media-rating-bot-go/internal/service/imdb"
	"github.com/kapu/media-rating-bot-go/internal/service/rating"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components like Bot.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	KeepAlive *server.Server

	botDeps *bot.Dependencies
	closers []func()
}

// NewBot instantiates a bot using the pre-built dependency graph.
func (c *Container) NewBot() (*bot.Bot, error) {
	if c == nil || c.botDeps == nil {
		return nil, fmt.Errorf("bot dependencies not initialized")
	}
	return bot.NewBot(c.botDeps)
}

// Close releases infrastructure opened by Build, in reverse order.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles all infrastructure services and returns a container capable of
// creating fully-wired bots. Redis is optional: without it sessions live in memory
// and responses are not cached.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Messaging primitives
	irisClient := iris.NewClient(cfg.Iris.BaseURL, cfg.Iris.Token, logger)
	irisWS := iris.NewWebSocket(cfg.Iris.WSURL, cfg.Iris.Token,
		constants.WebSocketConfig.MaxReconnectAttempts,
		constants.WebSocketConfig.ReconnectDelay,
		logger)
	messageAdapter := adapter.NewMessageAdapter(cfg.Bot.Prefix)
	formatter := adapter.NewResponseFormatter(cfg.Bot.Prefix)

	// Sessions and response cache
	var (
		sessions      dialogue.Store
		responseCache imdb.ResponseCache
	)
	if cfg.Redis.Enabled {
		cacheSvc, cacheErr := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", cacheErr)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
		sessions = dialogue.NewRedisStore(cacheSvc, cfg.Session.TTL)
		responseCache = cacheSvc
		logger.Info("Using Redis for sessions and response cache")
	} else {
		sessions = dialogue.NewMemoryStore(cfg.Session.TTL)
		logger.Info("Using in-memory sessions", zap.Duration("ttl", cfg.Session.TTL))
	}

	// Title database
	imdbClient, err := imdb.NewClient(imdb.ClientConfig{
		BaseURL: cfg.IMDb.BaseURL,
		APIKey:  cfg.IMDb.APIKey,
		Timeout: cfg.IMDb.Timeout,
	}, responseCache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create imdb client: %w", err)
	}
	aggregator := rating.NewAggregator(imdbClient, logger)

	if irisClient.Ping(ctx) {
		logger.Info("Iris reachable", zap.String("base_url", cfg.Iris.BaseURL))
	} else {
		logger.Warn("Iris not reachable yet, replies may fail until it is up", zap.String("base_url", cfg.Iris.BaseURL))
	}

	var keepAlive *server.Server
	if cfg.KeepAlive.Enabled {
		keepAlive = server.NewServer(cfg.KeepAlive.Host, cfg.KeepAlive.Port, logger)
		keepAlive.SetTransportState(irisWS.GetState().String())
		closers = append(closers, irisWS.OnStateChange(transportStateObserver(keepAlive)))
	}

	deps := &bot.Dependencies{
		Logger:         logger,
		Messenger:      irisClient,
		Listener:       irisWS,
		MessageAdapter: messageAdapter,
		Formatter:      formatter,
		Titles:         imdbClient,
		Ratings:        aggregator,
		Sessions:       sessions,
	}

	return &Container{
		Config:    cfg,
		Logger:    logger,
		KeepAlive: keepAlive,
		botDeps:   deps,
		closers:   closers,
	}, nil
}

// transportStateObserver mirrors WebSocket state changes on /health.
func transportStateObserver(keepAlive *server.Server) iris.StateCallback {
	return func(state iris.WebSocketState) {
		keepAlive.SetTransportState(state.String())
	}
}
