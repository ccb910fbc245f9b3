// Package bot routes inbound chat messages to command handlers.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kapu/media-rating-bot-go/internal/adapter"
	"github.com/kapu/media-rating-bot-go/internal/command"
	"github.com/kapu/media-rating-bot-go/internal/constants"
	"github.com/kapu/media-rating-bot-go/internal/dialogue"
	"github.com/kapu/media-rating-bot-go/internal/domain"
	"github.com/kapu/media-rating-bot-go/internal/iris"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Messenger delivers replies to a chat room.
type Messenger interface {
	SendMessage(ctx context.Context, room, message string) error
}

// Listener is the inbound message feed.
type Listener interface {
	Connect(ctx context.Context) error
	OnMessage(callback iris.MessageCallback) func()
	Disconnect() error
}

// Dependencies wires the bot to its transport and services.
type Dependencies struct {
	Logger         *zap.Logger
	Messenger      Messenger
	Listener       Listener
	MessageAdapter *adapter.MessageAdapter
	Formatter      *adapter.ResponseFormatter
	Titles         command.TitleSearcher
	Ratings        command.RatingSummarizer
	Sessions       dialogue.Store
	// MaxConcurrent bounds how many messages are handled at once. 0 uses the default.
	MaxConcurrent int
}

type Bot struct {
	logger         *zap.Logger
	messenger      Messenger
	listener       Listener
	messageAdapter *adapter.MessageAdapter
	registry       *command.Registry
	dispatcher     command.Dispatcher
	handleTimeout  time.Duration

	workers     *pool.Pool
	lanes       *conversationLanes
	inflight    sync.WaitGroup
	unsubscribe func()
	mu          sync.Mutex
	stopped     bool
}

func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("bot dependencies must not be nil")
	}
	if deps.Messenger == nil {
		return nil, fmt.Errorf("messenger must not be nil")
	}
	if deps.Titles == nil || deps.Ratings == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("title, rating and session services are required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	messageAdapter := deps.MessageAdapter
	if messageAdapter == nil {
		messageAdapter = adapter.NewMessageAdapter("/")
	}
	formatter := deps.Formatter
	if formatter == nil {
		formatter = adapter.NewResponseFormatter(messageAdapter.Prefix())
	}
	maxConcurrent := deps.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = constants.BotConfig.MaxConcurrentMessages
	}

	b := &Bot{
		logger:         logger,
		messenger:      deps.Messenger,
		listener:       deps.Listener,
		messageAdapter: messageAdapter,
		handleTimeout:  constants.BotConfig.HandleTimeout,
		workers:        pool.New().WithMaxGoroutines(maxConcurrent),
		lanes:          newConversationLanes(),
	}

	b.registry = command.NewDefaultRegistry(&command.Dependencies{
		Titles:      deps.Titles,
		Ratings:     deps.Ratings,
		Sessions:    deps.Sessions,
		Formatter:   formatter,
		SendMessage: b.sendMessage,
		Logger:      logger,
	})
	b.dispatcher = command.NewSequentialDispatcher(b.registry, nil)

	logger.Info("Bot initialized", zap.Int("commands", b.registry.Count()))
	return b, nil
}

// Start subscribes to the message feed, connects, and blocks until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	if b.listener == nil {
		return fmt.Errorf("message listener not configured")
	}

	b.mu.Lock()
	b.unsubscribe = b.listener.OnMessage(func(message *iris.Message) {
		b.dispatch(ctx, message)
	})
	b.mu.Unlock()

	if err := b.listener.Connect(ctx); err != nil {
		// The listener keeps retrying in the background.
		b.logger.Warn("Initial connection failed", zap.Error(err))
	}

	b.logger.Info("Bot is listening for messages")
	<-ctx.Done()
	return nil
}

// dispatch hands a message to the worker pool; messages arriving after shutdown are dropped.
func (b *Bot) dispatch(ctx context.Context, message *iris.Message) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.inflight.Add(1)
	b.mu.Unlock()

	// Go blocks while every worker is busy, which throttles the feed.
	b.workers.Go(func() {
		defer b.inflight.Done()
		b.HandleMessage(ctx, message)
	})
}

// HandleMessage processes one inbound message to completion.
func (b *Bot) HandleMessage(ctx context.Context, message *iris.Message) {
	if message == nil {
		return
	}

	parsed := b.messageAdapter.ParseMessage(message)
	event, ok := toEvent(parsed)
	if !ok {
		return
	}

	cmdCtx := domain.NewCommandContext(message.Room, message.SenderName(), message.UserID(), message.Msg)
	cmdCtx.RequestID = uuid.NewString()

	logger := b.logger.With(
		zap.String("request_id", cmdCtx.RequestID),
		zap.String("room", cmdCtx.Room),
		zap.String("command", event.Type.String()),
	)
	logger.Debug("Handling message", zap.String("sender", cmdCtx.Sender))

	// One message at a time per conversation so a dialogue resolves at most once.
	unlock := b.lanes.lock(cmdCtx.ConversationID())
	defer unlock()

	handleCtx, cancel := context.WithTimeout(ctx, b.handleTimeout)
	defer cancel()

	start := time.Now()
	if _, err := b.dispatcher.Publish(handleCtx, cmdCtx, event); err != nil {
		logger.Error("Command failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return
	}
	logger.Debug("Message handled", zap.Duration("elapsed", time.Since(start)))
}

// toEvent maps a parsed message to a command event. Free text is offered to the
// selection dialogue, which ignores it when no session is pending.
func toEvent(parsed *adapter.ParsedCommand) (command.CommandEvent, bool) {
	if parsed == nil {
		return command.CommandEvent{}, false
	}
	if parsed.Type == domain.CommandUnknown {
		if parsed.RawMessage == "" {
			return command.CommandEvent{}, false
		}
		return command.CommandEvent{
			Type:   domain.CommandSelect,
			Params: map[string]any{"input": parsed.RawMessage},
		}, true
	}
	return command.CommandEvent{Type: parsed.Type, Params: parsed.Params}, true
}

func (b *Bot) sendMessage(ctx context.Context, room, message string) error {
	if err := b.messenger.SendMessage(ctx, room, message); err != nil {
		return fmt.Errorf("send to %s: %w", room, err)
	}
	return nil
}

// Shutdown stops the feed and waits for in-flight messages until ctx expires.
func (b *Bot) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil
	}
	b.stopped = true
	unsubscribe := b.unsubscribe
	b.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	var disconnectErr error
	if b.listener != nil {
		disconnectErr = b.listener.Disconnect()
	}

	done := make(chan struct{})
	go func() {
		// Every workers.Go call happened before its task finished, so the pool is idle here.
		b.inflight.Wait()
		b.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("Bot stopped")
	case <-ctx.Done():
		b.logger.Warn("Timed out waiting for in-flight messages")
		return ctx.Err()
	}
	return disconnectErr
}
