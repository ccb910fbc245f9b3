package command

import (
	"context"
	"fmt"

	"github.com/kapu/media-rating-bot-go/internal/domain"
	"go.uber.org/zap"
)

// CancelCommand abandons a pending selection.
type CancelCommand struct {
	deps *Dependencies
}

func NewCancelCommand(deps *Dependencies) *CancelCommand {
	return &CancelCommand{deps: deps}
}

func (c *CancelCommand) Name() string {
	return domain.CommandCancel.String()
}

func (c *CancelCommand) Description() string {
	return "Drop the pending title selection"
}

func (c *CancelCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if c.deps == nil || c.deps.Sessions == nil || c.deps.SendMessage == nil || c.deps.Formatter == nil {
		return fmt.Errorf("cancel command dependencies not configured")
	}

	conversationID := cmdCtx.ConversationID()
	session, err := c.deps.Sessions.Get(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("cancel: %w", err)
	}

	if session != nil {
		if err := c.deps.Sessions.Delete(ctx, conversationID); err != nil {
			return fmt.Errorf("cancel: %w", err)
		}
		if c.deps.Logger != nil {
			c.deps.Logger.Info("Selection cancelled", zap.String("conversation", conversationID))
		}
	}

	return c.deps.SendMessage(ctx, cmdCtx.Room, c.deps.Formatter.FormatCancelled(session != nil))
}
