package command

import (
	"context"
	"fmt"

	"github.com/kapu/media-rating-bot-go/internal/dialogue"
	"github.com/kapu/media-rating-bot-go/internal/domain"
	"go.uber.org/zap"
)

// SelectCommand feeds a reply to the conversation's pending selection, if any.
type SelectCommand struct {
	deps *Dependencies
}

func NewSelectCommand(deps *Dependencies) *SelectCommand {
	return &SelectCommand{deps: deps}
}

func (c *SelectCommand) Name() string {
	return domain.CommandSelect.String()
}

func (c *SelectCommand) Description() string {
	return "Resolve a numbered pick from the last search"
}

func (c *SelectCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.ensureDeps(); err != nil {
		return err
	}

	conversationID := cmdCtx.ConversationID()
	session, err := c.deps.Sessions.Get(ctx, conversationID)
	if err != nil {
		// The pending list is unknown, so the user is told the lookup failed.
		c.deps.Logger.Warn("Session lookup failed", zap.String("conversation", conversationID), zap.Error(err))
		return c.deps.SendMessage(ctx, cmdCtx.Room, c.deps.Formatter.FormatNoResults())
	}
	if session == nil {
		// No dialogue in progress; plain chatter is not addressed to the bot.
		return nil
	}

	input, _ := params["input"].(string)
	outcome := dialogue.Transition(session, input)

	if !outcome.Resolved() {
		c.deps.Logger.Debug("Invalid selection",
			zap.String("conversation", conversationID),
			zap.String("input", input),
			zap.Int("candidates", len(session.Candidates)),
		)
		if outcome.Session != nil {
			if err := c.deps.Sessions.Save(ctx, outcome.Session); err != nil {
				c.deps.Logger.Warn("Failed to refresh session", zap.String("conversation", conversationID), zap.Error(err))
			}
		}
		return c.deps.sendAll(ctx, cmdCtx.Room, outcome.Replies...)
	}

	if err := c.deps.Sessions.Delete(ctx, conversationID); err != nil {
		c.deps.Logger.Warn("Failed to drop resolved session", zap.String("conversation", conversationID), zap.Error(err))
	}

	titleID := outcome.Selected.ID
	c.deps.Logger.Info("Title selected",
		zap.String("conversation", conversationID),
		zap.String("title_id", titleID),
		zap.String("title", outcome.Selected.Title),
	)

	summary := c.deps.Ratings.Summarize(ctx, titleID)
	return c.deps.sendAll(ctx, cmdCtx.Room,
		c.deps.Formatter.FormatRatings(summary.Ratings),
		c.deps.Formatter.FormatVotes(summary.Votes),
		c.deps.Formatter.FormatTitleLink(titleID),
	)
}

func (c *SelectCommand) ensureDeps() error {
	if c == nil || c.deps == nil {
		return fmt.Errorf("select command dependencies not configured")
	}
	if c.deps.SendMessage == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if c.deps.Ratings == nil || c.deps.Sessions == nil || c.deps.Formatter == nil {
		return fmt.Errorf("select command services not configured")
	}
	if c.deps.Logger == nil {
		c.deps.Logger = zap.NewNop()
	}
	return nil
}
