package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/media-rating-bot-go/internal/constants"
	"github.com/kapu/media-rating-bot-go/internal/dialogue"
	"github.com/kapu/media-rating-bot-go/internal/domain"
	"github.com/kapu/media-rating-bot-go/pkg/errors"
	"go.uber.org/zap"
)

// MediaCommand searches titles and opens a selection dialogue over the first results.
type MediaCommand struct {
	deps *Dependencies
}

func NewMediaCommand(deps *Dependencies) *MediaCommand {
	return &MediaCommand{deps: deps}
}

func (c *MediaCommand) Name() string {
	return domain.CommandMedia.String()
}

func (c *MediaCommand) Description() string {
	return "Search a title and pick one to see its ratings"
}

func (c *MediaCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.ensureDeps(); err != nil {
		return err
	}

	rawQuery, _ := params["query"].(string)
	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return c.deps.SendMessage(ctx, cmdCtx.Room, c.deps.Formatter.FormatUsage())
	}

	if err := c.deps.SendMessage(ctx, cmdCtx.Room, c.deps.Formatter.FormatSearching(query)); err != nil {
		return err
	}

	c.deps.Logger.Info("Searching titles",
		zap.String("query", query),
		zap.String("conversation", cmdCtx.ConversationID()),
	)

	result, err := c.deps.Titles.SearchTitles(ctx, query)
	if err != nil {
		c.deps.Logger.Warn("Title search failed", zap.String("query", query), zap.Error(err))
		result = nil
	}

	if result.HasError() {
		return c.deps.SendMessage(ctx, cmdCtx.Room, result.ErrorMessage)
	}

	candidates := result.Candidates(constants.InputLimits.MaxCandidates)
	if len(candidates) == 0 {
		return c.deps.SendMessage(ctx, cmdCtx.Room, c.deps.Formatter.FormatNoResults())
	}

	// The session is stored before the prompt goes out so a fast reply finds it.
	session := dialogue.NewSession(cmdCtx.ConversationID(), query, candidates)
	if err := c.deps.Sessions.Save(ctx, session); err != nil {
		return errors.NewServiceError("failed to store selection session", "dialogue", "save", err)
	}

	return c.deps.sendAll(ctx, cmdCtx.Room,
		c.deps.Formatter.FormatCandidates(candidates),
		dialogue.SelectionPrompt,
	)
}

func (c *MediaCommand) ensureDeps() error {
	if c == nil || c.deps == nil {
		return fmt.Errorf("media command dependencies not configured")
	}
	if c.deps.SendMessage == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if c.deps.Titles == nil || c.deps.Sessions == nil || c.deps.Formatter == nil {
		return fmt.Errorf("media command services not configured")
	}
	if c.deps.Logger == nil {
		c.deps.Logger = zap.NewNop()
	}
	return nil
}
