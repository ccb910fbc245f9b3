package command

import (
	"context"
	"fmt"

	"github.com/kapu/media-rating-bot-go/internal/domain"
)

type StartCommand struct {
	deps *Dependencies
}

func NewStartCommand(deps *Dependencies) *StartCommand {
	return &StartCommand{deps: deps}
}

func (c *StartCommand) Name() string {
	return domain.CommandStart.String()
}

func (c *StartCommand) Description() string {
	return "Show how to search for a title"
}

func (c *StartCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, _ map[string]any) error {
	if c.deps == nil || c.deps.SendMessage == nil || c.deps.Formatter == nil {
		return fmt.Errorf("start command dependencies not configured")
	}
	return c.deps.SendMessage(ctx, cmdCtx.Room, c.deps.Formatter.FormatStart())
}
