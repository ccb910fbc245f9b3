package command

import (
	"context"

	"github.com/kapu/media-rating-bot-go/internal/adapter"
	"github.com/kapu/media-rating-bot-go/internal/dialogue"
	"github.com/kapu/media-rating-bot-go/internal/domain"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// TitleSearcher answers free-text title searches.
type TitleSearcher interface {
	SearchTitles(ctx context.Context, query string) (*domain.SearchResult, error)
}

// RatingSummarizer produces the rating report for a resolved title.
type RatingSummarizer interface {
	Summarize(ctx context.Context, titleID string) *domain.RatingSummary
}

type Dependencies struct {
	Titles      TitleSearcher
	Ratings     RatingSummarizer
	Sessions    dialogue.Store
	Formatter   *adapter.ResponseFormatter
	SendMessage func(ctx context.Context, room, message string) error
	Logger      *zap.Logger
}

// sendAll sends messages in order and stops at the first failure.
func (d *Dependencies) sendAll(ctx context.Context, room string, messages ...string) error {
	for _, message := range messages {
		if err := d.SendMessage(ctx, room, message); err != nil {
			return err
		}
	}
	return nil
}
