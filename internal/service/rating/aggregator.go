// Package rating combines per-source scores and vote counts for a selected title.
package rating

import (
	"context"

	"github.com/kapu/media-rating-bot-go/internal/domain"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Source is the part of the title database the aggregator reads.
type Source interface {
	GetRatings(ctx context.Context, titleID string) (map[domain.RatingSource]domain.Score, error)
	GetVoteCount(ctx context.Context, titleID string) (*domain.VoteCount, error)
}

type Aggregator struct {
	source Source
	logger *zap.Logger
}

func NewAggregator(source Source, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{source: source, logger: logger}
}

// Summarize fetches ratings and votes for titleID. Lookup failures degrade to absent data
// and are never returned to the caller.
func (a *Aggregator) Summarize(ctx context.Context, titleID string) *domain.RatingSummary {
	var (
		scores  map[domain.RatingSource]domain.Score
		votes   *domain.VoteCount
		rateErr error
		voteErr error
		wg      conc.WaitGroup
	)

	wg.Go(func() {
		scores, rateErr = a.source.GetRatings(ctx, titleID)
	})
	wg.Go(func() {
		votes, voteErr = a.source.GetVoteCount(ctx, titleID)
	})
	wg.Wait()

	if rateErr != nil {
		a.logger.Warn("Ratings unavailable", zap.String("title_id", titleID), zap.Error(rateErr))
		scores = nil
	}
	if voteErr != nil {
		a.logger.Warn("Vote count unavailable", zap.String("title_id", titleID), zap.Error(voteErr))
		votes = nil
	}

	summary := &domain.RatingSummary{
		TitleID: titleID,
		Ratings: domain.NewRatingSet(scores),
		Votes:   votes,
	}

	avg, ok := summary.Ratings.Average()
	a.logger.Info("Ratings aggregated",
		zap.String("title_id", titleID),
		zap.Int("available_sources", summary.Ratings.AvailableCount()),
		zap.Bool("has_average", ok),
		zap.Float64("average", avg),
		zap.Int64("votes", votes.Total()),
	)

	return summary
}
