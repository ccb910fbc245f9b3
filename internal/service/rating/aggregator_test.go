package rating

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/kapu/media-rating-bot-go/internal/domain"
	"go.uber.org/zap"
)

type fakeSource struct {
	scores     map[domain.RatingSource]domain.Score
	votes      *domain.VoteCount
	ratingsErr error
	votesErr   error
	calls      atomic.Int32
}

func (f *fakeSource) GetRatings(_ context.Context, _ string) (map[domain.RatingSource]domain.Score, error) {
	f.calls.Add(1)
	return f.scores, f.ratingsErr
}

func (f *fakeSource) GetVoteCount(_ context.Context, _ string) (*domain.VoteCount, error) {
	f.calls.Add(1)
	return f.votes, f.votesErr
}

func TestSummarizeCombinesBothLookups(t *testing.T) {
	international := int64(1500)
	source := &fakeSource{
		scores: map[domain.RatingSource]domain.Score{
			domain.SourceIMDb:         domain.ScoreOf(7.0),
			domain.SourceMetacritic:   domain.ScoreOf(85),
			domain.SourceFilmAffinity: domain.ScoreOf(6.0),
		},
		votes: &domain.VoteCount{International: &international},
	}

	summary := NewAggregator(source, zap.NewNop()).Summarize(context.Background(), "tt0139654")

	if source.calls.Load() != 2 {
		t.Fatalf("expected both lookups, got %d", source.calls.Load())
	}
	if summary.TitleID != "tt0139654" {
		t.Fatalf("unexpected title id %q", summary.TitleID)
	}
	if avg, ok := summary.Ratings.Average(); !ok || avg != 7.167 {
		t.Fatalf("expected average 7.167, got %v (ok=%v)", avg, ok)
	}
	if summary.Votes.Total() != 1500 {
		t.Fatalf("expected 1500 votes, got %d", summary.Votes.Total())
	}
}

func TestSummarizeDegradesOnFailures(t *testing.T) {
	source := &fakeSource{
		scores:     map[domain.RatingSource]domain.Score{domain.SourceIMDb: domain.ScoreOf(9)},
		ratingsErr: errors.New("404"),
		votesErr:   errors.New("timeout"),
	}

	summary := NewAggregator(source, nil).Summarize(context.Background(), "tt1")

	if summary.Ratings.AvailableCount() != 0 {
		t.Fatalf("failed lookup must not contribute ratings: %+v", summary.Ratings)
	}
	if len(summary.Ratings) != len(domain.RatingSources) {
		t.Fatalf("expected every source listed, got %d", len(summary.Ratings))
	}
	if summary.Votes != nil {
		t.Fatalf("expected absent votes, got %+v", summary.Votes)
	}
}
