package domain

import "testing"

func int64Ptr(v int64) *int64 { return &v }

func TestNormalizePercentSources(t *testing.T) {
	cases := []struct {
		source RatingSource
		native float64
		want   float64
	}{
		{SourceMetacritic, 85, 8.5},
		{SourceMetacritic, 0, 0},
		{SourceRottenTomatoes, 100, 10},
		{SourceRottenTomatoes, 73, 7.3},
		{SourceRottenTomatoes, 120, 10},
		{SourceMetacritic, -5, 0},
		{SourceIMDb, 7.7, 7.7},
		{SourceTheMovieDB, 6.45, 6.45},
		{SourceFilmAffinity, 7, 7},
	}

	for _, tc := range cases {
		if got := tc.source.Normalize(tc.native); got != tc.want {
			t.Errorf("%s.Normalize(%v) = %v, want %v", tc.source, tc.native, got, tc.want)
		}
	}
}

func TestNewRatingSetMarksMissingSources(t *testing.T) {
	set := NewRatingSet(map[RatingSource]Score{
		SourceIMDb:       ScoreOf(7.0),
		SourceMetacritic: ScoreOf(85),
		SourceTheMovieDB: {},
	})

	if len(set) != len(RatingSources) {
		t.Fatalf("expected %d entries, got %d", len(RatingSources), len(set))
	}
	for i, source := range RatingSources {
		if set[i].Source != source {
			t.Fatalf("entry %d: expected %s, got %s", i, source, set[i].Source)
		}
	}
	if !set[1].Available || set[1].Value != 8.5 {
		t.Errorf("expected normalized metacritic 8.5, got %+v", set[1])
	}
	if set[2].Available || set[3].Available || set[4].Available {
		t.Errorf("expected missing sources to be unavailable: %+v", set)
	}
	if set.AvailableCount() != 2 {
		t.Errorf("expected 2 available, got %d", set.AvailableCount())
	}
}

func TestRatingSetAverage(t *testing.T) {
	set := NewRatingSet(map[RatingSource]Score{
		SourceIMDb:         ScoreOf(7.0),
		SourceMetacritic:   ScoreOf(85),
		SourceFilmAffinity: ScoreOf(6.0),
	})

	avg, ok := set.Average()
	if !ok {
		t.Fatalf("expected an average")
	}
	if avg != 7.167 {
		t.Fatalf("expected 7.167, got %v", avg)
	}
}

func TestRatingSetAverageEmpty(t *testing.T) {
	set := NewRatingSet(nil)
	if _, ok := set.Average(); ok {
		t.Fatalf("expected no average for empty set")
	}
}

func TestVoteCountTotal(t *testing.T) {
	if got := (&VoteCount{International: int64Ptr(1500)}).Total(); got != 1500 {
		t.Errorf("expected 1500, got %d", got)
	}
	if got := (&VoteCount{Domestic: int64Ptr(200), International: int64Ptr(300)}).Total(); got != 500 {
		t.Errorf("expected 500, got %d", got)
	}
	if got := (&VoteCount{}).Total(); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	var missing *VoteCount
	if got := missing.Total(); got != 0 {
		t.Errorf("expected 0 for nil, got %d", got)
	}
}

func TestSearchResultCandidates(t *testing.T) {
	results := make([]Title, 12)
	for i := range results {
		results[i] = Title{ID: string(rune('a' + i))}
	}
	r := &SearchResult{Results: results}

	got := r.Candidates(10)
	if len(got) != 10 {
		t.Fatalf("expected 10 candidates, got %d", len(got))
	}
	if got[0].ID != "a" || got[9].ID != "j" {
		t.Fatalf("candidates not in source order: %+v", got)
	}

	var empty *SearchResult
	if empty.Candidates(10) != nil {
		t.Fatalf("expected nil candidates for nil result")
	}
}

func TestTitleURL(t *testing.T) {
	if got := TitleURL("tt0139654"); got != "https://imdb.com/title/tt0139654" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestConversationIDFallsBackToSender(t *testing.T) {
	ctx := NewCommandContext("room-1", "alice", "", "/media x")
	if ctx.ConversationID() != "room-1:alice" {
		t.Fatalf("unexpected conversation id %q", ctx.ConversationID())
	}
	ctx.UserID = "42"
	if ctx.ConversationID() != "room-1:42" {
		t.Fatalf("unexpected conversation id %q", ctx.ConversationID())
	}
}
