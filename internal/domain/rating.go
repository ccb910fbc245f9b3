package domain

import (
	"github.com/kapu/media-rating-bot-go/internal/util"
)

// RatingSource names one of the rating providers reported for a title.
type RatingSource string

const (
	SourceIMDb           RatingSource = "IMDB"
	SourceMetacritic     RatingSource = "Metacritic"
	SourceTheMovieDB     RatingSource = "TheMovieDB"
	SourceRottenTomatoes RatingSource = "RottenTomatoes"
	SourceFilmAffinity   RatingSource = "FilmAffinity"
)

// RatingSources lists every source in display order.
var RatingSources = []RatingSource{
	SourceIMDb,
	SourceMetacritic,
	SourceTheMovieDB,
	SourceRottenTomatoes,
	SourceFilmAffinity,
}

func (s RatingSource) String() string {
	return string(s)
}

// NativeScale is the upper bound of the source's own rating range.
func (s RatingSource) NativeScale() float64 {
	switch s {
	case SourceMetacritic, SourceRottenTomatoes:
		return 100
	default:
		return 10
	}
}

// Normalize maps a native value onto the common 0-10 scale.
// Percent-based sources are clamped to 0-100 and rounded to one decimal.
func (s RatingSource) Normalize(native float64) float64 {
	scale := s.NativeScale()
	if scale == 10 {
		return native
	}
	return util.RoundTo(util.Clamp(native, 0, scale)*10/scale, 1)
}

// Score is an optional number as reported by the data source.
type Score struct {
	Value float64
	Valid bool
}

// ScoreOf wraps a present value.
func ScoreOf(v float64) Score {
	return Score{Value: v, Valid: true}
}

// RatingEntry is one line of a RatingSet.
type RatingEntry struct {
	Source    RatingSource
	Value     float64
	Available bool
}

// RatingSet holds one entry per RatingSources element, normalized to 0-10.
type RatingSet []RatingEntry

// NewRatingSet normalizes native scores. Sources missing from native are unavailable.
func NewRatingSet(native map[RatingSource]Score) RatingSet {
	set := make(RatingSet, 0, len(RatingSources))
	for _, source := range RatingSources {
		entry := RatingEntry{Source: source}
		if score, ok := native[source]; ok && score.Valid {
			entry.Value = source.Normalize(score.Value)
			entry.Available = true
		}
		set = append(set, entry)
	}
	return set
}

// AvailableCount returns how many sources carry a number.
func (rs RatingSet) AvailableCount() int {
	n := 0
	for _, e := range rs {
		if e.Available {
			n++
		}
	}
	return n
}

// Average is the mean of available values rounded to 3 decimals; ok is false when none are available.
func (rs RatingSet) Average() (avg float64, ok bool) {
	var sum float64
	n := 0
	for _, e := range rs {
		if !e.Available {
			continue
		}
		sum += e.Value
		n++
	}
	if n == 0 {
		return 0, false
	}
	return util.RoundTo(sum/float64(n), 3), true
}

// VoteCount splits user votes into US (domestic) and non-US (international) buckets.
type VoteCount struct {
	Domestic      *int64
	International *int64
}

// Total sums both buckets, counting an absent bucket as zero.
func (v *VoteCount) Total() int64 {
	if v == nil {
		return 0
	}
	var total int64
	if v.Domestic != nil {
		total += *v.Domestic
	}
	if v.International != nil {
		total += *v.International
	}
	return total
}

// RatingSummary is everything rendered for a resolved title.
type RatingSummary struct {
	TitleID string
	Ratings RatingSet
	Votes   *VoteCount
}
