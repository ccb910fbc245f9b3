package imdb

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/kapu/media-rating-bot-go/internal/domain"
)

// flexNumber decodes numbers that the API sends as JSON numbers, numeric strings,
// empty strings or null. Anything that is not a finite number is treated as absent.
type flexNumber struct {
	value float64
	valid bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	*n = flexNumber{}

	text := strings.TrimSpace(string(data))
	if text == "" || text == "null" {
		return nil
	}

	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		text = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if text == "" {
			return nil
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = flexNumber{value: v, valid: true}
	return nil
}

func (n flexNumber) score() domain.Score {
	if !n.valid {
		return domain.Score{}
	}
	return domain.ScoreOf(n.value)
}

// count converts to a non-negative integer; negative or absent values yield nil.
func (n flexNumber) count() *int64 {
	if !n.valid || n.value < 0 {
		return nil
	}
	v := int64(n.value)
	return &v
}

type searchResultRaw struct {
	ID          string `json:"id"`
	ResultType  string `json:"resultType"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type searchResponse struct {
	SearchType   string            `json:"searchType"`
	Expression   string            `json:"expression"`
	Results      []searchResultRaw `json:"results"`
	ErrorMessage string            `json:"errorMessage"`
}

func (r *searchResponse) cacheable() bool {
	return r.ErrorMessage == "" && len(r.Results) > 0
}

func (r *searchResponse) toDomain() *domain.SearchResult {
	result := &domain.SearchResult{
		Expression:   r.Expression,
		ErrorMessage: strings.TrimSpace(r.ErrorMessage),
		Results:      make([]domain.Title, 0, len(r.Results)),
	}
	// Entries without an id stay in place so list positions match the source order.
	for _, raw := range r.Results {
		result.Results = append(result.Results, domain.Title{
			ID:          strings.TrimSpace(raw.ID),
			Title:       strings.TrimSpace(raw.Title),
			Description: strings.TrimSpace(raw.Description),
			ResultType:  raw.ResultType,
			Image:       raw.Image,
		})
	}
	return result
}

type ratingsResponse struct {
	IMDbID         string     `json:"imDbId"`
	Title          string     `json:"title"`
	FullTitle      string     `json:"fullTitle"`
	Type           string     `json:"type"`
	Year           string     `json:"year"`
	IMDb           flexNumber `json:"imDb"`
	Metacritic     flexNumber `json:"metacritic"`
	TheMovieDB     flexNumber `json:"theMovieDb"`
	RottenTomatoes flexNumber `json:"rottenTomatoes"`
	FilmAffinity   flexNumber `json:"filmAffinity"`
	ErrorMessage   string     `json:"errorMessage"`
}

func (r *ratingsResponse) cacheable() bool {
	return r.ErrorMessage == ""
}

// scores returns native-scale values keyed by source.
func (r *ratingsResponse) scores() map[domain.RatingSource]domain.Score {
	return map[domain.RatingSource]domain.Score{
		domain.SourceIMDb:           r.IMDb.score(),
		domain.SourceMetacritic:     r.Metacritic.score(),
		domain.SourceTheMovieDB:     r.TheMovieDB.score(),
		domain.SourceRottenTomatoes: r.RottenTomatoes.score(),
		domain.SourceFilmAffinity:   r.FilmAffinity.score(),
	}
}

type demographicRaw struct {
	Rating flexNumber `json:"rating"`
	Votes  flexNumber `json:"votes"`
}

type userRatingsResponse struct {
	IMDbID           string          `json:"imDbId"`
	TotalRating      flexNumber      `json:"totalRating"`
	TotalRatingVotes flexNumber      `json:"totalRatingVotes"`
	USUsers          *demographicRaw `json:"usUsers"`
	NonUSUsers       *demographicRaw `json:"nonUSUsers"`
	ErrorMessage     string          `json:"errorMessage"`
}

func (r *userRatingsResponse) cacheable() bool {
	return r.ErrorMessage == ""
}

func (r *userRatingsResponse) voteCount() *domain.VoteCount {
	votes := &domain.VoteCount{}
	if r.USUsers != nil {
		votes.Domestic = r.USUsers.Votes.count()
	}
	if r.NonUSUsers != nil {
		votes.International = r.NonUSUsers.Votes.count()
	}
	return votes
}
