package domain

import (
	"fmt"

	"github.com/kapu/media-rating-bot-go/internal/constants"
	"github.com/kapu/media-rating-bot-go/internal/util"
)

// Title is a single search hit from the title database.
type Title struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ResultType  string `json:"resultType,omitempty"`
	Image       string `json:"image,omitempty"`
}

// TitleURL templates the deep link for an entity identifier.
func TitleURL(id string) string {
	return fmt.Sprintf(constants.APIConfig.IMDbTitleURL, id)
}

// SearchResult is the title database's answer to a free-text query.
type SearchResult struct {
	Expression   string
	Results      []Title
	ErrorMessage string
}

// HasError reports whether the service reported an error in-band.
func (r *SearchResult) HasError() bool {
	return r != nil && r.ErrorMessage != ""
}

// IsEmpty reports whether there is nothing to present.
func (r *SearchResult) IsEmpty() bool {
	return r == nil || len(r.Results) == 0
}

// Candidates returns at most limit leading results in source order.
func (r *SearchResult) Candidates(limit int) []Title {
	if r.IsEmpty() || limit <= 0 {
		return nil
	}
	n := util.Min(len(r.Results), limit)
	out := make([]Title, n)
	copy(out, r.Results[:n])
	return out
}
