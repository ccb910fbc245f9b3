package adapter

import (
	"fmt"
	"strings"

	"github.com/kapu/media-rating-bot-go/internal/domain"
	"github.com/kapu/media-rating-bot-go/internal/util"
)

const (
	msgNoResults   = "Couldn't find anything!"
	msgNoRatings   = "Couldn't find ratings!"
	msgNoVotes     = "Couldn't find number of votes!"
	msgUnavailable = "Not available"
)

// ResponseFormatter formats bot responses
type ResponseFormatter struct {
	prefix string
}

// NewResponseFormatter creates a new ResponseFormatter
func NewResponseFormatter(prefix string) *ResponseFormatter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "/"
	}
	return &ResponseFormatter{prefix: prefix}
}

// FormatStart returns the greeting shown for the start/help command.
func (f *ResponseFormatter) FormatStart() string {
	message, err := executeFormatterTemplate("start", struct{ Prefix string }{Prefix: f.prefix})
	if err != nil {
		return f.FormatUsage()
	}
	return message
}

func (f *ResponseFormatter) FormatUsage() string {
	return fmt.Sprintf("Command Usage: %smedia <media_name>", f.prefix)
}

func (f *ResponseFormatter) FormatSearching(query string) string {
	return fmt.Sprintf("Searching for: %s.", query)
}

func (f *ResponseFormatter) FormatNoResults() string {
	return msgNoResults
}

// FormatCandidates renders the numbered selection list, 1-based, in the given order.
func (f *ResponseFormatter) FormatCandidates(candidates []domain.Title) string {
	var sb strings.Builder
	sb.WriteString("Titles:")

	for i, title := range candidates {
		sb.WriteString("\n")
		if title.Description != "" {
			sb.WriteString(fmt.Sprintf("%d. %s %s", i+1, title.Title, title.Description))
		} else {
			sb.WriteString(fmt.Sprintf("%d. %s", i+1, title.Title))
		}
	}

	return sb.String()
}

// FormatRatings lists every source followed by the average of the available ones.
func (f *ResponseFormatter) FormatRatings(ratings domain.RatingSet) string {
	avg, ok := ratings.Average()
	if !ok {
		return msgNoRatings
	}

	lines := make([]string, 0, len(ratings))
	for _, entry := range ratings {
		value := msgUnavailable
		if entry.Available {
			value = util.FormatDecimal(entry.Value)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", entry.Source, value))
	}

	return strings.Join(lines, "\n") + fmt.Sprintf("\n\nAverage rating (0-10): %s", util.FormatDecimal(avg))
}

func (f *ResponseFormatter) FormatVotes(votes *domain.VoteCount) string {
	total := votes.Total()
	if total <= 0 {
		return msgNoVotes
	}
	return fmt.Sprintf("IMDb votes: %d", total)
}

func (f *ResponseFormatter) FormatTitleLink(titleID string) string {
	return domain.TitleURL(titleID)
}

func (f *ResponseFormatter) FormatCancelled(hadSession bool) string {
	if !hadSession {
		return fmt.Sprintf("Nothing to cancel. Start a search with %smedia <media_name>.", f.prefix)
	}
	return "Selection cancelled."
}
