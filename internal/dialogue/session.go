// Package dialogue implements the selection dialogue that turns a candidate list
// into a single chosen title.
package dialogue

import (
	"strconv"
	"strings"
	"time"

	"github.com/kapu/media-rating-bot-go/internal/constants"
	"github.com/kapu/media-rating-bot-go/internal/domain"
)

// State tags where a conversation is in the selection dialogue.
type State string

const (
	StateAwaitingSelection State = "awaiting_selection"
	StateReprompt          State = "reprompt"
	StateResolved          State = "resolved"
)

func (s State) String() string {
	return string(s)
}

const (
	SelectionPrompt         = "Choose a position (e.g. 1) to output its ratings and vote counts."
	InvalidSelectionMessage = "Invalid input. Please enter a number corresponding to one of positions in the list."
)

// Session is the per-conversation dialogue state.
type Session struct {
	ConversationID string         `json:"conversation_id"`
	State          State          `json:"state"`
	Query          string         `json:"query"`
	Candidates     []domain.Title `json:"candidates"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewSession starts a dialogue awaiting a pick from candidates.
func NewSession(conversationID, query string, candidates []domain.Title) *Session {
	return &Session{
		ConversationID: conversationID,
		State:          StateAwaitingSelection,
		Query:          query,
		Candidates:     candidates,
		UpdatedAt:      time.Now(),
	}
}

// Outcome is the result of feeding one user message to a session.
type Outcome struct {
	State    State
	Session  *Session
	Replies  []string
	Selected *domain.Title
}

// Resolved reports whether the dialogue produced a selection.
func (o Outcome) Resolved() bool {
	return o.State == StateResolved && o.Selected != nil
}

// Transition applies input to the session. Invalid input, or a position whose entry has
// no id, leaves the session awaiting selection with the same candidates; a valid position
// resolves it and drops the session.
func Transition(session *Session, input string) Outcome {
	position, ok := parsePosition(input)
	if !ok || session == nil || position < 1 || position > len(session.Candidates) {
		return reprompt(session)
	}

	selected := session.Candidates[position-1]
	if selected.ID == "" {
		// Listed but not resolvable.
		return reprompt(session)
	}
	return Outcome{
		State:    StateResolved,
		Selected: &selected,
	}
}

func reprompt(session *Session) Outcome {
	var next *Session
	if session != nil {
		copied := *session
		copied.State = StateAwaitingSelection
		copied.UpdatedAt = time.Now()
		next = &copied
	}
	return Outcome{
		State:   StateReprompt,
		Session: next,
		Replies: []string{InvalidSelectionMessage},
	}
}

func parsePosition(input string) (int, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || len(trimmed) > constants.InputLimits.MaxSelectionLength {
		return 0, false
	}
	position, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return position, true
}
