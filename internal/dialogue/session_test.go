package dialogue

import (
	"fmt"
	"testing"

	"github.com/kapu/media-rating-bot-go/internal/domain"
)

func candidates(n int) []domain.Title {
	out := make([]domain.Title, n)
	for i := range out {
		out[i] = domain.Title{ID: fmt.Sprintf("tt%07d", i+1), Title: fmt.Sprintf("Title %d", i+1)}
	}
	return out
}

func TestTransitionAcceptsExactlyValidPositions(t *testing.T) {
	for n := 1; n <= 10; n++ {
		session := NewSession("room:user", "q", candidates(n))

		for position := -2; position <= n+2; position++ {
			outcome := Transition(session, fmt.Sprintf("%d", position))
			valid := position >= 1 && position <= n

			if outcome.Resolved() != valid {
				t.Fatalf("n=%d position=%d: resolved=%v, want %v", n, position, outcome.Resolved(), valid)
			}
			if valid {
				if outcome.Selected.ID != session.Candidates[position-1].ID {
					t.Fatalf("n=%d position=%d: selected %s", n, position, outcome.Selected.ID)
				}
				if outcome.Session != nil || len(outcome.Replies) != 0 {
					t.Fatalf("resolved outcome should drop the session and carry no replies: %+v", outcome)
				}
				continue
			}

			if outcome.State != StateReprompt {
				t.Fatalf("expected reprompt state, got %s", outcome.State)
			}
			if len(outcome.Replies) != 1 || outcome.Replies[0] != InvalidSelectionMessage {
				t.Fatalf("unexpected replies %v", outcome.Replies)
			}
			if outcome.Session == nil || outcome.Session.State != StateAwaitingSelection {
				t.Fatalf("expected session to stay awaiting selection: %+v", outcome.Session)
			}
			if len(outcome.Session.Candidates) != n {
				t.Fatalf("expected candidates carried forward")
			}
		}
	}
}

func TestTransitionRejectsNonIntegers(t *testing.T) {
	session := NewSession("room:user", "q", candidates(3))

	for _, input := range []string{"", "   ", "abc", "1.5", "two", "1 2", "99999999999999999999999"} {
		outcome := Transition(session, input)
		if outcome.Resolved() {
			t.Fatalf("input %q should not resolve", input)
		}
		if outcome.State != StateReprompt {
			t.Fatalf("input %q: expected reprompt, got %s", input, outcome.State)
		}
	}
}

func TestTransitionTrimsWhitespace(t *testing.T) {
	session := NewSession("room:user", "q", candidates(3))

	outcome := Transition(session, "  2 \n")
	if !outcome.Resolved() || outcome.Selected.ID != "tt0000002" {
		t.Fatalf("expected candidate 2, got %+v", outcome)
	}
}

func TestTransitionDoesNotMutateInputSession(t *testing.T) {
	session := NewSession("room:user", "q", candidates(2))
	session.State = StateReprompt

	outcome := Transition(session, "x")
	if session.State != StateReprompt {
		t.Fatalf("input session mutated")
	}
	if outcome.Session == session {
		t.Fatalf("expected a copy of the session")
	}
}

func TestTransitionNilSession(t *testing.T) {
	outcome := Transition(nil, "1")
	if outcome.Resolved() || outcome.Session != nil {
		t.Fatalf("nil session must not resolve: %+v", outcome)
	}
}

func TestTransitionRejectsEntryWithoutID(t *testing.T) {
	list := candidates(3)
	list[1].ID = ""
	session := NewSession("room:user", "q", list)

	outcome := Transition(session, "2")
	if outcome.Resolved() {
		t.Fatalf("entry without id must not resolve, got %+v", outcome.Selected)
	}
	if len(outcome.Replies) != 1 || outcome.Replies[0] != InvalidSelectionMessage {
		t.Fatalf("expected re-prompt, got %q", outcome.Replies)
	}
	if outcome.Session == nil || len(outcome.Session.Candidates) != 3 {
		t.Fatalf("session must keep all candidates")
	}

	// Positions after the blank entry keep their numbering.
	outcome = Transition(session, "3")
	if !outcome.Resolved() || outcome.Selected.ID != "tt0000003" {
		t.Fatalf("expected tt0000003, got %+v", outcome)
	}
}
