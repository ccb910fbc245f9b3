package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kapu/media-rating-bot-go/internal/dialogue"
	"github.com/kapu/media-rating-bot-go/internal/service/imdb"
	"github.com/kapu/media-rating-bot-go/internal/service/rating"
	"go.uber.org/zap"
)

// pairedGetStore holds each Get open until a second Get arrives or the wait expires,
// so two reads of the same session overlap whenever the caller allows it.
type pairedGetStore struct {
	*dialogue.MemoryStore
	wait time.Duration

	mu      sync.Mutex
	armed   bool
	waiting chan struct{}
}

func (s *pairedGetStore) arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
}

func (s *pairedGetStore) Get(ctx context.Context, conversationID string) (*dialogue.Session, error) {
	session, err := s.MemoryStore.Get(ctx, conversationID)

	s.mu.Lock()
	if !s.armed {
		s.mu.Unlock()
		return session, err
	}
	if s.waiting == nil {
		ch := make(chan struct{})
		s.waiting = ch
		s.mu.Unlock()
		select {
		case <-ch:
		case <-time.After(s.wait):
		}
		return session, err
	}
	close(s.waiting)
	s.waiting = nil
	s.mu.Unlock()
	return session, err
}

func countLinks(replies []string) int {
	n := 0
	for _, r := range replies {
		if strings.HasPrefix(r, "https://imdb.com/title/") {
			n++
		}
	}
	return n
}

func TestConcurrentRepliesResolveDialogueOnce(t *testing.T) {
	srv, _ := newIMDbServer(t)
	client, err := imdb.NewClient(imdb.ClientConfig{BaseURL: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("imdb client: %v", err)
	}

	store := &pairedGetStore{MemoryStore: dialogue.NewMemoryStore(time.Minute), wait: 300 * time.Millisecond}
	messenger := newFakeMessenger()
	b, err := NewBot(&Dependencies{
		Logger:    zap.NewNop(),
		Messenger: messenger,
		Titles:    client,
		Ratings:   rating.NewAggregator(client, zap.NewNop()),
		Sessions:  store,
	})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}

	ctx := context.Background()
	b.HandleMessage(ctx, message("room", "u1", "/media Training Day 2001"))
	messenger.take("room")

	store.arm()
	var wg sync.WaitGroup
	for _, text := range []string{"2", "2", "9"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			b.HandleMessage(ctx, message("room", "u1", text))
		}(text)
	}
	wg.Wait()

	replies := messenger.take("room")
	if got := countLinks(replies); got != 1 {
		t.Fatalf("expected one resolution, got %d links in %q", got, replies)
	}
	if store.Len() != 0 {
		t.Fatalf("resolved session must not be restored by a late invalid reply")
	}
	if b.lanes.size() != 0 {
		t.Fatalf("idle lanes must be released, %d left", b.lanes.size())
	}

	// With the dialogue finished, chatter is ignored.
	b.HandleMessage(ctx, message("room", "u1", "1"))
	if got := messenger.take("room"); len(got) != 0 {
		t.Fatalf("expected silence after resolution, got %q", got)
	}
}

func TestLanesSerializeSameConversationOnly(t *testing.T) {
	lanes := newConversationLanes()

	unlockA := lanes.lock("room:a")
	acquiredB := make(chan struct{})
	go func() {
		unlock := lanes.lock("room:b")
		close(acquiredB)
		unlock()
	}()
	select {
	case <-acquiredB:
	case <-time.After(time.Second):
		t.Fatal("other conversations must not wait")
	}

	acquiredA := make(chan struct{})
	go func() {
		unlock := lanes.lock("room:a")
		close(acquiredA)
		unlock()
	}()
	select {
	case <-acquiredA:
		t.Fatal("same conversation must wait for the lane")
	case <-time.After(50 * time.Millisecond):
	}

	unlockA()
	select {
	case <-acquiredA:
	case <-time.After(time.Second):
		t.Fatal("lane was not handed over")
	}
}

func TestShutdownHonoursDeadlineWhilePoolIsFull(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-release
		_, _ = w.Write([]byte(searchBody))
	}))
	t.Cleanup(srv.Close)
	var releaseOnce sync.Once
	t.Cleanup(func() { releaseOnce.Do(func() { close(release) }) })

	client, err := imdb.NewClient(imdb.ClientConfig{BaseURL: srv.URL, APIKey: "test-key", Timeout: 5 * time.Second}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("imdb client: %v", err)
	}
	listener := newFakeListener()
	b, err := NewBot(&Dependencies{
		Logger:        zap.NewNop(),
		Messenger:     newFakeMessenger(),
		Listener:      listener,
		Titles:        client,
		Ratings:       rating.NewAggregator(client, zap.NewNop()),
		Sessions:      dialogue.NewMemoryStore(time.Minute),
		MaxConcurrent: 1,
	})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Start(ctx) }()
	<-listener.connected

	listener.emit(message("room", "u1", "/media first"))
	<-entered

	// The single worker is busy, so this emit blocks inside the pool.
	go listener.emit(message("room", "u2", "/media second"))
	time.Sleep(50 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer shutdownCancel()

	start := time.Now()
	err = b.Shutdown(shutdownCtx)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("shutdown overran its deadline: %v", elapsed)
	}
	if err == nil {
		t.Fatal("expected deadline error while messages are still in flight")
	}

	releaseOnce.Do(func() { close(release) })
}
