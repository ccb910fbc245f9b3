package bot

import "sync"

// conversationLanes serializes work per conversation id.
type conversationLanes struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

type lane struct {
	mu   sync.Mutex
	refs int
}

func newConversationLanes() *conversationLanes {
	return &conversationLanes{lanes: make(map[string]*lane)}
}

// lock blocks until the conversation's lane is free and returns its release func.
// Idle lanes are dropped so the map only holds conversations with queued work.
func (c *conversationLanes) lock(conversationID string) func() {
	c.mu.Lock()
	l, ok := c.lanes[conversationID]
	if !ok {
		l = &lane{}
		c.lanes[conversationID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.lanes, conversationID)
		}
		c.mu.Unlock()
	}
}

func (c *conversationLanes) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lanes)
}
