package domain

import "time"

// CommandContext carries the origin of an inbound chat message.
type CommandContext struct {
	Room      string
	Sender    string
	UserID    string
	Message   string
	RequestID string
	Timestamp time.Time
}

func NewCommandContext(room, sender, userID, message string) *CommandContext {
	return &CommandContext{
		Room:      room,
		Sender:    sender,
		UserID:    userID,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// ConversationID scopes dialogue state to one user inside one room.
func (c *CommandContext) ConversationID() string {
	user := c.UserID
	if user == "" {
		user = c.Sender
	}
	return c.Room + ":" + user
}
