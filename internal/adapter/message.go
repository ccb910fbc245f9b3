package adapter

import (
	"strings"
	"unicode"

	"github.com/kapu/media-rating-bot-go/internal/constants"
	"github.com/kapu/media-rating-bot-go/internal/domain"
	"github.com/kapu/media-rating-bot-go/internal/iris"
	"github.com/kapu/media-rating-bot-go/internal/util"
)

// MessageAdapter converts chat messages to bot commands
type MessageAdapter struct {
	prefix string
}

// NewMessageAdapter creates a new MessageAdapter
func NewMessageAdapter(prefix string) *MessageAdapter {
	if strings.TrimSpace(prefix) == "" {
		prefix = "/"
	}
	return &MessageAdapter{prefix: prefix}
}

// ParsedCommand represents a parsed command
type ParsedCommand struct {
	Type       domain.CommandType
	Params     map[string]any
	RawMessage string
}

// ParseMessage parses a chat message into a command. Text that is not a known
// command comes back as CommandUnknown with the trimmed text in RawMessage.
func (ma *MessageAdapter) ParseMessage(message *iris.Message) *ParsedCommand {
	if message == nil || message.Msg == "" {
		return ma.createUnknownCommand("")
	}

	text := strings.TrimSpace(message.Msg)
	if !strings.HasPrefix(text, ma.prefix) {
		return ma.createUnknownCommand(text)
	}

	commandText := text[len(ma.prefix):]
	token, rest := splitCommandToken(commandText)
	if token == "" {
		return ma.createUnknownCommand(text)
	}

	switch {
	case ma.isStartCommand(token):
		return &ParsedCommand{
			Type:       domain.CommandStart,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	case ma.isMediaCommand(token):
		return &ParsedCommand{
			Type:       domain.CommandMedia,
			Params:     map[string]any{"query": ma.ExtractQuery(rest)},
			RawMessage: text,
		}
	case ma.isCancelCommand(token):
		return &ParsedCommand{
			Type:       domain.CommandCancel,
			Params:     make(map[string]any),
			RawMessage: text,
		}
	}

	return ma.createUnknownCommand(text)
}

// ExtractQuery normalizes the free-text argument of the media command.
func (ma *MessageAdapter) ExtractQuery(argument string) string {
	return util.SanitizeInput(argument, constants.InputLimits.MaxQueryLength)
}

// Prefix returns the command prefix in use.
func (ma *MessageAdapter) Prefix() string {
	return ma.prefix
}

// splitCommandToken returns the lowercased command word (without any "@botname"
// suffix) and the remaining text.
func splitCommandToken(commandText string) (token, rest string) {
	end := strings.IndexFunc(commandText, unicode.IsSpace)
	if end < 0 {
		end = len(commandText)
	}
	token = commandText[:end]
	rest = commandText[end:]

	if at := strings.IndexByte(token, '@'); at >= 0 {
		token = token[:at]
	}
	return strings.ToLower(token), rest
}

// Command matchers

func (ma *MessageAdapter) isStartCommand(cmd string) bool {
	return util.Contains([]string{"start", "help"}, cmd)
}

func (ma *MessageAdapter) isMediaCommand(cmd string) bool {
	return util.Contains([]string{"media", "movie", "search"}, cmd)
}

func (ma *MessageAdapter) isCancelCommand(cmd string) bool {
	return util.Contains([]string{"cancel", "stop"}, cmd)
}

func (ma *MessageAdapter) createUnknownCommand(text string) *ParsedCommand {
	return &ParsedCommand{
		Type:       domain.CommandUnknown,
		Params:     make(map[string]any),
		RawMessage: text,
	}
}
