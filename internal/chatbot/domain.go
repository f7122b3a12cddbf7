package chatbot

import (
	"strings"
	"time"

	"birthdaybot-api/internal/common"
)

// MessageType represents the type of message received
type MessageType string

const (
	MessageTypeCommand MessageType = "command"
	MessageTypeText    MessageType = "text"
)

// Message represents a message from a user
type Message struct {
	ID          common.ID     `json:"id" validate:"required"`
	UserID      common.UserID `json:"user_id" validate:"required"`
	ChatID      common.ChatID `json:"chat_id" validate:"required"`
	Text        string        `json:"text" validate:"required"`
	Timestamp   time.Time     `json:"timestamp" validate:"required"`
	MessageType MessageType   `json:"message_type" validate:"required"`
}

// Command represents supported bot commands
type Command string

const (
	CommandStart  Command = "/start"
	CommandHelp   Command = "/help"
	CommandAdd    Command = "/add"
	CommandDelete Command = "/delete"
	CommandList   Command = "/list"

	// CommandUnknown is returned for anything outside the supported set
	CommandUnknown Command = ""
)

// ParseCommand maps a bare command name (as extracted by the Telegram
// library, without the leading slash or @mention) to the typed command set.
func ParseCommand(name string) Command {
	switch strings.ToLower(name) {
	case "start":
		return CommandStart
	case "help":
		return CommandHelp
	case "add":
		return CommandAdd
	case "delete":
		return CommandDelete
	case "list":
		return CommandList
	default:
		return CommandUnknown
	}
}

// IsValid checks if the message type is valid
func (mt MessageType) IsValid() bool {
	switch mt {
	case MessageTypeCommand, MessageTypeText:
		return true
	default:
		return false
	}
}

// IsValid checks if the command is valid
func (c Command) IsValid() bool {
	switch c {
	case CommandStart, CommandHelp, CommandAdd, CommandDelete, CommandList:
		return true
	default:
		return false
	}
}
