package domain

type CommandType string

const (
	CommandStart   CommandType = "start"
	CommandMedia   CommandType = "media"
	CommandCancel  CommandType = "cancel"
	CommandSelect  CommandType = "select"
	CommandUnknown CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandStart, CommandMedia, CommandCancel, CommandSelect, CommandUnknown:
		return true
	default:
		return false
	}
}
