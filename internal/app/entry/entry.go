package entry

import (
	"strings"
	"time"
)

// Level is a log severity with a total order
type Level int

// Known levels, ordered by severity. Unknown is only carried by entries whose level was not extracted
const (
	Unknown Level = iota
	Debug
	Info
	Warning
	Error
	Critical
)

// Levels lists the known levels from least to most severe
var Levels = []Level{Debug, Info, Warning, Error, Critical}

// ParseLevel matches a level name case-insensitively against the known levels
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return Debug, true
	case "INFO":
		return Info, true
	case "WARNING":
		return Warning, true
	case "ERROR":
		return Error, true
	case "CRITICAL":
		return Critical, true
	default:
		return Unknown, false
	}
}

// String returns the wire name of the level
func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Entry is a single parsed log line. Values are copied, never shared by reference
type Entry struct {
	ID            uint64
	Timestamp     time.Time
	SyntheticTime bool
	Level         Level
	Source        string
	Component     string
	Message       string
	RawLine       string
	Unparsed      bool
	File          string
}

// Display returns the text shown for the entry, falling back to the raw line when unparsed
func (e Entry) Display() string {
	if e.Unparsed {
		return e.RawLine
	}

	return e.Message
}
