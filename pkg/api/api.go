package api

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	ID       string
	Text     string
	Location *Location
}

////////////////////////////////////////////////////////////////////////////////
// Decode API

type DecodeOptions struct {
	Color       StderrColor
	ErrorLimit  int
	LogLevel    LogLevel
	LogOverride map[string]LogLevel

	Sourcefile string

	InAttribute bool
	Terminator  rune // optional extra terminator, e.g. a closing quote
}

type DecodeResult struct {
	Errors   []Message
	Warnings []Message

	Text string
}

func Decode(input string, options DecodeOptions) DecodeResult {
	return decodeImpl(input, options)
}
