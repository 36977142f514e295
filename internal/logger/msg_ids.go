package logger

// Non-error log messages are given a message ID that can be used to set the
// log level for that message. Errors do not get a message ID because you
// cannot turn errors into non-errors (otherwise a failed decode would
// incorrectly succeed). These messages use "MsgID_None" instead.
type MsgID = uint8

const (
	MsgID_None MsgID = iota

	// Character references
	MsgID_CharRef_DisallowedCodePoint
	MsgID_CharRef_InvalidCodePoint

	MsgID_END
)

func MsgIDToString(id MsgID) string {
	switch id {
	case MsgID_CharRef_DisallowedCodePoint:
		return "disallowed-code-point"
	case MsgID_CharRef_InvalidCodePoint:
		return "invalid-code-point"
	}
	return ""
}

// Some names may refer to more than one message ID, so this maps into a set
// instead of returning a single ID.
func StringToMsgIDs(str string, logLevel LogLevel, overrides map[MsgID]LogLevel) {
	switch str {
	case "disallowed-code-point":
		overrides[MsgID_CharRef_DisallowedCodePoint] = logLevel
	case "invalid-code-point":
		overrides[MsgID_CharRef_InvalidCodePoint] = logLevel
	}
}
