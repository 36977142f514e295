package logger_test

import (
	"testing"

	"github.com/refdec/charref/internal/logger"
	"github.com/refdec/charref/internal/test"
)

func TestMsgIDs(t *testing.T) {
	for id := logger.MsgID_None; id <= logger.MsgID_END; id++ {
		str := logger.MsgIDToString(id)
		if str == "" {
			continue
		}

		overrides := make(map[logger.MsgID]logger.LogLevel)
		logger.StringToMsgIDs(str, logger.LevelError, overrides)
		if len(overrides) == 0 {
			t.Fatalf("Failed to find message id(s) for the string %q", str)
		}

		for k, v := range overrides {
			test.AssertEqual(t, logger.MsgIDToString(k), str)
			test.AssertEqual(t, v, logger.LevelError)
		}
	}
}

func TestMsgString(t *testing.T) {
	noColor := logger.TerminalInfo{}

	withoutLocation := logger.Msg{Kind: logger.Error, Text: "Expected \";\" to end numeric character reference"}
	test.AssertEqual(t, withoutLocation.String(logger.StderrOptions{}, noColor),
		"error: Expected \";\" to end numeric character reference\n")

	withLocation := logger.Msg{
		Kind: logger.Warning,
		ID:   logger.MsgID_CharRef_InvalidCodePoint,
		Text: "Character reference 0xD800 is not a valid code point",
		Location: &logger.MsgLocation{
			File:     "<stdin>",
			Line:     1,
			Column:   5,
			Length:   8,
			LineText: "text &#xD800; text",
		},
	}
	test.AssertEqual(t, withLocation.String(logger.StderrOptions{}, noColor),
		"<stdin>: warning: Character reference 0xD800 is not a valid code point [invalid-code-point]\n")
	test.AssertEqualWithDiff(t, withLocation.String(logger.StderrOptions{IncludeSource: true}, noColor),
		"<stdin>:1:5: warning: Character reference 0xD800 is not a valid code point [invalid-code-point]\n"+
			"text &#xD800; text\n"+
			"     ~~~~~~~~\n")
}
