package api

import (
	"github.com/refdec/charref/internal/charref"
	"github.com/refdec/charref/internal/logger"
)

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
		return ^logger.StderrColor(0)
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelSilent:
		return logger.LevelSilent
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	default:
		panic("Invalid log level")
		return ^logger.LogLevel(0)
	}
}

func validateLogOverrides(input map[string]LogLevel) map[logger.MsgID]logger.LogLevel {
	output := make(map[logger.MsgID]logger.LogLevel)
	for k, v := range input {
		logger.StringToMsgIDs(k, validateLogLevel(v), output)
	}
	return output
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location

			if loc := msg.Location; loc != nil {
				location = &Location{
					File:     loc.File,
					Line:     loc.Line,
					Column:   loc.Column,
					Length:   loc.Length,
					LineText: loc.LineText,
				}
			}

			filtered = append(filtered, Message{
				ID:       logger.MsgIDToString(msg.ID),
				Text:     msg.Text,
				Location: location,
			})
		}
	}
	return filtered
}

func decodeImpl(input string, options DecodeOptions) DecodeResult {
	newLog := func() logger.Log {
		if options.LogLevel == LogLevelSilent {
			log := logger.NewDeferLog()
			log.Overrides = validateLogOverrides(options.LogOverride)
			return log
		}
		return logger.NewStderrLog(logger.StderrOptions{
			IncludeSource: true,
			ErrorLimit:    options.ErrorLimit,
			Color:         validateColor(options.Color),
			LogLevel:      validateLogLevel(options.LogLevel),
			Overrides:     validateLogOverrides(options.LogOverride),
		})
	}

	log := newLog()
	source := logger.Source{
		Index:      0,
		PrettyPath: "<stdin>",
		Contents:   input,
	}
	if options.Sourcefile != "" {
		source.PrettyPath = options.Sourcefile
	}

	text := charref.Decode(log, source, charref.Options{
		InAttribute: options.InAttribute,
		Terminator:  options.Terminator,
	})

	msgs := log.Done()
	return DecodeResult{
		Errors:   messagesOfKind(logger.Error, msgs),
		Warnings: messagesOfKind(logger.Warning, msgs),
		Text:     text,
	}
}
