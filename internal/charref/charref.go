package charref

// This package decodes HTML character references: numeric escapes such as
// "&#169;" and "&#xA9;" and named escapes such as "&copy;". It implements
// the tokenizer side of the problem: given a stream positioned on "&",
// consume exactly the span of input that forms a reference and produce the
// decoded text, or consume nothing at all so the caller can treat the "&"
// as an ordinary character. Named references are resolved by greedy longest
// match against the reference table. Numeric references go through the
// legacy Windows-1252 remap and validity filtering before anything is
// emitted.
//
// Malformed references never abort decoding. Structural problems are
// reported to the log and the cursor is rewound to just after the "&";
// out-of-range code points are reported and substituted or dropped while
// the decode itself still succeeds.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/refdec/charref/internal/logger"
)

// Use -1 since the zero value is a valid code point
const eof = -1

const replacementCharacter = '\uFFFD'

type Options struct {
	// An extra scalar that must not start a reference, on top of the
	// built-in set. An attribute-value tokenizer passes its closing quote
	// here. Zero means no extra terminator.
	Terminator rune

	// Apply the historical attribute-value rule: a match that is not
	// directly terminated by ";" and is followed by "=" or an ASCII
	// alphanumeric is left alone instead of being replaced.
	InAttribute bool
}

type lexer struct {
	log       logger.Log
	source    logger.Source
	options   Options
	current   int
	end       int
	codePoint rune
	decoded   strings.Builder
}

// A restorable cursor position. Restoring one discards everything read
// since it was taken.
type streamMark struct {
	current   int
	end       int
	codePoint rune
}

func (lexer *lexer) mark() streamMark {
	return streamMark{
		current:   lexer.current,
		end:       lexer.end,
		codePoint: lexer.codePoint,
	}
}

func (lexer *lexer) restore(mark streamMark) {
	lexer.current = mark.current
	lexer.end = mark.end
	lexer.codePoint = mark.codePoint
}

func (lexer *lexer) step() {
	codePoint, width := utf8.DecodeRuneInString(lexer.source.Contents[lexer.current:])

	// Use -1 to indicate the end of the file
	if width == 0 {
		codePoint = eof
	}

	lexer.codePoint = codePoint
	lexer.end = lexer.current
	lexer.current += width
}

func (lexer *lexer) rangeFrom(loc logger.Loc) logger.Range {
	return logger.Range{Loc: loc, Len: int32(lexer.end) - loc.Start}
}

// Decode decodes every character reference in the source and passes all
// other text through unchanged. Text after an "&" that doesn't form a valid
// reference is kept as-is, including the "&" itself.
func Decode(log logger.Log, source logger.Source, options Options) string {
	lexer := lexer{
		log:     log,
		source:  source,
		options: options,
	}
	lexer.step()

	text := strings.Builder{}
	spanStart := 0
	for {
		if lexer.codePoint == eof {
			text.WriteString(source.Contents[spanStart:])
			break
		}
		if lexer.codePoint != '&' {
			lexer.step()
			continue
		}

		ampersand := lexer.end
		lexer.step()
		if decoded, ok := lexer.consumeCharacterReference(); ok {
			text.WriteString(source.Contents[spanStart:ampersand])
			text.WriteString(decoded)
			spanStart = lexer.end
		}

		// On failure the cursor was rewound to just after the "&", so the
		// next iterations reprocess the rest as ordinary text and the "&"
		// itself is flushed with the current span
	}
	return text.String()
}

// consumeCharacterReference decodes a single reference. The cursor must be
// positioned immediately after the "&". On success the decoded text is
// returned (it may be empty) and the cursor rests on the first scalar after
// the reference. On failure the cursor is rewound to immediately after the
// "&" and nothing is decoded.
func (lexer *lexer) consumeCharacterReference() (string, bool) {
	lexer.decoded.Reset()
	entry := lexer.mark()

	switch lexer.codePoint {
	case eof:
		return "", false

	case '\t', '\n', '\f', ' ', '<', '&':
		// Not the start of a reference; the scalar stays for the caller
		return "", false
	}

	if lexer.options.Terminator != 0 && lexer.codePoint == lexer.options.Terminator {
		return "", false
	}

	var ok bool
	if lexer.codePoint == '#' {
		ok = lexer.consumeNumericReference()
	} else {
		ok = lexer.consumeNamedReference()
	}

	if !ok {
		// A failed decode must not leave partial consumption or partial
		// output behind
		lexer.restore(entry)
		lexer.decoded.Reset()
		return "", false
	}
	return lexer.decoded.String(), true
}

func isDigit(codePoint rune, radix int) bool {
	if codePoint >= '0' && codePoint <= '9' {
		return true
	}
	return radix == 16 && ((codePoint >= 'a' && codePoint <= 'f') || (codePoint >= 'A' && codePoint <= 'F'))
}

// Numeric references: "#" followed by decimal digits, or "#x"/"#X" followed
// by hex digits, ending in a required ";". Entered with the cursor on "#".
func (lexer *lexer) consumeNumericReference() bool {
	ampersand := logger.Loc{Start: int32(lexer.end - 1)}

	// "#"
	lexer.step()
	checkpoint := lexer.mark()

	radix := 10
	if lexer.codePoint == 'x' || lexer.codePoint == 'X' {
		radix = 16
		lexer.step()
	}

	// Consume a maximal run of digits
	start := lexer.end
	for isDigit(lexer.codePoint, radix) {
		lexer.step()
	}
	digits := lexer.source.Contents[start:lexer.end]

	if digits == "" {
		lexer.log.AddRangeError(&lexer.source, lexer.rangeFrom(ampersand),
			"Expected at least one digit in numeric character reference")
		lexer.restore(checkpoint)
		return false
	}

	if lexer.codePoint != ';' {
		lexer.log.AddRangeError(&lexer.source, lexer.rangeFrom(ampersand),
			"Expected \";\" to end numeric character reference")
		lexer.restore(checkpoint)
		return false
	}
	lexer.step()

	parsed, err := strconv.ParseUint(digits, radix, 32)
	if err != nil {
		// Overflow decodes as 0, which is rejected below
		parsed = 0
	}
	value := uint32(parsed)

	// The Windows-1252 remap comes before validation. Every value in its
	// domain decodes without a diagnostic.
	if mapped, ok := numericReplacements[value]; ok {
		lexer.decoded.WriteRune(mapped)
		return true
	}

	if value == 0 || (value >= 0xD800 && value <= 0xDFFF) || value > 0x10FFFF {
		lexer.log.AddRangeWarningID(&lexer.source, logger.MsgID_CharRef_InvalidCodePoint, lexer.rangeFrom(ampersand),
			fmt.Sprintf("Character reference 0x%X is not a valid code point", value))
		lexer.decoded.WriteRune(replacementCharacter)
		return true
	}

	if isDisallowedCodePoint(rune(value)) {
		lexer.log.AddRangeWarningID(&lexer.source, logger.MsgID_CharRef_DisallowedCodePoint, lexer.rangeFrom(ampersand),
			fmt.Sprintf("Character reference 0x%X is a disallowed code point", value))
		return true
	}

	lexer.decoded.WriteRune(rune(value))
	return true
}

// Named references: greedy longest match against the reference table.
// Scalars are consumed up to a terminator, the longest table key that
// prefixes the consumed text wins, and any remainder after the key is
// passed through verbatim. Entered with the cursor on the first scalar of
// the would-be name.
func (lexer *lexer) consumeNamedReference() bool {
	start := lexer.end
	node := namedReferenceTrie
	bestLen := 0
	bestText := ""

	for {
		switch lexer.codePoint {
		case eof:
			tail := lexer.source.Contents[start+bestLen : lexer.end]
			if bestLen == 0 || tail == "" {
				// An exact match that hits the end of input without a
				// terminator stays literal ("&copy" at the end of a file)
				return false
			}
			if lexer.suppressedInAttribute(tail) {
				return false
			}
			lexer.decoded.WriteString(bestText)
			lexer.decoded.WriteString(tail)
			return true

		case ';', ' ', '&', '<':
			if bestLen == 0 {
				return false
			}
			tail := lexer.source.Contents[start+bestLen : lexer.end]
			if lexer.suppressedInAttribute(tail) {
				return false
			}
			if lexer.codePoint == ';' {
				// The ";" belongs to the reference. The other terminators
				// stay for the caller's next tokenization step.
				lexer.step()
				if tail != "" {
					// The ";" terminated trailing text rather than the name
					// itself, so it is part of the passed-through remainder
					tail = lexer.source.Contents[start+bestLen : lexer.end]
				}
			}
			lexer.decoded.WriteString(bestText)
			lexer.decoded.WriteString(tail)
			return true

		default:
			if node != nil {
				if lexer.codePoint > 0 && lexer.codePoint < 0x80 {
					node = node.children[byte(lexer.codePoint)]
				} else {
					// Table keys are ASCII, so no longer match is possible.
					// Keep consuming anyway; the remainder after the match
					// is passed through.
					node = nil
				}
			}
			lexer.step()
			if node != nil && node.value != "" {
				bestLen = lexer.end - start
				bestText = node.value
			}
		}
	}
}

// The historical attribute-value rule: inside an attribute value, a match
// whose name is directly followed by "=" or an ASCII alphanumeric is not
// replaced (think "&notit=1" inside an href query string).
func (lexer *lexer) suppressedInAttribute(tail string) bool {
	if !lexer.options.InAttribute || tail == "" {
		return false
	}
	c := tail[0]
	return c == '=' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}
