package charref

import (
	"testing"

	"github.com/refdec/charref/internal/logger"
	"github.com/refdec/charref/internal/test"
)

func renderedMsgs(msgs []logger.Msg) string {
	rendered := ""
	for _, msg := range msgs {
		rendered += msg.String(logger.StderrOptions{}, logger.TerminalInfo{})
	}
	return rendered
}

func decodeWithOptions(contents string, options Options) (string, []logger.Msg) {
	log := logger.NewDeferLog()
	text := Decode(log, test.SourceForTest(contents), options)
	return text, log.Done()
}

func expectDecoded(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		text, msgs := decodeWithOptions(contents, Options{})
		test.AssertEqual(t, renderedMsgs(msgs), "")
		test.AssertEqual(t, text, expected)
	})
}

func expectDecodedWithDiagnostic(t *testing.T, contents string, expected string, diagnostic string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		text, msgs := decodeWithOptions(contents, Options{})
		test.AssertEqual(t, renderedMsgs(msgs), diagnostic)
		test.AssertEqual(t, text, expected)
	})
}

func expectDecodedInAttribute(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		text, msgs := decodeWithOptions(contents, Options{InAttribute: true})
		test.AssertEqual(t, renderedMsgs(msgs), "")
		test.AssertEqual(t, text, expected)
	})
}

func TestNumericReferences(t *testing.T) {
	expectDecoded(t, "&#9;", "\t")
	expectDecoded(t, "&#10;", "\n")
	expectDecoded(t, "&#12;", "\f")
	expectDecoded(t, "&#32;", " ")
	expectDecoded(t, "&#65;", "A")
	expectDecoded(t, "&#169;", "©")
	expectDecoded(t, "&#xA9;", "©")
	expectDecoded(t, "&#Xa9;", "©")
	expectDecoded(t, "&#xbeef;", "뻯")
	expectDecoded(t, "&#x2014;", "—")
	expectDecoded(t, "&#000000000000065;", "A")
	expectDecoded(t, "&#x10FFFD;", "\U0010FFFD")

	// The replacement character itself is a valid reference
	expectDecoded(t, "&#xFFFD;", "�")
}

func TestNumericReferenceRemap(t *testing.T) {
	expectDecoded(t, "&#128;", "€")
	expectDecoded(t, "&#x80;", "€")
	expectDecoded(t, "&#153;", "™")
	expectDecoded(t, "&#x9F;", "Ÿ")

	// Remapping comes before the range checks, so even the identity
	// entries decode without a diagnostic
	expectDecoded(t, "&#x81;", "\u0081")
	expectDecoded(t, "&#x9D;", "\u009D")
}

func TestNumericReferenceInvalid(t *testing.T) {
	expectDecodedWithDiagnostic(t, "&#0;", "�",
		"<stdin>: warning: Character reference 0x0 is not a valid code point [invalid-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#x0;", "�",
		"<stdin>: warning: Character reference 0x0 is not a valid code point [invalid-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#xD800;", "�",
		"<stdin>: warning: Character reference 0xD800 is not a valid code point [invalid-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#xDFFF;", "�",
		"<stdin>: warning: Character reference 0xDFFF is not a valid code point [invalid-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#55296;", "�",
		"<stdin>: warning: Character reference 0xD800 is not a valid code point [invalid-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#x110000;", "�",
		"<stdin>: warning: Character reference 0x110000 is not a valid code point [invalid-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#xdeadbeef;", "�",
		"<stdin>: warning: Character reference 0xDEADBEEF is not a valid code point [invalid-code-point]\n")

	// Overflow decodes as 0
	expectDecodedWithDiagnostic(t, "&#99999999999999999999;", "�",
		"<stdin>: warning: Character reference 0x0 is not a valid code point [invalid-code-point]\n")

	// Boundary values on either side of the surrogate range are fine
	expectDecoded(t, "&#xD7FF;", "\uD7FF")
	expectDecoded(t, "&#xE000;", "\uE000")
}

func TestNumericReferenceDisallowed(t *testing.T) {
	expectDecodedWithDiagnostic(t, "&#1;", "",
		"<stdin>: warning: Character reference 0x1 is a disallowed code point [disallowed-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#8;", "",
		"<stdin>: warning: Character reference 0x8 is a disallowed code point [disallowed-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#x0B;", "",
		"<stdin>: warning: Character reference 0xB is a disallowed code point [disallowed-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#x10;", "",
		"<stdin>: warning: Character reference 0x10 is a disallowed code point [disallowed-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#x1F;", "",
		"<stdin>: warning: Character reference 0x1F is a disallowed code point [disallowed-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#127;", "",
		"<stdin>: warning: Character reference 0x7F is a disallowed code point [disallowed-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#xFDD0;", "",
		"<stdin>: warning: Character reference 0xFDD0 is a disallowed code point [disallowed-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#xFFFE;", "",
		"<stdin>: warning: Character reference 0xFFFE is a disallowed code point [disallowed-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#x1FFFF;", "",
		"<stdin>: warning: Character reference 0x1FFFF is a disallowed code point [disallowed-code-point]\n")
	expectDecodedWithDiagnostic(t, "&#x10FFFF;", "",
		"<stdin>: warning: Character reference 0x10FFFF is a disallowed code point [disallowed-code-point]\n")

	// Boundary values just outside the noncharacter ranges are fine
	expectDecoded(t, "&#xFDCF;", "\uFDCF")
	expectDecoded(t, "&#xFDF0;", "\uFDF0")
}

func TestNumericReferenceErrors(t *testing.T) {
	expectDecodedWithDiagnostic(t, "&#;", "&#;",
		"<stdin>: error: Expected at least one digit in numeric character reference\n")
	expectDecodedWithDiagnostic(t, "&#x;", "&#x;",
		"<stdin>: error: Expected at least one digit in numeric character reference\n")
	expectDecodedWithDiagnostic(t, "&#", "&#",
		"<stdin>: error: Expected at least one digit in numeric character reference\n")
	expectDecodedWithDiagnostic(t, "&#x", "&#x",
		"<stdin>: error: Expected at least one digit in numeric character reference\n")
	expectDecodedWithDiagnostic(t, "&#q;", "&#q;",
		"<stdin>: error: Expected at least one digit in numeric character reference\n")
	expectDecodedWithDiagnostic(t, "&#10", "&#10",
		"<stdin>: error: Expected \";\" to end numeric character reference\n")
	expectDecodedWithDiagnostic(t, "&#xA9", "&#xA9",
		"<stdin>: error: Expected \";\" to end numeric character reference\n")
	expectDecodedWithDiagnostic(t, "&#10 x", "&#10 x",
		"<stdin>: error: Expected \";\" to end numeric character reference\n")
	expectDecodedWithDiagnostic(t, "&#xD800", "&#xD800",
		"<stdin>: error: Expected \";\" to end numeric character reference\n")

	// Hex digits in decimal mode end the digit run
	expectDecodedWithDiagnostic(t, "&#12ab;", "&#12ab;",
		"<stdin>: error: Expected \";\" to end numeric character reference\n")

	expectDecodedWithDiagnostic(t, "&#; &#;", "&#; &#;",
		"<stdin>: error: Expected at least one digit in numeric character reference\n"+
			"<stdin>: error: Expected at least one digit in numeric character reference\n")
}

func TestNamedReferences(t *testing.T) {
	expectDecoded(t, "&copy;", "©")
	expectDecoded(t, "&not;", "¬")
	expectDecoded(t, "&amp;", "&")
	expectDecoded(t, "&lt;", "<")
	expectDecoded(t, "&gt;", ">")
	expectDecoded(t, "&quot;", "\"")
	expectDecoded(t, "&euro;", "€")

	// Matching is case-sensitive
	expectDecoded(t, "&COPY;", "&COPY;")
	expectDecoded(t, "&Copy;", "&Copy;")
	expectDecoded(t, "&Auml;", "Ä")

	// Unknown names fail without a diagnostic
	expectDecoded(t, "&bogus;", "&bogus;")
	expectDecoded(t, "&xyzzy", "&xyzzy")
	expectDecoded(t, "&;", "&;")

	// Names that decode to two scalars
	expectDecoded(t, "&fjlig;", "fj")
	expectDecoded(t, "&nLt;", "\u226A\u20D2")
	expectDecoded(t, "&ThickSpace;", "\u205F\u200A")
}

func TestNamedReferenceLongestMatch(t *testing.T) {
	// "notin" wins over "not"
	expectDecoded(t, "&notin;", "∉")
	expectDecoded(t, "&isin;", "∈")

	// A shorter key plus literal remainder when the input diverges
	expectDecoded(t, "&notit;", "¬it;")
	expectDecoded(t, "&noti;", "¬i;")
	expectDecoded(t, "&copya;", "©a;")
	expectDecoded(t, "&copyThing;", "©Thing;")

	expectDecoded(t, "&sub;", "⊂")
	expectDecoded(t, "&sube;", "⊆")
	expectDecoded(t, "&subex;", "⊆x;")
}

func TestNamedReferenceTerminators(t *testing.T) {
	// ";" is consumed into the reference, the other terminators are not
	expectDecoded(t, "&copy;x", "©x")
	expectDecoded(t, "&copy&", "©&")
	expectDecoded(t, "&copy<b>", "©<b>")
	expectDecoded(t, "&copy folder", "© folder")
	expectDecoded(t, "&copy\tx", "©\tx")

	// An unterminated match at the end of input stays literal, but a match
	// with trailing text decodes and passes the tail through
	expectDecoded(t, "&copy", "&copy")
	expectDecoded(t, "&not", "&not")
	expectDecoded(t, "&sube", "&sube")
	expectDecoded(t, "&copya", "©a")
	expectDecoded(t, "&copy=1", "©=1")
}

func TestExtraTerminator(t *testing.T) {
	text, msgs := decodeWithOptions("&copy;", Options{Terminator: 'c'})
	test.AssertEqual(t, renderedMsgs(msgs), "")
	test.AssertEqual(t, text, "&copy;")

	text, msgs = decodeWithOptions("&\"&copy;", Options{Terminator: '"'})
	test.AssertEqual(t, renderedMsgs(msgs), "")
	test.AssertEqual(t, text, "&\"©")
}

func TestAttributeContext(t *testing.T) {
	// A match followed by "=" or an alphanumeric is suppressed
	expectDecodedInAttribute(t, "&copy=1", "&copy=1")
	expectDecodedInAttribute(t, "&copya", "&copya")
	expectDecodedInAttribute(t, "&copya;", "&copya;")
	expectDecodedInAttribute(t, "&notit;", "&notit;")

	// Direct matches still decode
	expectDecodedInAttribute(t, "&copy;x", "©x")
	expectDecodedInAttribute(t, "&copy again", "© again")
	expectDecodedInAttribute(t, "&copy&amp;", "©&")
	expectDecodedInAttribute(t, "&notin;", "∉")
}

func TestFragments(t *testing.T) {
	expectDecoded(t, "", "")
	expectDecoded(t, "no references", "no references")
	expectDecoded(t, "x &copy; y", "x © y")
	expectDecoded(t, "&lt;div&gt;", "<div>")
	expectDecoded(t, "100% &amp; counting", "100% & counting")
	expectDecoded(t, "&#169;&#169;", "©©")
	expectDecoded(t, "&amp;&amp;", "&&")
	expectDecoded(t, "&&amp;", "&&")
	expectDecoded(t, "&&&", "&&&")
	expectDecoded(t, "a&b", "a&b")
	expectDecoded(t, "&", "&")
	expectDecoded(t, "tom &amp; jerry &copy; 1940", "tom & jerry © 1940")

	// Decoded output is not rescanned
	expectDecoded(t, "&amp;copy;", "&copy;")
	expectDecoded(t, "&amp;#169;", "&#169;")
}

func TestDiagnosticLocation(t *testing.T) {
	log := logger.NewDeferLog()
	source := test.SourceForTest("ok\n&#xD800; x")
	text := Decode(log, source, Options{})
	msgs := log.Done()

	test.AssertEqual(t, text, "ok\n� x")
	test.AssertEqual(t, len(msgs), 1)
	msg := msgs[0]
	test.AssertEqual(t, msg.Kind, logger.Warning)
	test.AssertEqual(t, msg.ID, logger.MsgID_CharRef_InvalidCodePoint)
	test.AssertEqual(t, msg.Location.File, "<stdin>")
	test.AssertEqual(t, msg.Location.Line, 2)
	test.AssertEqual(t, msg.Location.Column, 0)
	test.AssertEqual(t, msg.Location.Length, 8)
	test.AssertEqual(t, msg.Location.LineText, "&#xD800; x")
}

// The reference decoder itself, without the fragment walk around it. The
// cursor starts just past the "&"; contents must begin with one.
func consumeOne(contents string, options Options) (*lexer, string, bool) {
	log := logger.NewDeferLog()
	lexer := lexer{
		log:     log,
		source:  test.SourceForTest(contents),
		options: options,
	}
	lexer.step()
	lexer.step()
	text, ok := lexer.consumeCharacterReference()
	return &lexer, text, ok
}

func expectRewound(t *testing.T, contents string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer, text, ok := consumeOne(contents, Options{})
		test.AssertEqual(t, ok, false)
		test.AssertEqual(t, text, "")

		// The cursor must be back to immediately after the "&" with no
		// partial output left behind
		test.AssertEqual(t, lexer.end, 1)
		test.AssertEqual(t, lexer.decoded.Len(), 0)
	})
}

func expectConsumedThrough(t *testing.T, contents string, expected string, expectedEnd int) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		lexer, text, ok := consumeOne(contents, Options{})
		test.AssertEqual(t, ok, true)
		test.AssertEqual(t, text, expected)
		test.AssertEqual(t, lexer.end, expectedEnd)
	})
}

func TestRewindOnFailure(t *testing.T) {
	expectRewound(t, "&")
	expectRewound(t, "& copy;")
	expectRewound(t, "&\tcopy;")
	expectRewound(t, "&\ncopy;")
	expectRewound(t, "&<")
	expectRewound(t, "&&copy;")
	expectRewound(t, "&#;")
	expectRewound(t, "&#x;")
	expectRewound(t, "&#10")
	expectRewound(t, "&#xD800")
	expectRewound(t, "&;")
	expectRewound(t, "&bogus;")
	expectRewound(t, "&copy")
	expectRewound(t, "&not")
}

func TestConsumedSpan(t *testing.T) {
	expectConsumedThrough(t, "&copy; rest", "©", 6)
	expectConsumedThrough(t, "&copy more", "©", 5)
	expectConsumedThrough(t, "&copy&", "©", 5)
	expectConsumedThrough(t, "&copya; rest", "©a;", 7)
	expectConsumedThrough(t, "&#xA9;Z", "©", 6)
	expectConsumedThrough(t, "&#x10;Z", "", 6)
	expectConsumedThrough(t, "&copya", "©a", 6)
}
