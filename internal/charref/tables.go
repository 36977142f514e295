package charref

// The named reference table. Keys are 2 to 32 ASCII letters and digits
// without the surrounding "&" and ";". Many keys are prefixes of other
// keys ("not" of "notin", "sub" of "sube"), which is what makes greedy
// longest-match necessary.
var entity = map[string]rune{
	// Printable ASCII
	"excl":   '!',
	"quot":   '"',
	"num":    '#',
	"dollar": '$',
	"percnt": '%',
	"amp":    '&',
	"apos":   '\'',
	"lpar":   '(',
	"rpar":   ')',
	"ast":    '*',
	"plus":   '+',
	"comma":  ',',
	"period": '.',
	"sol":    '/',
	"colon":  ':',
	"semi":   ';',
	"lt":     '<',
	"equals": '=',
	"gt":     '>',
	"quest":  '?',
	"commat": '@',
	"lsqb":   '[',
	"bsol":   '\\',
	"rsqb":   ']',
	"Hat":    '^',
	"lowbar": '_',
	"grave":  '`',
	"lcub":   '{',
	"verbar": '|',
	"rcub":   '}',

	// Latin-1
	"nbsp":   '\u00A0',
	"iexcl":  '\u00A1',
	"cent":   '\u00A2',
	"pound":  '\u00A3',
	"curren": '\u00A4',
	"yen":    '\u00A5',
	"brvbar": '\u00A6',
	"sect":   '\u00A7',
	"uml":    '\u00A8',
	"copy":   '\u00A9',
	"ordf":   '\u00AA',
	"laquo":  '\u00AB',
	"not":    '\u00AC',
	"shy":    '\u00AD',
	"reg":    '\u00AE',
	"macr":   '\u00AF',
	"deg":    '\u00B0',
	"plusmn": '\u00B1',
	"sup2":   '\u00B2',
	"sup3":   '\u00B3',
	"acute":  '\u00B4',
	"micro":  '\u00B5',
	"para":   '\u00B6',
	"middot": '\u00B7',
	"cedil":  '\u00B8',
	"sup1":   '\u00B9',
	"ordm":   '\u00BA',
	"raquo":  '\u00BB',
	"frac14": '\u00BC',
	"frac12": '\u00BD',
	"frac34": '\u00BE',
	"iquest": '\u00BF',
	"Agrave": '\u00C0',
	"Aacute": '\u00C1',
	"Acirc":  '\u00C2',
	"Atilde": '\u00C3',
	"Auml":   '\u00C4',
	"Aring":  '\u00C5',
	"AElig":  '\u00C6',
	"Ccedil": '\u00C7',
	"Egrave": '\u00C8',
	"Eacute": '\u00C9',
	"Ecirc":  '\u00CA',
	"Euml":   '\u00CB',
	"Igrave": '\u00CC',
	"Iacute": '\u00CD',
	"Icirc":  '\u00CE',
	"Iuml":   '\u00CF',
	"ETH":    '\u00D0',
	"Ntilde": '\u00D1',
	"Ograve": '\u00D2',
	"Oacute": '\u00D3',
	"Ocirc":  '\u00D4',
	"Otilde": '\u00D5',
	"Ouml":   '\u00D6',
	"times":  '\u00D7',
	"Oslash": '\u00D8',
	"Ugrave": '\u00D9',
	"Uacute": '\u00DA',
	"Ucirc":  '\u00DB',
	"Uuml":   '\u00DC',
	"Yacute": '\u00DD',
	"THORN":  '\u00DE',
	"szlig":  '\u00DF',
	"agrave": '\u00E0',
	"aacute": '\u00E1',
	"acirc":  '\u00E2',
	"atilde": '\u00E3',
	"auml":   '\u00E4',
	"aring":  '\u00E5',
	"aelig":  '\u00E6',
	"ccedil": '\u00E7',
	"egrave": '\u00E8',
	"eacute": '\u00E9',
	"ecirc":  '\u00EA',
	"euml":   '\u00EB',
	"igrave": '\u00EC',
	"iacute": '\u00ED',
	"icirc":  '\u00EE',
	"iuml":   '\u00EF',
	"eth":    '\u00F0',
	"ntilde": '\u00F1',
	"ograve": '\u00F2',
	"oacute": '\u00F3',
	"ocirc":  '\u00F4',
	"otilde": '\u00F5',
	"ouml":   '\u00F6',
	"divide": '\u00F7',
	"oslash": '\u00F8',
	"ugrave": '\u00F9',
	"uacute": '\u00FA',
	"ucirc":  '\u00FB',
	"uuml":   '\u00FC',
	"yacute": '\u00FD',
	"thorn":  '\u00FE',
	"yuml":   '\u00FF',

	// Latin Extended
	"OElig":  '\u0152',
	"oelig":  '\u0153',
	"Scaron": '\u0160',
	"scaron": '\u0161',
	"Yuml":   '\u0178',
	"fnof":   '\u0192',
	"circ":   '\u02C6',
	"tilde":  '\u02DC',

	// Greek
	"Alpha":    '\u0391',
	"Beta":     '\u0392',
	"Gamma":    '\u0393',
	"Delta":    '\u0394',
	"Epsilon":  '\u0395',
	"Zeta":     '\u0396',
	"Eta":      '\u0397',
	"Theta":    '\u0398',
	"Iota":     '\u0399',
	"Kappa":    '\u039A',
	"Lambda":   '\u039B',
	"Mu":       '\u039C',
	"Nu":       '\u039D',
	"Xi":       '\u039E',
	"Omicron":  '\u039F',
	"Pi":       '\u03A0',
	"Rho":      '\u03A1',
	"Sigma":    '\u03A3',
	"Tau":      '\u03A4',
	"Upsilon":  '\u03A5',
	"Phi":      '\u03A6',
	"Chi":      '\u03A7',
	"Psi":      '\u03A8',
	"Omega":    '\u03A9',
	"alpha":    '\u03B1',
	"beta":     '\u03B2',
	"gamma":    '\u03B3',
	"delta":    '\u03B4',
	"epsilon":  '\u03B5',
	"zeta":     '\u03B6',
	"eta":      '\u03B7',
	"theta":    '\u03B8',
	"iota":     '\u03B9',
	"kappa":    '\u03BA',
	"lambda":   '\u03BB',
	"mu":       '\u03BC',
	"nu":       '\u03BD',
	"xi":       '\u03BE',
	"omicron":  '\u03BF',
	"pi":       '\u03C0',
	"rho":      '\u03C1',
	"sigmaf":   '\u03C2',
	"sigma":    '\u03C3',
	"tau":      '\u03C4',
	"upsilon":  '\u03C5',
	"phi":      '\u03C6',
	"chi":      '\u03C7',
	"psi":      '\u03C8',
	"omega":    '\u03C9',
	"thetasym": '\u03D1',
	"upsih":    '\u03D2',
	"piv":      '\u03D6',

	// General punctuation
	"ensp":   '\u2002',
	"emsp":   '\u2003',
	"thinsp": '\u2009',
	"zwnj":   '\u200C',
	"zwj":    '\u200D',
	"lrm":    '\u200E',
	"rlm":    '\u200F',
	"ndash":  '\u2013',
	"mdash":  '\u2014',
	"lsquo":  '\u2018',
	"rsquo":  '\u2019',
	"sbquo":  '\u201A',
	"ldquo":  '\u201C',
	"rdquo":  '\u201D',
	"bdquo":  '\u201E',
	"dagger": '\u2020',
	"Dagger": '\u2021',
	"bull":   '\u2022',
	"hellip": '\u2026',
	"permil": '\u2030',
	"prime":  '\u2032',
	"Prime":  '\u2033',
	"lsaquo": '\u2039',
	"rsaquo": '\u203A',
	"oline":  '\u203E',
	"frasl":  '\u2044',
	"euro":   '\u20AC',

	// Letterlike symbols
	"image":   '\u2111',
	"weierp":  '\u2118',
	"real":    '\u211C',
	"trade":   '\u2122',
	"alefsym": '\u2135',

	// Arrows
	"larr":  '\u2190',
	"uarr":  '\u2191',
	"rarr":  '\u2192',
	"darr":  '\u2193',
	"harr":  '\u2194',
	"crarr": '\u21B5',
	"lArr":  '\u21D0',
	"uArr":  '\u21D1',
	"rArr":  '\u21D2',
	"dArr":  '\u21D3',
	"hArr":  '\u21D4',

	// Mathematical operators
	"forall": '\u2200',
	"part":   '\u2202',
	"exist":  '\u2203',
	"empty":  '\u2205',
	"nabla":  '\u2207',
	"isin":   '\u2208',
	"notin":  '\u2209',
	"ni":     '\u220B',
	"prod":   '\u220F',
	"sum":    '\u2211',
	"minus":  '\u2212',
	"lowast": '\u2217',
	"radic":  '\u221A',
	"prop":   '\u221D',
	"infin":  '\u221E',
	"ang":    '\u2220',
	"and":    '\u2227',
	"or":     '\u2228',
	"cap":    '\u2229',
	"cup":    '\u222A',
	"int":    '\u222B',
	"there4": '\u2234',
	"sim":    '\u223C',
	"cong":   '\u2245',
	"asymp":  '\u2248',
	"ne":     '\u2260',
	"equiv":  '\u2261',
	"le":     '\u2264',
	"ge":     '\u2265',
	"sub":    '\u2282',
	"sup":    '\u2283',
	"nsub":   '\u2284',
	"sube":   '\u2286',
	"supe":   '\u2287',
	"oplus":  '\u2295',
	"otimes": '\u2297',
	"perp":   '\u22A5',
	"sdot":   '\u22C5',

	// Technical symbols
	"lceil":  '\u2308',
	"rceil":  '\u2309',
	"lfloor": '\u230A',
	"rfloor": '\u230B',
	"lang":   '\u27E8',
	"rang":   '\u27E9',

	// Geometric shapes and suits
	"loz":    '\u25CA',
	"spades": '\u2660',
	"clubs":  '\u2663',
	"hearts": '\u2665',
	"diams":  '\u2666',
}

// Names that decode to two scalar values.
var entity2 = map[string][2]rune{
	"fjlig":         {'f', 'j'},
	"nGt":           {'\u226B', '\u20D2'},
	"nLt":           {'\u226A', '\u20D2'},
	"NotEqualTilde": {'\u2242', '\u0338'},
	"ThickSpace":    {'\u205F', '\u200A'},
}

// Numeric references in 0x80-0x9F decode through this Windows-1252
// compatibility table instead of producing C1 control characters. The five
// entries that map to themselves are the bytes Windows-1252 leaves
// unassigned.
var numericReplacements = map[uint32]rune{
	0x80: '\u20AC',
	0x81: '\u0081',
	0x82: '\u201A',
	0x83: '\u0192',
	0x84: '\u201E',
	0x85: '\u2026',
	0x86: '\u2020',
	0x87: '\u2021',
	0x88: '\u02C6',
	0x89: '\u2030',
	0x8A: '\u0160',
	0x8B: '\u2039',
	0x8C: '\u0152',
	0x8D: '\u008D',
	0x8E: '\u017D',
	0x8F: '\u008F',
	0x90: '\u0090',
	0x91: '\u2018',
	0x92: '\u2019',
	0x93: '\u201C',
	0x94: '\u201D',
	0x95: '\u2022',
	0x96: '\u2013',
	0x97: '\u2014',
	0x98: '\u02DC',
	0x99: '\u2122',
	0x9A: '\u0161',
	0x9B: '\u203A',
	0x9C: '\u0153',
	0x9D: '\u009D',
	0x9E: '\u017E',
	0x9F: '\u0178',
}

type codePointRange struct {
	first rune
	last  rune
}

// Decoded numeric values in these ranges are dropped from the output with a
// diagnostic: C0 controls other than tab/LF/FF, DEL and the C1 controls not
// covered by the remap above, and the permanent noncharacters (0xFDD0-0xFDEF
// plus the last two code points of each plane). Ordered and disjoint.
var disallowedCodePoints = []codePointRange{
	{0x0001, 0x0008},
	{0x000B, 0x000B},
	{0x000E, 0x001F},
	{0x007F, 0x009F},
	{0xFDD0, 0xFDEF},
	{0xFFFE, 0xFFFF},
	{0x1FFFE, 0x1FFFF},
	{0x2FFFE, 0x2FFFF},
	{0x3FFFE, 0x3FFFF},
	{0x4FFFE, 0x4FFFF},
	{0x5FFFE, 0x5FFFF},
	{0x6FFFE, 0x6FFFF},
	{0x7FFFE, 0x7FFFF},
	{0x8FFFE, 0x8FFFF},
	{0x9FFFE, 0x9FFFF},
	{0xAFFFE, 0xAFFFF},
	{0xBFFFE, 0xBFFFF},
	{0xCFFFE, 0xCFFFF},
	{0xDFFFE, 0xDFFFF},
	{0xEFFFE, 0xEFFFF},
	{0xFFFFE, 0xFFFFF},
	{0x10FFFE, 0x10FFFF},
}

func isDisallowedCodePoint(codePoint rune) bool {
	for _, r := range disallowedCodePoints {
		if codePoint < r.first {
			return false
		}
		if codePoint <= r.last {
			return true
		}
	}
	return false
}

type trieNode struct {
	children map[byte]*trieNode

	// The decoded text if a key ends at this node, otherwise ""
	value string
}

// The named matcher walks bytes through this trie so the longest key match
// falls out of a single pass over the input.
var namedReferenceTrie = buildNamedReferenceTrie()

func buildNamedReferenceTrie() *trieNode {
	root := &trieNode{}

	insert := func(name string, value string) {
		node := root
		for i := 0; i < len(name); i++ {
			c := name[i]
			if node.children == nil {
				node.children = make(map[byte]*trieNode)
			}
			child := node.children[c]
			if child == nil {
				child = &trieNode{}
				node.children[c] = child
			}
			node = child
		}
		node.value = value
	}

	for name, codePoint := range entity {
		insert(name, string(codePoint))
	}
	for name, codePoints := range entity2 {
		insert(name, string(codePoints[0])+string(codePoints[1]))
	}
	return root
}
