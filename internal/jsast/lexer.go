package jsast

import "strings"

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenTemplate
	tokenNumber
	tokenPunct
)

type token struct {
	kind  tokenKind
	pos   int // byte offset into the original file text
	end   int
	text  string // raw source slice
	value string // cooked value for strings, name for idents, op for puncts

	// template payload
	statics []string
	slots   [][]token
}

// Multi-character operators recognized by maximal munch. Only separation
// matters to the parser; unknown single characters become one-char puncts.
var multiPuncts = []string{
	"===", "!==", "...", "**=", ">>>",
	"?.", "++", "--", "+=", "-=", "*=", "/=", "==", "!=", "<=", ">=",
	"&&", "||", "??", "**", "=>", "<<", ">>",
}

// Keywords after which a `/` starts a regex literal rather than division.
var regexPrecedingKeywords = map[string]struct{}{
	"return": {}, "typeof": {}, "case": {}, "in": {}, "of": {}, "instanceof": {},
	"new": {}, "delete": {}, "void": {}, "do": {}, "else": {}, "yield": {}, "await": {},
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// lex tokenizes src. base is the byte offset of src within the original file
// text, so positions survive script-block extraction and slot recursion.
func lex(src string, base int) []token {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			i++

		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				i = len(src)
			} else {
				i += 2 + end + 2
			}

		case c == '\'' || c == '"':
			start := i
			value, next := scanQuoted(src, i)
			toks = append(toks, token{
				kind: tokenString, pos: base + start, end: base + next,
				text: src[start:next], value: value,
			})
			i = next

		case c == '`':
			start := i
			tok, next := scanTemplate(src, i, base)
			tok.pos = base + start
			tok.end = base + next
			tok.text = src[start:next]
			toks = append(toks, tok)
			i = next

		case c == '/' && regexAllowed(toks):
			i = scanRegex(src, i)

		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{
				kind: tokenIdent, pos: base + start, end: base + i,
				text: src[start:i], value: src[start:i],
			})

		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && (isIdentPart(src[i]) || src[i] == '.') {
				i++
			}
			toks = append(toks, token{
				kind: tokenNumber, pos: base + start, end: base + i,
				text: src[start:i], value: src[start:i],
			})

		default:
			start := i
			op := src[i : i+1]
			for _, mp := range multiPuncts {
				if strings.HasPrefix(src[i:], mp) {
					op = mp
					break
				}
			}
			i += len(op)
			toks = append(toks, token{
				kind: tokenPunct, pos: base + start, end: base + i,
				text: op, value: op,
			})
		}
	}
	return toks
}

// scanQuoted consumes a single- or double-quoted string starting at i and
// returns its cooked value and the offset just past the closing quote.
func scanQuoted(src string, i int) (string, int) {
	quote := src[i]
	i++
	var b strings.Builder
	for i < len(src) {
		c := src[i]
		if c == '\\' && i+1 < len(src) {
			b.WriteByte(unescape(src[i+1]))
			i += 2
			continue
		}
		if c == quote {
			return b.String(), i + 1
		}
		if c == '\n' {
			// unterminated; stop at the line break
			return b.String(), i
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), i
}

// scanTemplate consumes a backtick template starting at i, lexing every
// interpolation slot recursively, and returns the template token and the
// offset just past the closing backtick.
func scanTemplate(src string, i, base int) (token, int) {
	tok := token{kind: tokenTemplate}
	i++ // past the opening backtick
	var cur strings.Builder
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\\' && i+1 < len(src):
			cur.WriteByte(unescape(src[i+1]))
			i += 2
		case c == '`':
			tok.statics = append(tok.statics, cur.String())
			return tok, i + 1
		case c == '$' && i+1 < len(src) && src[i+1] == '{':
			tok.statics = append(tok.statics, cur.String())
			cur.Reset()
			slotStart := i + 2
			slotEnd := matchBrace(src, slotStart)
			tok.slots = append(tok.slots, lex(src[slotStart:slotEnd], base+slotStart))
			if slotEnd < len(src) {
				i = slotEnd + 1 // past the closing brace
			} else {
				i = slotEnd
			}
		default:
			cur.WriteByte(c)
			i++
		}
	}
	tok.statics = append(tok.statics, cur.String())
	return tok, i
}

// matchBrace returns the offset of the `}` closing an interpolation slot
// whose body starts at i, skipping nested braces and quoted content.
func matchBrace(src string, i int) int {
	depth := 1
	for i < len(src) {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		case '\'', '"', '`':
			i = skipQuoted(src, i)
			continue
		}
		i++
	}
	return i
}

// skipQuoted returns the offset just past a quoted region starting at i.
func skipQuoted(src string, i int) int {
	quote := src[i]
	i++
	for i < len(src) {
		if src[i] == '\\' {
			i += 2
			continue
		}
		if src[i] == quote {
			return i + 1
		}
		i++
	}
	return i
}

// scanRegex consumes a regex literal starting at i and returns the offset
// past its closing slash and flags.
func scanRegex(src string, i int) int {
	i++ // past the opening slash
	inClass := false
	for i < len(src) {
		c := src[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			i++
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			return i
		} else if c == '\n' {
			return i
		}
		i++
	}
	return i
}

// regexAllowed reports whether a `/` at the current position would start a
// regex literal, judged from the previous significant token.
func regexAllowed(toks []token) bool {
	if len(toks) == 0 {
		return true
	}
	prev := toks[len(toks)-1]
	switch prev.kind {
	case tokenString, tokenTemplate, tokenNumber:
		return false
	case tokenIdent:
		_, kw := regexPrecedingKeywords[prev.value]
		return kw
	case tokenPunct:
		return prev.value != ")" && prev.value != "]"
	}
	return true
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}
