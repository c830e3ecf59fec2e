package core

import (
	"bytes"
	"fmt"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, endstream, etc.
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R (after two numbers)
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenComment:
		return "comment"
	case TokenKeyword:
		return "keyword"
	case TokenInteger:
		return "integer"
	case TokenReal:
		return "real"
	case TokenString:
		return "string"
	case TokenHexString:
		return "hex string"
	case TokenName:
		return "name"
	case TokenArrayStart:
		return "'['"
	case TokenArrayEnd:
		return "']'"
	case TokenDictStart:
		return "'<<'"
	case TokenDictEnd:
		return "'>>'"
	case TokenIndirectRef:
		return "'R'"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token represents a lexical token. Value holds the decoded bytes for
// strings and names, and the raw text for everything else.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int // offset of the first byte in the input
}

// Lexer tokenizes PDF syntax from an in-memory buffer. The buffer is usually
// a memory-mapped file, so the lexer never copies it.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer creates a lexer positioned at the start of data
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// NewLexerAt creates a lexer positioned at offset
func NewLexerAt(data []byte, offset int) *Lexer {
	if offset < 0 {
		offset = 0
	}
	if offset > len(data) {
		offset = len(data)
	}
	return &Lexer{data: data, pos: offset}
}

// Pos returns the current offset
func (l *Lexer) Pos() int {
	return l.pos
}

// Seek moves the lexer to an absolute offset
func (l *Lexer) Seek(offset int) {
	l.pos = min(max(offset, 0), len(l.data))
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (*Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.data) {
		return &Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	b := l.data[l.pos]

	switch b {
	case '%':
		return l.readComment(), nil
	case '[':
		l.pos++
		return &Token{Type: TokenArrayStart, Value: l.data[start:l.pos], Pos: start}, nil
	case ']':
		l.pos++
		return &Token{Type: TokenArrayEnd, Value: l.data[start:l.pos], Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if l.peekAt(1) == '<' {
			l.pos += 2
			return &Token{Type: TokenDictStart, Value: l.data[start:l.pos], Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.peekAt(1) == '>' {
			l.pos += 2
			return &Token{Type: TokenDictEnd, Value: l.data[start:l.pos], Pos: start}, nil
		}
		return nil, fmt.Errorf("unexpected '>' at position %d", start)
	case '/':
		return l.readName()
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber(), nil
	}

	if isRegular(b) {
		return l.readKeyword(), nil
	}

	return nil, fmt.Errorf("unexpected character %q at position %d", b, start)
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.data) {
		return 0
	}
	return l.data[l.pos+n]
}

// skipWhitespace skips PDF whitespace: space, tab, LF, CR, FF and NUL
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
}

// readComment reads a comment up to, and including, the end of line
func (l *Lexer) readComment() *Token {
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '\r' && l.data[l.pos] != '\n' {
		l.pos++
	}
	tok := &Token{Type: TokenComment, Value: l.data[start:l.pos], Pos: start}
	l.skipEOL()
	return tok
}

func (l *Lexer) skipEOL() {
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
}

// readString reads a literal string, resolving escapes and balanced parens
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.pos++ // (

	var buf bytes.Buffer
	depth := 1
	for {
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated string starting at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++

		switch b {
		case '(':
			depth++
			buf.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return &Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
			buf.WriteByte(b)
		case '\\':
			if l.pos >= len(l.data) {
				return nil, fmt.Errorf("unterminated escape in string at position %d", l.pos)
			}
			next := l.data[l.pos]
			l.pos++
			switch next {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\r':
				// line continuation
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if isOctalDigit(next) {
					val := next - '0'
					for i := 0; i < 2 && l.pos < len(l.data) && isOctalDigit(l.data[l.pos]); i++ {
						val = val*8 + (l.data[l.pos] - '0')
						l.pos++
					}
					buf.WriteByte(val)
				} else {
					buf.WriteByte(next)
				}
			}
		default:
			buf.WriteByte(b)
		}
	}
}

// readHexString reads <48656C6C6F>, ignoring embedded whitespace. The token
// value holds the hex digits; an odd trailing digit is padded by the parser.
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.pos++ // <

	var buf bytes.Buffer
	for {
		if l.pos >= len(l.data) {
			return nil, fmt.Errorf("unterminated hex string starting at position %d", start)
		}
		b := l.data[l.pos]
		l.pos++
		if b == '>' {
			return &Token{Type: TokenHexString, Value: buf.Bytes(), Pos: start}, nil
		}
		if isWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("invalid hex digit %q at position %d", b, l.pos-1)
		}
		buf.WriteByte(b)
	}
}

// readName reads a name object, decoding #xx escapes
func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	l.pos++ // /

	var buf bytes.Buffer
	for l.pos < len(l.data) {
		b := l.data[l.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		l.pos++
		if b == '#' {
			if l.pos+2 > len(l.data) {
				return nil, fmt.Errorf("truncated escape in name at position %d", l.pos-1)
			}
			h1, h2 := l.peekAt(0), l.peekAt(1)
			if !isHexDigit(h1) || !isHexDigit(h2) {
				return nil, fmt.Errorf("invalid hex escape in name at position %d", l.pos-1)
			}
			buf.WriteByte(hexValue(h1)<<4 | hexValue(h2))
			l.pos += 2
			continue
		}
		buf.WriteByte(b)
	}

	return &Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

// readNumber reads an integer or real number
func (l *Lexer) readNumber() *Token {
	start := l.pos
	hasDecimal := false

	for l.pos < len(l.data) {
		b := l.data[l.pos]
		switch {
		case b == '.' && !hasDecimal:
			hasDecimal = true
		case isDigit(b):
		case (b == '-' || b == '+') && l.pos == start:
		default:
			return l.numberToken(start, hasDecimal)
		}
		l.pos++
	}
	return l.numberToken(start, hasDecimal)
}

func (l *Lexer) numberToken(start int, hasDecimal bool) *Token {
	typ := TokenInteger
	if hasDecimal {
		typ = TokenReal
	}
	return &Token{Type: typ, Value: l.data[start:l.pos], Pos: start}
}

// readKeyword reads a bare keyword (true, false, null, R, obj, endobj, ...)
func (l *Lexer) readKeyword() *Token {
	start := l.pos
	for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
		l.pos++
	}
	value := l.data[start:l.pos]
	if len(value) == 1 && value[0] == 'R' {
		return &Token{Type: TokenIndirectRef, Value: value, Pos: start}
	}
	return &Token{Type: TokenKeyword, Value: value, Pos: start}
}

// SkipStreamEOL skips the end-of-line marker that must follow the "stream"
// keyword: LF or CR LF. A lone CR is tolerated.
func (l *Lexer) SkipStreamEOL() {
	for l.pos < len(l.data) && (l.data[l.pos] == ' ' || l.data[l.pos] == '\t') {
		l.pos++
	}
	l.skipEOL()
}

// ReadBytes returns the next n bytes without copying
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	if n < 0 || l.pos+n > len(l.data) {
		return nil, fmt.Errorf("unexpected EOF: expected %d bytes at position %d, have %d", n, l.pos, len(l.data)-l.pos)
	}
	data := l.data[l.pos : l.pos+n]
	l.pos += n
	return data, nil
}

// IndexFrom returns the offset of the first occurrence of sep at or after the
// current position, or -1.
func (l *Lexer) IndexFrom(sep []byte) int {
	idx := bytes.Index(l.data[l.pos:], sep)
	if idx < 0 {
		return -1
	}
	return l.pos + idx
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isRegular(b byte) bool {
	return !isWhitespace(b) && !isDelimiter(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
