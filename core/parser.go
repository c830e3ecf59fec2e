package core

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Parser parses PDF objects from an in-memory buffer using a Lexer for
// tokenization. Lookahead is done by rewinding the lexer, which is cheap
// because the whole input is addressable.
type Parser struct {
	lexer *Lexer
	doc   Document // resolves indirect /Length entries; may be nil
}

// NewParser creates a parser positioned at the start of data
func NewParser(data []byte) *Parser {
	return &Parser{lexer: NewLexer(data)}
}

// NewParserAt creates a parser positioned at offset
func NewParserAt(data []byte, offset int) *Parser {
	return &Parser{lexer: NewLexerAt(data, offset)}
}

// SetDocument sets the document used to resolve indirect stream lengths.
func (p *Parser) SetDocument(doc Document) {
	p.doc = doc
}

// Pos returns the offset of the next unread byte
func (p *Parser) Pos() int {
	return p.lexer.Pos()
}

// next returns the next non-comment token
func (p *Parser) next() (*Token, error) {
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokenComment {
			return tok, nil
		}
	}
}

// ParseObject parses and returns the next PDF object from the input.
// It returns io.EOF when the input is exhausted.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.parseFrom(tok)
}

func (p *Parser) parseFrom(tok *Token) (Object, error) {
	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF

	case TokenKeyword:
		switch string(tok.Value) {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		default:
			return nil, fmt.Errorf("unexpected keyword %q at position %d", tok.Value, tok.Pos)
		}

	case TokenInteger:
		return p.parseNumber(tok)

	case TokenReal:
		val, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			// PDF producers emit oddities such as "-.5" or "1.2.3"; keep what parses
			return Real(0), nil
		}
		return Real(val), nil

	case TokenString:
		return String(tok.Value), nil

	case TokenHexString:
		return decodeHexString(tok.Value)

	case TokenName:
		return Name(tok.Value), nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDict()

	default:
		return nil, fmt.Errorf("unexpected %v at position %d", tok.Type, tok.Pos)
	}
}

func decodeHexString(hexDigits []byte) (Object, error) {
	if len(hexDigits)%2 != 0 {
		hexDigits = append(append([]byte(nil), hexDigits...), '0')
	}
	result := make([]byte, len(hexDigits)/2)
	for i := 0; i < len(hexDigits); i += 2 {
		result[i/2] = hexValue(hexDigits[i])<<4 | hexValue(hexDigits[i+1])
	}
	return String(result), nil
}

// parseNumber parses an integer or, when followed by "gen R", a reference.
func (p *Parser) parseNumber(tok *Token) (Object, error) {
	num, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(tok.Value), 64)
		if ferr != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.Value, tok.Pos)
		}
		return Real(f), nil
	}

	mark := p.lexer.Pos()
	if num >= 0 && num <= int64(^uint32(0)) {
		if gen, ok := p.tryReferenceTail(); ok {
			return Reference{Number: uint32(num), Generation: gen}, nil
		}
	}
	p.lexer.Seek(mark)
	return Int(num), nil
}

// tryReferenceTail consumes "gen R" if it follows; the caller rewinds on
// failure.
func (p *Parser) tryReferenceTail() (uint16, bool) {
	genTok, err := p.lexer.NextToken()
	if err != nil || genTok.Type != TokenInteger {
		return 0, false
	}
	gen, err := strconv.ParseUint(string(genTok.Value), 10, 16)
	if err != nil {
		return 0, false
	}
	rTok, err := p.lexer.NextToken()
	if err != nil || rTok.Type != TokenIndirectRef {
		return 0, false
	}
	return uint16(gen), true
}

// parseArray parses the remainder of "[obj1 obj2 ...]".
func (p *Parser) parseArray() (Object, error) {
	arr := Array{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in array")
		}
		obj, err := p.parseFrom(tok)
		if err != nil {
			return nil, fmt.Errorf("error parsing array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

// parseDict parses the remainder of "<< /Key value ... >>".
func (p *Parser) parseDict() (Object, error) {
	dict := make(Dict)
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("unexpected EOF in dictionary")
		case TokenName:
		default:
			return nil, fmt.Errorf("expected name for dictionary key, got %v at position %d", tok.Type, tok.Pos)
		}
		key := string(tok.Value)

		valTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if valTok.Type == TokenDictEnd {
			// a key without a value; treat as null like most readers do
			dict[key] = Null{}
			return dict, nil
		}
		value, err := p.parseFrom(valTok)
		if err != nil {
			return nil, fmt.Errorf("error parsing dictionary value for key %q: %w", key, err)
		}
		dict[key] = value
	}
}

// ParseIndirectObject parses an indirect object definition:
// "num gen obj <object> endobj" or "num gen obj <dict> stream ... endstream endobj".
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	numTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if numTok.Type != TokenInteger {
		return nil, fmt.Errorf("expected object number, got %v at position %d", numTok.Type, numTok.Pos)
	}
	num, err := strconv.ParseUint(string(numTok.Value), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid object number: %w", err)
	}

	genTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if genTok.Type != TokenInteger {
		return nil, fmt.Errorf("expected generation number, got %v at position %d", genTok.Type, genTok.Pos)
	}
	gen, err := strconv.ParseUint(string(genTok.Value), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid generation number: %w", err)
	}

	objTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if objTok.Type != TokenKeyword || string(objTok.Value) != "obj" {
		return nil, fmt.Errorf("expected 'obj' keyword at position %d", objTok.Pos)
	}

	obj, err := p.ParseObject()
	if err == io.EOF {
		return nil, fmt.Errorf("unexpected EOF in object %d", num)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing indirect object value: %w", err)
	}

	mark := p.lexer.Pos()
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenKeyword && string(tok.Value) == "stream" {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("stream must follow a dictionary in object %d", num)
		}
		stream, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("error parsing stream of object %d: %w", num, err)
		}
		obj = stream
		mark = p.lexer.Pos()
		if tok, err = p.next(); err != nil {
			return nil, err
		}
	}

	// "endobj" is frequently missing in damaged files; accept anything else
	// without consuming it.
	if tok.Type != TokenKeyword || string(tok.Value) != "endobj" {
		p.lexer.Seek(mark)
	}

	return &IndirectObject{
		Ref:    ObjectRef{Number: uint32(num), Generation: uint16(gen)},
		Object: obj,
	}, nil
}

var endstreamKeyword = []byte("endstream")

// parseStream reads the payload following the "stream" keyword. The
// declared /Length is trusted when it lands on "endstream"; otherwise the
// payload is delimited by scanning for the keyword.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	p.lexer.SkipStreamEOL()
	start := p.lexer.Pos()

	if length, ok := p.streamLength(dict); ok {
		if data, err := p.lexer.ReadBytes(length); err == nil {
			mark := p.lexer.Pos()
			tok, err := p.lexer.NextToken()
			if err == nil && tok.Type == TokenKeyword && bytes.Equal(tok.Value, endstreamKeyword) {
				return &Stream{Dict: dict, Data: data}, nil
			}
			p.lexer.Seek(mark)
		}
		p.lexer.Seek(start)
	}

	end := p.lexer.IndexFrom(endstreamKeyword)
	if end < 0 {
		return nil, fmt.Errorf("missing 'endstream' keyword")
	}
	data, err := p.lexer.ReadBytes(end - start)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))
	p.lexer.Seek(end + len(endstreamKeyword))

	return &Stream{Dict: dict, Data: data}, nil
}

func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), v >= 0
	case Reference:
		if p.doc == nil {
			return 0, false
		}
		resolved, err := p.doc.GetObject(v.Number)
		if err != nil {
			return 0, false
		}
		n, ok := resolved.(Int)
		return int(n), ok && n >= 0
	default:
		return 0, false
	}
}
