package shadowjson

import (
	"bytes"

	"github.com/shadowlink/shadowlink-go/pkg/status"
)

// DefaultTokenCapacity is the token table size used for shadow responses.
const DefaultTokenCapacity = 120

// MaxDepth limits object and array nesting.
const MaxDepth = 32

// Kind is the JSON kind of a token.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindObject
	KindArray
	KindString
	KindPrimitive
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindPrimitive:
		return "primitive"
	default:
		return "undefined"
	}
}

// Token locates one JSON value or object key inside the parsed document.
//
// For strings Start and End exclude the quotes. Size is the number of
// members of an object, elements of an array, or 1 for a key. Parent is the
// index of the enclosing token; an object member's value has its key as
// parent. The root has Parent -1.
type Token struct {
	Kind   Kind
	Start  int
	End    int
	Size   int
	Parent int
	Key    bool
}

// Parser tokenizes documents into a fixed-capacity table.
// A Parser is not safe for concurrent use.
type Parser struct {
	table []Token
	view  Tokens

	doc []byte
	pos int
	n   int
}

// NewParser returns a parser whose table holds capacity tokens.
// A capacity below 1 uses DefaultTokenCapacity.
func NewParser(capacity int) *Parser {
	if capacity < 1 {
		capacity = DefaultTokenCapacity
	}
	return &Parser{table: make([]Token, capacity)}
}

// Capacity returns the token table size.
func (p *Parser) Capacity() int { return len(p.table) }

// Parse tokenizes doc. Input ends at len(doc) or at the first NUL byte,
// whichever comes first. The returned Tokens alias both doc and the
// parser's table and are invalidated by the next Parse.
func (p *Parser) Parse(doc []byte) (*Tokens, error) {
	if i := bytes.IndexByte(doc, 0); i >= 0 {
		doc = doc[:i]
	}
	p.doc = doc
	p.pos = 0
	p.n = 0
	p.view = Tokens{}

	p.skipSpace()
	if p.pos >= len(p.doc) {
		return nil, status.Errorf(status.JSONParse, "empty document")
	}
	if p.doc[p.pos] != '{' {
		return nil, status.Errorf(status.JSONParse, "root is not an object")
	}
	if _, err := p.value(-1, 0); err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.doc) {
		return nil, p.syntax("trailing data")
	}

	p.view = Tokens{doc: doc, toks: p.table[:p.n]}
	return &p.view, nil
}

// Valid reports whether doc is a well-formed JSON object that fits the
// token table.
func (p *Parser) Valid(doc []byte) bool {
	_, err := p.Parse(doc)
	return err == nil
}

func (p *Parser) syntax(what string) error {
	return status.Errorf(status.JSONParse, "%s at offset %d", what, p.pos)
}

func (p *Parser) alloc(kind Kind, start, parent int) (int, error) {
	if p.n >= len(p.table) {
		return -1, status.Errorf(status.JSONParse, "more than %d tokens", len(p.table))
	}
	i := p.n
	p.n++
	p.table[i] = Token{Kind: kind, Start: start, End: -1, Parent: parent}
	return i, nil
}

func (p *Parser) skipSpace() {
	for p.pos < len(p.doc) {
		switch p.doc[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *Parser) value(parent, depth int) (int, error) {
	p.skipSpace()
	if p.pos >= len(p.doc) {
		return -1, p.syntax("unexpected end of input")
	}
	switch p.doc[p.pos] {
	case '{':
		return p.object(parent, depth+1)
	case '[':
		return p.array(parent, depth+1)
	case '"':
		return p.str(parent)
	default:
		return p.primitive(parent)
	}
}

func (p *Parser) object(parent, depth int) (int, error) {
	if depth > MaxDepth {
		return -1, p.syntax("nesting too deep")
	}
	obj, err := p.alloc(KindObject, p.pos, parent)
	if err != nil {
		return -1, err
	}
	p.pos++

	p.skipSpace()
	if p.pos < len(p.doc) && p.doc[p.pos] == '}' {
		p.pos++
		p.table[obj].End = p.pos
		return obj, nil
	}

	for {
		p.skipSpace()
		if p.pos >= len(p.doc) || p.doc[p.pos] != '"' {
			return -1, p.syntax("expected object key")
		}
		key, err := p.str(obj)
		if err != nil {
			return -1, err
		}
		p.table[key].Key = true
		p.table[key].Size = 1
		p.table[obj].Size++

		p.skipSpace()
		if p.pos >= len(p.doc) || p.doc[p.pos] != ':' {
			return -1, p.syntax("expected ':'")
		}
		p.pos++
		if _, err := p.value(key, depth); err != nil {
			return -1, err
		}

		p.skipSpace()
		if p.pos >= len(p.doc) {
			return -1, p.syntax("unterminated object")
		}
		switch p.doc[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			p.table[obj].End = p.pos
			return obj, nil
		default:
			return -1, p.syntax("expected ',' or '}'")
		}
	}
}

func (p *Parser) array(parent, depth int) (int, error) {
	if depth > MaxDepth {
		return -1, p.syntax("nesting too deep")
	}
	arr, err := p.alloc(KindArray, p.pos, parent)
	if err != nil {
		return -1, err
	}
	p.pos++

	p.skipSpace()
	if p.pos < len(p.doc) && p.doc[p.pos] == ']' {
		p.pos++
		p.table[arr].End = p.pos
		return arr, nil
	}

	for {
		if _, err := p.value(arr, depth); err != nil {
			return -1, err
		}
		p.table[arr].Size++

		p.skipSpace()
		if p.pos >= len(p.doc) {
			return -1, p.syntax("unterminated array")
		}
		switch p.doc[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			p.table[arr].End = p.pos
			return arr, nil
		default:
			return -1, p.syntax("expected ',' or ']'")
		}
	}
}

// str scans a string starting at the opening quote. Escapes are checked
// but not decoded.
func (p *Parser) str(parent int) (int, error) {
	start := p.pos + 1
	for i := start; i < len(p.doc); i++ {
		c := p.doc[i]
		switch {
		case c == '"':
			tok, err := p.alloc(KindString, start, parent)
			if err != nil {
				return -1, err
			}
			p.table[tok].End = i
			p.pos = i + 1
			return tok, nil
		case c == '\\':
			i++
			if i >= len(p.doc) {
				p.pos = i
				return -1, p.syntax("unterminated escape")
			}
			switch p.doc[i] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				if i+4 >= len(p.doc) || !isHex4(p.doc[i+1:i+5]) {
					p.pos = i
					return -1, p.syntax("invalid unicode escape")
				}
				i += 4
			default:
				p.pos = i
				return -1, p.syntax("invalid escape")
			}
		case c < 0x20:
			p.pos = i
			return -1, p.syntax("control character in string")
		}
	}
	p.pos = len(p.doc)
	return -1, p.syntax("unterminated string")
}

func isHex4(b []byte) bool {
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func (p *Parser) primitive(parent int) (int, error) {
	start := p.pos
	end := start
	for end < len(p.doc) {
		c := p.doc[end]
		if c == ',' || c == '}' || c == ']' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		end++
	}

	text := p.doc[start:end]
	if !isLiteral(text) && !isNumber(text) {
		return -1, p.syntax("invalid value")
	}
	tok, err := p.alloc(KindPrimitive, start, parent)
	if err != nil {
		return -1, err
	}
	p.table[tok].End = end
	p.pos = end
	return tok, nil
}

func isLiteral(b []byte) bool {
	switch string(b) {
	case "true", "false", "null":
		return true
	}
	return false
}

// isNumber matches the JSON number grammar.
func isNumber(b []byte) bool {
	i := 0
	if i < len(b) && b[i] == '-' {
		i++
	}
	switch {
	case i < len(b) && b[i] == '0':
		i++
	case i < len(b) && b[i] >= '1' && b[i] <= '9':
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(b) && b[i] == '.' {
		i++
		if i >= len(b) || !isDigit(b[i]) {
			return false
		}
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		if i >= len(b) || !isDigit(b[i]) {
			return false
		}
		for i < len(b) && isDigit(b[i]) {
			i++
		}
	}
	return i == len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
