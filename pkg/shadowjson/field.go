package shadowjson

import (
	"strconv"

	"github.com/shadowlink/shadowlink-go/pkg/status"
)

// Span is the byte range of a value in the parsed document. String spans
// exclude the quotes.
type Span struct {
	Start  int
	Length int
}

// Tokens is a parsed view of a document.
type Tokens struct {
	doc  []byte
	toks []Token
}

// Len returns the number of tokens.
func (t *Tokens) Len() int { return len(t.toks) }

// At returns token i.
func (t *Tokens) At(i int) Token { return t.toks[i] }

// Text returns the bytes of token i.
func (t *Tokens) Text(i int) []byte {
	tok := t.toks[i]
	return t.doc[tok.Start:tok.End]
}

// FindField locates the first key equal to prop.Key anywhere in the
// document, in document order, and decodes the value that follows into
// prop.Value.
func (t *Tokens) FindField(prop Property) (Span, error) {
	return t.find(-1, prop)
}

// FindFieldIn is FindField restricted to direct members of the object
// token at index obj.
func (t *Tokens) FindFieldIn(obj int, prop Property) (Span, error) {
	if obj < 0 || obj >= len(t.toks) || t.toks[obj].Kind != KindObject {
		return Span{}, status.Errorf(status.NotFound, "token %d is not an object", obj)
	}
	return t.find(obj, prop)
}

func (t *Tokens) find(obj int, prop Property) (Span, error) {
	if err := prop.validate(); err != nil {
		return Span{}, err
	}
	v, ok := t.lookup(obj, prop.Key)
	if !ok {
		return Span{}, status.Errorf(status.NotFound, "field %q", prop.Key)
	}
	if err := t.decode(v, prop); err != nil {
		return Span{}, err
	}
	tok := t.toks[v]
	return Span{Start: tok.Start, Length: tok.End - tok.Start}, nil
}

// lookup returns the value index of the first key matching key. obj -1
// searches every object.
func (t *Tokens) lookup(obj int, key string) (int, bool) {
	for i := 0; i+1 < len(t.toks); i++ {
		tok := t.toks[i]
		if !tok.Key || (obj >= 0 && tok.Parent != obj) {
			continue
		}
		if string(t.doc[tok.Start:tok.End]) == key {
			return i + 1, true
		}
	}
	return -1, false
}

// Member returns the index of the value of key among the direct members of
// object obj.
func (t *Tokens) Member(obj int, key string) (int, bool) {
	if obj < 0 || obj >= len(t.toks) || t.toks[obj].Kind != KindObject {
		return -1, false
	}
	return t.lookup(obj, key)
}

// Object returns the index of the first object-valued member named key,
// searching in document order.
func (t *Tokens) Object(key string) (int, error) {
	for i := 0; i+1 < len(t.toks); i++ {
		tok := t.toks[i]
		if !tok.Key || t.toks[i+1].Kind != KindObject {
			continue
		}
		if string(t.doc[tok.Start:tok.End]) == key {
			return i + 1, nil
		}
	}
	return -1, status.Errorf(status.NotFound, "object %q", key)
}

// Path follows a chain of object keys from the root, e.g.
// Path("state", "reported").
func (t *Tokens) Path(keys ...string) (int, error) {
	if len(t.toks) == 0 {
		return -1, status.Errorf(status.NotFound, "empty document")
	}
	cur := 0
	for _, k := range keys {
		v, ok := t.Member(cur, k)
		if !ok {
			return -1, status.Errorf(status.NotFound, "object %q", k)
		}
		cur = v
	}
	return cur, nil
}

func (t *Tokens) decode(i int, prop Property) error {
	tok := t.toks[i]
	text := string(t.doc[tok.Start:tok.End])

	if prop.Type == TypeString {
		if tok.Kind != KindString {
			return status.Errorf(status.JSONParse, "field %q: expected string, got %s", prop.Key, tok.Kind)
		}
		*prop.Value.(*string) = text
		return nil
	}
	if tok.Kind != KindPrimitive || text == "null" {
		return status.Errorf(status.JSONParse, "field %q: expected %s, got %s", prop.Key, prop.Type, tok.Kind)
	}

	fail := func(err error) error {
		return status.Errorf(status.JSONParse, "field %q: %q as %s: %v", prop.Key, text, prop.Type, err)
	}
	switch v := prop.Value.(type) {
	case *bool:
		if text != "true" && text != "false" {
			return fail(strconv.ErrSyntax)
		}
		*v = text == "true"
	case *int8:
		n, err := strconv.ParseInt(text, 10, 8)
		if err != nil {
			return fail(err)
		}
		*v = int8(n)
	case *int16:
		n, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return fail(err)
		}
		*v = int16(n)
	case *int32:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return fail(err)
		}
		*v = int32(n)
	case *uint8:
		n, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			return fail(err)
		}
		*v = uint8(n)
	case *uint16:
		n, err := strconv.ParseUint(text, 10, 16)
		if err != nil {
			return fail(err)
		}
		*v = uint16(n)
	case *uint32:
		n, err := strconv.ParseUint(text, 10, 32)
		if err != nil {
			return fail(err)
		}
		*v = uint32(n)
	case *float32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return fail(err)
		}
		*v = float32(f)
	case *float64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fail(err)
		}
		*v = f
	default:
		return status.Errorf(status.JSONGeneric, "field %q: unsupported value %T", prop.Key, prop.Value)
	}
	return nil
}

// ExtractClientToken parses doc and returns the root clientToken.
func (p *Parser) ExtractClientToken(doc []byte) (string, error) {
	toks, err := p.Parse(doc)
	if err != nil {
		return "", err
	}
	var tok string
	if _, err := toks.FindFieldIn(0, Field(KeyClientToken, &tok)); err != nil {
		return "", err
	}
	return tok, nil
}

// ExtractVersion parses doc and returns the root version.
func (p *Parser) ExtractVersion(doc []byte) (uint32, error) {
	toks, err := p.Parse(doc)
	if err != nil {
		return 0, err
	}
	var version uint32
	if _, err := toks.FindFieldIn(0, Field(KeyVersion, &version)); err != nil {
		return 0, err
	}
	return version, nil
}
