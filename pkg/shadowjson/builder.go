package shadowjson

import (
	"github.com/shadowlink/shadowlink-go/pkg/status"
	"github.com/shadowlink/shadowlink-go/pkg/token"
)

// Shadow document keys.
const (
	KeyState       = "state"
	KeyDesired     = "desired"
	KeyReported    = "reported"
	KeyClientToken = "clientToken"
	KeyVersion     = "version"
)

const (
	prologue       = `{"` + KeyState + `":{`
	desiredOpen    = `"` + KeyDesired + `":{`
	reportedOpen   = `"` + KeyReported + `":{`
	tokenFieldOpen = `},"` + KeyClientToken + `":"`
	requestOpen    = `{"` + KeyClientToken + `":"`
	tokenFieldEnd  = `"}`
)

func (d *Document) usable() error {
	if d == nil || len(d.buf) == 0 {
		return status.Errorf(status.NullValue, "document has no buffer")
	}
	return nil
}

// Init starts an update document by writing the {"state":{ prologue.
// Any previous content is discarded.
func (d *Document) Init() error {
	if err := d.usable(); err != nil {
		return err
	}
	d.Reset()
	if err := d.appendString(prologue); err != nil {
		d.Reset()
		return err
	}
	return nil
}

// AddDesired appends a "desired" sub-object holding props.
func (d *Document) AddDesired(props ...Property) error {
	return d.addSection(desiredOpen, props)
}

// AddReported appends a "reported" sub-object holding props.
func (d *Document) AddReported(props ...Property) error {
	return d.addSection(reportedOpen, props)
}

// addSection writes opener, each "key":value pair, closes the object and
// leaves a trailing comma for Finalize to strip. On any failure the
// document is rolled back to its state at entry.
func (d *Document) addSection(opener string, props []Property) error {
	if err := d.usable(); err != nil {
		return err
	}
	if d.n == 0 || d.finalized {
		return status.Errorf(status.JSONGeneric, "document is not open for update")
	}
	for _, p := range props {
		if err := p.validate(); err != nil {
			return err
		}
	}

	m := d.mark()
	if err := d.writeSection(opener, props); err != nil {
		d.rollback(m)
		return err
	}
	return nil
}

func (d *Document) writeSection(opener string, props []Property) error {
	if err := d.appendString(opener); err != nil {
		return err
	}
	for _, p := range props {
		if err := d.appendString(`"`); err != nil {
			return err
		}
		if err := d.appendString(p.Key); err != nil {
			return err
		}
		if err := d.appendString(`":`); err != nil {
			return err
		}
		if err := d.appendValue(p); err != nil {
			return err
		}
		if err := d.appendString(","); err != nil {
			return err
		}
	}

	if d.lastByte() == ',' {
		d.buf[d.n-1] = '}'
	} else if err := d.appendString("}"); err != nil {
		return err
	}
	return d.appendString(",")
}

// Finalize strips the trailing comma, closes the state object, appends a
// freshly minted clientToken and closes the document.
//
// A token is minted even when the document does not fit, so a truncated
// attempt still consumes a sequence number.
func (d *Document) Finalize(gen *token.Generator) error {
	if err := d.usable(); err != nil {
		return err
	}
	if gen == nil {
		return status.Errorf(status.NullValue, "no token generator")
	}
	if d.n == 0 || d.finalized {
		return status.Errorf(status.JSONGeneric, "document is not open for update")
	}

	tok := gen.Mint()
	m := d.mark()
	if d.lastByte() == ',' {
		d.n--
	}
	if err := d.writeToken(tokenFieldOpen, tok); err != nil {
		d.rollback(m)
		return err
	}
	d.finalized = true
	return nil
}

func (d *Document) writeToken(open, tok string) error {
	if err := d.appendString(open); err != nil {
		return err
	}
	if err := d.appendString(tok); err != nil {
		return err
	}
	return d.appendString(tokenFieldEnd)
}

// GetRequest writes a {"clientToken":"<token>"} get request.
func (d *Document) GetRequest(gen *token.Generator) error {
	return d.tokenOnly(gen)
}

// DeleteRequest writes a {"clientToken":"<token>"} delete request.
func (d *Document) DeleteRequest(gen *token.Generator) error {
	return d.tokenOnly(gen)
}

func (d *Document) tokenOnly(gen *token.Generator) error {
	if err := d.usable(); err != nil {
		return err
	}
	if gen == nil {
		return status.Errorf(status.NullValue, "no token generator")
	}

	tok := gen.Mint()
	d.Reset()
	if err := d.writeToken(requestOpen, tok); err != nil {
		d.Reset()
		return err
	}
	d.finalized = true
	return nil
}

// UpdateRequest builds a complete update document. Empty desired or
// reported lists omit the corresponding sub-object.
func (d *Document) UpdateRequest(gen *token.Generator, desired, reported []Property) error {
	if err := d.Init(); err != nil {
		return err
	}
	if len(desired) > 0 {
		if err := d.AddDesired(desired...); err != nil {
			return err
		}
	}
	if len(reported) > 0 {
		if err := d.AddReported(reported...); err != nil {
			return err
		}
	}
	return d.Finalize(gen)
}
