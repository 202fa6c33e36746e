// Package token mints client tokens used to correlate shadow requests with
// their responses.
//
// A token has the form "<clientId>-<sequence>". The sequence starts at 0 and
// increments on every Mint, including mints whose document is later
// discarded, so tokens are unique for the lifetime of a Generator. Tokens are
// correlation ids, not credentials.
package token

import (
	"strconv"
	"sync/atomic"
)

// Generator mints client tokens for one client id.
// It is safe for concurrent use.
type Generator struct {
	clientID string
	seq      atomic.Uint64
}

// New creates a Generator for clientID with the sequence at 0.
func New(clientID string) *Generator {
	return &Generator{clientID: clientID}
}

// ClientID returns the client id embedded in minted tokens.
func (g *Generator) ClientID() string {
	return g.clientID
}

// Mint returns the next token and advances the sequence.
func (g *Generator) Mint() string {
	seq := g.seq.Add(1) - 1
	return g.clientID + "-" + strconv.FormatUint(seq, 10)
}

// Next returns the sequence number the next Mint will use.
func (g *Generator) Next() uint64 {
	return g.seq.Load()
}

// Reset starts a fresh numbering epoch at 0.
// Never called implicitly.
func (g *Generator) Reset() {
	g.seq.Store(0)
}

// Sequence extracts the sequence number from a token minted for clientID.
// Returns false if tok was not minted for clientID.
func Sequence(clientID, tok string) (uint64, bool) {
	prefix := clientID + "-"
	if len(tok) <= len(prefix) || tok[:len(prefix)] != prefix {
		return 0, false
	}
	n, err := strconv.ParseUint(tok[len(prefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
