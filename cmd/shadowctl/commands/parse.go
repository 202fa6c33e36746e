package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shadowlink/shadowlink-go/pkg/log"
	"github.com/shadowlink/shadowlink-go/pkg/shadowjson"
	"github.com/shadowlink/shadowlink-go/pkg/status"
)

// ParseOptions configures the parse command.
type ParseOptions struct {
	// Doc is the path of the document to parse.
	Doc string

	// Props optionally names properties to look up.
	Props string

	// Capacity is the token table capacity (0: default).
	Capacity int

	// Capture receives a codec event for the parsed document (optional).
	Capture log.Logger
}

// RunParse parses a shadow document and reports its token, version and the
// values of the requested properties.
func RunParse(opts ParseOptions, w io.Writer) error {
	doc, err := os.ReadFile(opts.Doc)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	var file PropertyFile
	if opts.Props != "" {
		f, err := LoadPropertyFile(opts.Props)
		if err != nil {
			return err
		}
		file = *f
	}
	_, err = parseDocument(doc, &file, shadowjson.NewParser(opts.Capacity), opts.Capture, w)
	return err
}

// parseDocument reports doc to w and returns its tokens.
func parseDocument(doc []byte, file *PropertyFile, p *shadowjson.Parser, capture log.Logger, w io.Writer) (*shadowjson.Tokens, error) {
	toks, err := p.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	fmt.Fprintf(w, "Tokens:      %d of %d\n", toks.Len(), p.Capacity())

	ev := log.DocumentEvent{Kind: log.DocumentResponse}
	var tok string
	if _, err := toks.FindFieldIn(0, shadowjson.Field(shadowjson.KeyClientToken, &tok)); err == nil {
		ev.ClientToken = tok
		fmt.Fprintf(w, "ClientToken: %s\n", tok)
	} else {
		fmt.Fprintf(w, "ClientToken: %s\n", describe(err))
	}
	var version uint32
	if _, err := toks.FindFieldIn(0, shadowjson.Field(shadowjson.KeyVersion, &version)); err == nil {
		ev.Version = version
		fmt.Fprintf(w, "Version:     %d\n", version)
	} else {
		fmt.Fprintf(w, "Version:     %s\n", describe(err))
	}
	logDocument(capture, file.ClientID, ev, doc)

	if err := lookupSection(w, toks, shadowjson.KeyDesired, file.Desired); err != nil {
		return nil, err
	}
	if err := lookupSection(w, toks, shadowjson.KeyReported, file.Reported); err != nil {
		return nil, err
	}
	return toks, nil
}

// lookupSection reports each property found in state.<section>, or
// anywhere in the document when that object is absent (delta documents).
func lookupSection(w io.Writer, toks *shadowjson.Tokens, section string, entries []PropertyEntry) error {
	if len(entries) == 0 {
		return nil
	}
	obj, pathErr := toks.Path(shadowjson.KeyState, section)

	for _, s := range entries {
		prop, err := s.Property()
		if err != nil {
			return err
		}
		if pathErr == nil {
			_, err = toks.FindFieldIn(obj, prop)
		} else {
			_, err = toks.FindField(prop)
		}

		fmt.Fprintf(w, "%s.%s (%s): ", section, prop.Key, prop.Type)
		if err != nil {
			fmt.Fprintln(w, describe(err))
			continue
		}
		fmt.Fprintln(w, formatValue(prop.Value))
	}
	return nil
}

func describe(err error) string {
	if errors.Is(err, status.NotFound) {
		return "not found"
	}
	return err.Error()
}
