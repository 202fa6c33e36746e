package commands

import (
	"fmt"
	"io"

	"github.com/shadowlink/shadowlink-go/pkg/log"
	"github.com/shadowlink/shadowlink-go/pkg/shadowjson"
	"github.com/shadowlink/shadowlink-go/pkg/token"
)

// DefaultClientID names documents when neither the flags nor the property
// file carry a client id.
const DefaultClientID = "shadowctl"

// BuildOptions configures the build command.
type BuildOptions struct {
	// Kind is get, delete or update.
	Kind string

	// Size is the document buffer capacity, terminator included.
	Size int

	// ClientID overrides the property file's client id.
	ClientID string

	// Props is the property file path (required for update).
	Props string

	// Capture receives a codec event for the built document (optional).
	Capture log.Logger
}

// RunBuild builds a shadow request into a buffer of opts.Size bytes and
// writes it to w.
func RunBuild(opts BuildOptions, w io.Writer) error {
	if opts.Size < 1 {
		return fmt.Errorf("invalid size %d", opts.Size)
	}

	var file PropertyFile
	if opts.Props != "" {
		f, err := LoadPropertyFile(opts.Props)
		if err != nil {
			return err
		}
		file = *f
	}

	clientID := opts.ClientID
	if clientID == "" {
		clientID = file.ClientID
	}
	if clientID == "" {
		clientID = DefaultClientID
	}
	gen := token.New(clientID)

	doc := shadowjson.NewDocument(make([]byte, opts.Size))
	var kind log.DocumentKind
	var err error
	switch opts.Kind {
	case "get":
		kind = log.DocumentGet
		err = doc.GetRequest(gen)
	case "delete":
		kind = log.DocumentDelete
		err = doc.DeleteRequest(gen)
	case "update":
		if opts.Props == "" {
			return fmt.Errorf("update requires a property file")
		}
		desired, reported, perr := file.Properties()
		if perr != nil {
			return perr
		}
		kind = log.DocumentUpdate
		err = doc.UpdateRequest(gen, desired, reported)
	default:
		return fmt.Errorf("unknown document kind: %s (must be get, delete, or update)", opts.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to build %s document: %w", opts.Kind, err)
	}

	tok, _ := shadowjson.NewParser(0).ExtractClientToken(doc.Bytes())
	logDocument(opts.Capture, clientID, log.DocumentEvent{
		Kind:        kind,
		ClientToken: tok,
		Capacity:    doc.Cap(),
	}, doc.Bytes())

	_, err = fmt.Fprintln(w, doc.String())
	return err
}
