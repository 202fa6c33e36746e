package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/shadowlink/shadowlink-go/pkg/log"
	"github.com/shadowlink/shadowlink-go/pkg/shadowjson"
	"github.com/shadowlink/shadowlink-go/pkg/token"
)

// Shell composes and inspects shadow documents interactively.
type Shell struct {
	out     io.Writer
	gen     *token.Generator
	doc     *shadowjson.Document
	parser  *shadowjson.Parser
	scan    *shadowjson.Parser // for built documents, so toks survives
	capture log.Logger

	// last parsed document, for find
	toks *shadowjson.Tokens
}

// NewShell creates a shell building into a buffer of size bytes. Output
// goes to out; capture may be nil.
func NewShell(clientID string, size int, out io.Writer, capture log.Logger) *Shell {
	return &Shell{
		out:     out,
		gen:     token.New(clientID),
		doc:     shadowjson.NewDocument(make([]byte, size)),
		parser:  shadowjson.NewParser(0),
		scan:    shadowjson.NewParser(0),
		capture: capture,
	}
}

// Run reads commands until EOF, quit, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "shadow> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	s.out = rl.Stdout()

	s.printHelp()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		if !s.Exec(line) {
			return nil
		}
	}
}

// Exec runs one command line. It returns false when the shell should exit.
func (s *Shell) Exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "init":
		s.report(s.doc.Init())
	case "desired", "d":
		s.cmdSection(args, s.doc.AddDesired)
	case "reported", "r":
		s.cmdSection(args, s.doc.AddReported)
	case "finalize", "f":
		s.built(log.DocumentUpdate, s.doc.Finalize(s.gen))
	case "get":
		s.built(log.DocumentGet, s.doc.GetRequest(s.gen))
	case "delete":
		s.built(log.DocumentDelete, s.doc.DeleteRequest(s.gen))
	case "show", "s":
		s.cmdShow()
	case "parse", "p":
		s.cmdParse(strings.TrimSpace(strings.TrimPrefix(input, parts[0])))
	case "find":
		s.cmdFind(args)
	case "reset":
		s.doc.Reset()
		fmt.Fprintln(s.out, "Document cleared")
	case "reset-seq":
		s.gen.Reset()
		fmt.Fprintf(s.out, "Next token: %s-%d\n", s.gen.ClientID(), s.gen.Next())
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  init                        Start an update document
  desired <key> <type> <val>  Add a desired property
  reported <key> <type> <val> Add a reported property
  finalize                    Close the update with a client token
  get | delete                Build a get or delete request
  show                        Print the current document
  parse [json]                Parse json, or the current document
  find <key> <type>           Look up a field in the last parsed document
  reset                       Clear the document
  reset-seq                   Restart client token numbering at 0
  quit                        Exit
Types: bool int8 int16 int32 uint8 uint16 uint32 float double string
`)
}

func (s *Shell) report(err error) {
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "OK (%d/%d bytes)\n", s.doc.Len(), s.doc.Cap())
}

func (s *Shell) cmdSection(args []string, add func(...shadowjson.Property) error) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "Usage: desired|reported <key> <type> <value>")
		return
	}
	prop, err := newProperty(args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.report(add(prop))
}

func (s *Shell) built(kind log.DocumentKind, err error) {
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	tok, _ := s.scan.ExtractClientToken(s.doc.Bytes())
	logDocument(s.capture, s.gen.ClientID(), log.DocumentEvent{
		Kind:        kind,
		ClientToken: tok,
		Capacity:    s.doc.Cap(),
	}, s.doc.Bytes())
	fmt.Fprintln(s.out, s.doc.String())
}

func (s *Shell) cmdShow() {
	state := "open"
	if s.doc.Finalized() {
		state = "finalized"
	}
	fmt.Fprintf(s.out, "%s\n(%d/%d bytes, %s, next token %s-%d)\n",
		s.doc.String(), s.doc.Len(), s.doc.Cap(), state, s.gen.ClientID(), s.gen.Next())
}

func (s *Shell) cmdParse(text string) {
	var doc []byte
	if text != "" {
		doc = []byte(text)
	} else {
		doc = append([]byte(nil), s.doc.Bytes()...)
	}

	toks, err := parseDocument(doc, &PropertyFile{ClientID: s.gen.ClientID()}, s.parser, s.capture, s.out)
	if err != nil {
		s.toks = nil
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.toks = toks
}

func (s *Shell) cmdFind(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: find <key> <type>")
		return
	}
	if s.toks == nil {
		fmt.Fprintln(s.out, "Error: nothing parsed yet")
		return
	}
	entry := PropertyEntry{Key: args[0], Type: args[1]}
	prop, err := entry.Property()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	span, err := s.toks.FindField(prop)
	if err != nil {
		fmt.Fprintf(s.out, "%s: %s\n", prop.Key, describe(err))
		return
	}
	fmt.Fprintf(s.out, "%s = %s (bytes %d..%d)\n", prop.Key, formatValue(prop.Value), span.Start, span.Start+span.Length)
}
