package commands

import (
	"fmt"
	"io"

	"github.com/shadowlink/shadowlink-go/pkg/version"
)

// RunVersion prints the SDK banner. When require is set it also fails unless
// this SDK shares the required major version and is not older than it.
func RunVersion(require string, w io.Writer) error {
	fmt.Fprintln(w, version.String())
	if require == "" {
		return nil
	}

	cur, err := version.Parse(version.Current)
	if err != nil {
		return err
	}
	req, err := version.Parse(require)
	if err != nil {
		return err
	}
	if !cur.Compatible(req) || cur.Less(req) {
		return fmt.Errorf("SDK %s does not satisfy required version %s", cur, req)
	}
	fmt.Fprintf(w, "Satisfies:   %s\n", req)
	return nil
}
