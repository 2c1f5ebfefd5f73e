package parser

import (
	"bytes"
	"io"

	"github.com/kr/pretty"

	"github.com/emlang-project/webidl-dts-gen/internal/idl"
)

// Dump writes a structured, human-readable rendition of n to w.
func Dump(w io.Writer, n idl.Node) error {
	_, err := pretty.Fprintf(w, "%# v\n", n)
	return err
}

// DumpString returns the Dump of n as a string.
func DumpString(n idl.Node) string {
	var buf bytes.Buffer
	_ = Dump(&buf, n)
	return buf.String()
}
