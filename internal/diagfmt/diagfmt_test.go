package diagfmt

import (
	"bytes"
	"errors"
	"testing"
)

func TestPrintErrorFormatsPlainMessageForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New("boom"))
	if buf.String() != "Error: boom\n" {
		t.Fatalf("got %q, want %q", buf.String(), "Error: boom\n")
	}
}
