// Package diagfmt prints the driver's single fatal error line to stderr,
// colorized when stderr is a terminal.
//
// Grounded on vovakirdan-surge/internal/version/version.go's color.New usage
// and cmd/surge/main.go's isTerminal gate, condensed to spec.md §7's single
// "Error: <message>" line — SyC has no multi-diagnostic bag, so surge's
// Pretty/JSON/Sarif formatters have no analogue here.
package diagfmt

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var errorLabel = color.New(color.FgRed, color.Bold)

// PrintError writes "Error: <message>" to w, bolding the "Error:" prefix red
// when w is an *os.File attached to a terminal.
func PrintError(w io.Writer, err error) {
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		fmt.Fprint(w, errorLabel.Sprint("Error:")+" "+err.Error()+"\n")
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// isTerminal reports whether f is attached to a character-device terminal.
// Kept to a one-line os.ModeCharDevice stat rather than importing
// golang.org/x/term (see DESIGN.md) since this package needs nothing else
// term offers.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
