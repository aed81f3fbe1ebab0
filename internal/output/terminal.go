package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether colored output should be written to w:
// never when noColor is set or NO_COLOR is present, otherwise only when w
// is a terminal.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return checkIsTerminal(f)
}

func checkIsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
