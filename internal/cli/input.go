package cli

import (
	"errors"
	"io"
	"os"
	"strings"
)

var errStdinTwice = errors.New("only one argument may read from stdin")

// readInput resolves a JSON argument: "-" reads stdin, "@path" reads a
// file, anything else is the JSON text itself.
func readInput(arg string, stdin io.Reader) ([]byte, error) {
	switch {
	case arg == "-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		return os.ReadFile(arg[1:])
	default:
		return []byte(arg), nil
	}
}
