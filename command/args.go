package command

import (
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ParseArgs splits raw on whitespace and parses cmd's flags from it.
// Quoted arguments are kept together, with the quotes removed.
func ParseArgs(cmd *Command, raw string) (fs *pflag.FlagSet, args []string, err error) {
	fs = pflag.NewFlagSet(cmd.Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(true)

	if cmd.Flags != nil {
		cmd.Flags(fs)
	}

	err = fs.Parse(Split(raw))
	if err != nil {
		return fs, nil, err
	}
	return fs, fs.Args(), nil
}

// Split splits s on whitespace, keeping double-quoted sections together.
func Split(s string) (args []string) {
	var (
		b      strings.Builder
		quoted bool
		inArg  bool
	)

	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			inArg = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			if inArg {
				args = append(args, b.String())
				b.Reset()
				inArg = false
			}
		default:
			b.WriteRune(r)
			inArg = true
		}
	}

	if inArg {
		args = append(args, b.String())
	}
	return args
}
