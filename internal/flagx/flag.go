// Package flagx contains helpers for parsing a subset of the command line
// without disturbing flags owned by other components.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns only the arguments that belong to the allowed flags,
// keeping their values when supplied as a separate token or in the
// "-flag=value" form. Everything else (unknown flags, positionals) is
// dropped, so a flag.FlagSet can parse the result without tripping over
// flags it does not define.
func FilterArgs(args []string, allowedFlags []string) []string {
	keep := make(map[string]bool, len(allowedFlags))
	for _, name := range allowedFlags {
		keep[name] = true
	}

	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "-flag=value" form: keep the whole token when the name matches.
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			if keep[strings.SplitN(arg, "=", 2)[0]] {
				out = append(out, arg)
			}
			continue
		}

		if !keep[arg] {
			continue
		}
		out = append(out, arg)

		// The next token is this flag's value unless it looks like another
		// flag.
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// JsonConfigFlags extracts the config file path given via -c or -config.
// Only these two flags are parsed; the rest of os.Args is ignored. Returns
// an empty string when neither flag is present.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
