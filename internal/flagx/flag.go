// Package flagx lets several config layers share os.Args without tripping
// over each other's flags.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the flags named in allowed together with their values.
// Both "-f value" and "-f=value" forms are recognised; everything else,
// including positional arguments, is dropped.
func FilterArgs(args []string, allowed []string) []string {
	known := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		known[name] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if known[name] {
				out = append(out, arg)
			}
			continue
		}

		if !known[arg] {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// stringFlag extracts a single string flag that may be spelled in a short and
// a long form. Missing flags yield "".
func stringFlag(args []string, short, long, usage string) string {
	var v string
	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.StringVar(&v, long, "", usage)
	fs.StringVar(&v, short, "", usage+" (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-" + short, "-" + long}))
	return v
}

// ConfigFile returns the JSON config path given via -c or -config.
func ConfigFile(args []string) string {
	return stringFlag(args, "c", "config", "path to JSON config file")
}

// EnvFile returns the dotenv path given via -env-file, or "" when absent.
func EnvFile(args []string) string {
	return stringFlag(args, "envf", "env-file", "path to .env file")
}
